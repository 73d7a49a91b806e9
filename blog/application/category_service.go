package application

import (
	"context"
	"strings"
	"time"

	"github.com/dfryer1193/goblog-api/blog/domain"
	"github.com/dfryer1193/goblog-api/shared/errs"
	"github.com/google/uuid"
)

type CategoryService struct {
	repo domain.CategoryRepository
	now  func() time.Time
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.New(errs.ErrValidation, "Category name is required")
	}

	category := &domain.Category{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}
