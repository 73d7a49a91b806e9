package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dfryer1193/goblog-api/blog/domain"
	"github.com/dfryer1193/goblog-api/shared/db"
	"github.com/dfryer1193/goblog-api/shared/errs"
)

var _ domain.CategoryRepository = (*SQLiteCategoryRepository)(nil)

type SQLiteCategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{
		db: db,
	}
}

func (r *SQLiteCategoryRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c == nil {
		return fmt.Errorf("category cannot be nil")
	}

	_, err := db.GetExecutor(ctx, r.db).ExecContext(ctx,
		"INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)",
		c.ID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

func (r *SQLiteCategoryRepository) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.ErrNotFound, "Category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &c, nil
}

func (r *SQLiteCategoryRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx,
		"SELECT id, name, created_at FROM categories ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}
