package domain

import (
	"context"
	"time"
)

// Category is a flat lookup value attached to posts. Names are not unique.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id string) (*Category, error)
	// ListCategories returns categories in insertion order
	ListCategories(ctx context.Context) ([]*Category, error)
}
