package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dfryer1193/goblog-api/media/domain"
	"github.com/dfryer1193/goblog-api/shared/db"
	"github.com/dfryer1193/goblog-api/shared/errs"
)

var _ domain.ImageRepository = (*SQLiteImageRepository)(nil)

// SQLiteImageRepository keeps image files in a directory and their metadata in SQLite
type SQLiteImageRepository struct {
	db       *sql.DB
	imageDir string
}

// NewImageRepository creates a new SQLiteImageRepository storing files under imageDir
func NewImageRepository(sqlDB *sql.DB, imageDir string) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db:       sqlDB,
		imageDir: imageDir,
	}
}

const upsertImageQuery = `
	INSERT INTO images (path, hash, updated_at, created_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		hash = excluded.hash,
		updated_at = excluded.updated_at,
		created_at = COALESCE(images.created_at, excluded.created_at)
`

// SaveImage saves an image to both filesystem and database within a transaction
func (r *SQLiteImageRepository) SaveImage(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if img.Path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		var updatedAt any
		if !img.UpdatedAt.IsZero() {
			updatedAt = img.UpdatedAt
		}

		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, upsertImageQuery,
			img.Path,
			img.Hash,
			updatedAt,
			img.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert image record: %w", err)
		}

		// The row is rolled back if the file cannot be written
		if err := os.MkdirAll(r.imageDir, 0755); err != nil {
			return fmt.Errorf("failed to create image directory: %w", err)
		}

		if err := os.WriteFile(r.LocalPath(img.Path), img.Content, 0644); err != nil {
			return fmt.Errorf("failed to write image file: %w", err)
		}

		return nil
	})
}

const getImageQuery = `
	SELECT path, hash, updated_at, created_at
	FROM images
	WHERE path = ?
`

// GetImage retrieves a single image record by path
func (r *SQLiteImageRepository) GetImage(ctx context.Context, path string) (*domain.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	var row imageRow
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getImageQuery, path).Scan(
		&row.Path,
		&row.Hash,
		&row.UpdatedAt,
		&row.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errs.New(errs.ErrNotFound, "Image not found")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return row.toDomain(), nil
}

// DeleteImage removes an image from both filesystem and database within a transaction
func (r *SQLiteImageRepository) DeleteImage(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		if _, err := executor.ExecContext(txCtx, "DELETE FROM images WHERE path = ?", path); err != nil {
			return fmt.Errorf("failed to delete image record: %w", err)
		}

		if err := os.Remove(r.LocalPath(path)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove image file: %w", err)
		}

		return nil
	})
}

// LocalPath maps an image path onto the image directory. Only the base name
// is used so a path can never escape the directory.
func (r *SQLiteImageRepository) LocalPath(path string) string {
	return filepath.Join(r.imageDir, filepath.Base(path))
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	Path      string
	Hash      string
	UpdatedAt sql.NullTime
	CreatedAt sql.NullTime
}

// toDomain converts an imageRow to a domain.Image, handling nullable times
func (ir *imageRow) toDomain() *domain.Image {
	img := &domain.Image{
		Path: ir.Path,
		Hash: ir.Hash,
	}

	if ir.UpdatedAt.Valid {
		img.UpdatedAt = ir.UpdatedAt.Time
	}
	if ir.CreatedAt.Valid {
		img.CreatedAt = ir.CreatedAt.Time
	}

	return img
}
