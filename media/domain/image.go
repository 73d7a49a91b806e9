package domain

import (
	"context"
	"time"

	"github.com/dfryer1193/goblog-api/shared/errs"
)

var (
	// ErrImageTooLarge is returned when an upload exceeds the configured size limit.
	ErrImageTooLarge = &errs.Error{Kind: errs.ErrValidation, Message: "Image is too large"}
	// ErrImageTypeNotSupported is returned for file extensions other than jpg, jpeg and png.
	ErrImageTypeNotSupported = &errs.Error{Kind: errs.ErrValidation, Message: "Only jpg, jpeg and png images are allowed"}
	// ErrImageTypeMismatch is returned when the file content does not match its extension.
	ErrImageTypeMismatch = &errs.Error{Kind: errs.ErrValidation, Message: "Image content does not match its file type"}
	// ErrImageCorrupt is returned when the content cannot be decoded as the declared format.
	ErrImageCorrupt = &errs.Error{Kind: errs.ErrValidation, Message: "Image could not be decoded"}
	// ErrImageDimensionsTooLarge is returned when the declared pixel count exceeds the configured bound.
	ErrImageDimensionsTooLarge = &errs.Error{Kind: errs.ErrValidation, Message: "Image dimensions are too large"}
)

// Image is an uploaded file, addressed by a content-derived path
type Image struct {
	Path      string
	Hash      string
	Content   []byte
	UpdatedAt time.Time
	CreatedAt time.Time
}

type ImageRepository interface {
	// SaveImage saves an image to both filesystem and database
	SaveImage(ctx context.Context, img *Image) error

	// GetImage retrieves an image record from the database
	GetImage(ctx context.Context, path string) (*Image, error)

	// DeleteImage removes an image from both filesystem and database
	DeleteImage(ctx context.Context, path string) error

	// LocalPath returns where the file for path is kept on disk
	LocalPath(path string) string
}
