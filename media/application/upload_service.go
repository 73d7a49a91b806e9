package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dfryer1193/goblog-api/media/domain"
	"github.com/rs/zerolog/log"
)

// UploadService stores uploaded images and hands back the URL they are served from
type UploadService struct {
	repo domain.ImageRepository
	cfg  UploadConfig
}

func NewUploadService(repo domain.ImageRepository, cfg *UploadConfig) *UploadService {
	return &UploadService{
		repo: repo,
		cfg:  *cfg,
	}
}

// Upload validates, normalizes and stores the image read from body.
// Files are content addressed, so uploading the same bytes twice yields the same URL.
func (s *UploadService) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	content, err := io.ReadAll(io.LimitReader(body, s.cfg.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	if int64(len(content)) > s.cfg.MaxBytes {
		return "", domain.ErrImageTooLarge
	}

	mimeType, err := detectImageType(filename, content)
	if err != nil {
		return "", err
	}

	content, resized, err := fitImage(content, mimeType, s.cfg.MaxWidth, s.cfg.MaxPixels)
	if err != nil {
		return "", err
	}

	hash := calculateHash(content)
	path := hash[:32] + imageTypeExts[mimeType]

	now := time.Now().UTC()
	err = s.repo.SaveImage(ctx, &domain.Image{
		Path:      path,
		Hash:      hash,
		Content:   content,
		UpdatedAt: now,
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	log.Debug().Str("filename", filename).Str("path", path).Bool("resized", resized).Msg("Stored upload")

	return s.URL(path), nil
}

// Remove deletes the stored image behind url. URLs that do not point at this
// service's image route, and images already gone, are ignored.
func (s *UploadService) Remove(ctx context.Context, url string) error {
	prefix := s.URL("")
	if !strings.HasPrefix(url, prefix) {
		return nil
	}

	path := strings.TrimPrefix(url, prefix)
	if path == "" || strings.Contains(path, "/") {
		return nil
	}

	if err := s.repo.DeleteImage(ctx, path); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("Removed image")
	return nil
}

// URL returns the public URL of a stored image path
func (s *UploadService) URL(path string) string {
	return s.cfg.PublicBaseURL + "/images/" + path
}

// LocalPath returns the file backing a stored image, or an error when no
// image was stored under path.
func (s *UploadService) LocalPath(ctx context.Context, path string) (string, error) {
	img, err := s.repo.GetImage(ctx, path)
	if err != nil {
		return "", err
	}
	return s.repo.LocalPath(img.Path), nil
}

func calculateHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
