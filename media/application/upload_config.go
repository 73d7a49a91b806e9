package application

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultImageDir      = "./images"
	defaultPublicBaseURL = "http://localhost:8080"
	defaultMaxBytes      = 5 << 20
	defaultMaxWidth      = 1600
	defaultMaxPixels     = 40_000_000
)

// UploadConfig controls where uploads are kept and how they are constrained
type UploadConfig struct {
	ImageDir      string
	PublicBaseURL string
	MaxBytes      int64
	// MaxWidth is the widest an image is stored; wider uploads are scaled down.
	// Zero disables scaling.
	MaxWidth int
	// MaxPixels bounds width*height as declared in the image header, checked
	// before the image is decoded. Zero disables the check.
	MaxPixels int
}

func NewUploadConfig() *UploadConfig {
	cfg := &UploadConfig{
		ImageDir:      os.Getenv("IMAGE_DIR"),
		PublicBaseURL: strings.TrimSuffix(os.Getenv("PUBLIC_BASE_URL"), "/"),
		MaxBytes:      defaultMaxBytes,
		MaxWidth:      defaultMaxWidth,
		MaxPixels:     defaultMaxPixels,
	}

	if cfg.ImageDir == "" {
		cfg.ImageDir = defaultImageDir
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = defaultPublicBaseURL
	}
	if v, err := strconv.ParseInt(os.Getenv("UPLOAD_MAX_BYTES"), 10, 64); err == nil && v > 0 {
		cfg.MaxBytes = v
	}
	if v, err := strconv.Atoi(os.Getenv("UPLOAD_MAX_WIDTH")); err == nil && v >= 0 {
		cfg.MaxWidth = v
	}
	if v, err := strconv.Atoi(os.Getenv("UPLOAD_MAX_PIXELS")); err == nil && v >= 0 {
		cfg.MaxPixels = v
	}

	return cfg
}
