package application

import (
	"bytes"
	"fmt"
	"image"

	"github.com/dfryer1193/goblog-api/media/domain"
	"golang.org/x/image/draw"
)

// fitImage checks that data decodes as mimeType within maxPixels, then scales
// it down to maxWidth keeping its aspect ratio. Images that already fit are
// returned untouched.
func fitImage(data []byte, mimeType string, maxWidth, maxPixels int) ([]byte, bool, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrImageCorrupt, err)
	}
	if "image/"+format != mimeType {
		return nil, false, fmt.Errorf("%w: decoded as %s", domain.ErrImageTypeMismatch, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, false, fmt.Errorf("%w: %dx%d", domain.ErrImageCorrupt, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, false, fmt.Errorf("%w: %dx%d", domain.ErrImageDimensionsTooLarge, cfg.Width, cfg.Height)
	}

	if maxWidth <= 0 || cfg.Width <= maxWidth {
		return data, false, nil
	}

	original, err := imageDecoders[mimeType](bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrImageCorrupt, err)
	}

	ratio := float64(maxWidth) / float64(original.Bounds().Dx())
	height := max(int(float64(original.Bounds().Dy())*ratio), 1)

	bitmap := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(bitmap, bitmap.Bounds(), original, original.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := imageEncoders[mimeType](&buf, bitmap); err != nil {
		return nil, false, fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), true, nil
}
