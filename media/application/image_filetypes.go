package application

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/dfryer1193/goblog-api/media/domain"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
)

var (
	imageExtTypes = map[string]string{
		".jpg":  MIMETypeJPEG,
		".jpeg": MIMETypeJPEG,
		".png":  MIMETypePNG,
	}

	// canonical extension used for stored files
	imageTypeExts = map[string]string{
		MIMETypeJPEG: ".jpg",
		MIMETypePNG:  ".png",
	}

	imageHeaders = map[string][]byte{
		MIMETypeJPEG: []byte("\xFF\xD8"),
		MIMETypePNG:  []byte("\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"),
	}

	imageDecoders = map[string]func(io.Reader) (image.Image, error){
		MIMETypeJPEG: jpeg.Decode,
		MIMETypePNG:  png.Decode,
	}

	imageEncoders = map[string]func(io.Writer, image.Image) error{
		MIMETypeJPEG: func(w io.Writer, i image.Image) error { return jpeg.Encode(w, i, &jpeg.Options{Quality: 90}) },
		MIMETypePNG:  png.Encode,
	}
)

// detectImageType checks the file extension against the allowed formats and
// verifies that the content starts with the matching magic bytes.
func detectImageType(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	mimeType, ok := imageExtTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrImageTypeNotSupported, ext)
	}

	if !bytes.HasPrefix(content, imageHeaders[mimeType]) {
		return "", fmt.Errorf("%w: %q", domain.ErrImageTypeMismatch, ext)
	}

	return mimeType, nil
}
