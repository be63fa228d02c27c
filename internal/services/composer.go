package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"photo-converter/internal/models"
	"photo-converter/internal/storage"

	"github.com/google/uuid"
)

// Composer converts an ordered batch of images into one output artifact.
// Implementations register every intermediate file they create with the
// cleanup coordinator so nothing outlives the request.
type Composer interface {
	Compose(ctx context.Context, files []models.InputFile, cleanup *Cleanup) (*Result, error)
}

// Result is a composed artifact ready to stream back to the client.
type Result struct {
	ContentType string
	Filename    string
	Reader      io.Reader
	Size        int64 // -1 when not known up front
	Processed   int
	Skipped     []models.SkippedFile
}

// imageFormats is the allowed set of still-image target formats.
var imageFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"webp": true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
}

// Selector maps a requested target kind to a composer strategy. All
// format-specific behavior lives in the composers themselves.
type Selector struct {
	store       storage.FileStore
	concurrency int
}

func NewSelector(store storage.FileStore, concurrency int) *Selector {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Selector{store: store, concurrency: concurrency}
}

func (s *Selector) Select(kind models.TargetKind, format string) (Composer, error) {
	switch kind {
	case models.KindZip:
		return NewZipComposer(), nil
	case models.KindPDF:
		return NewPDFComposer(s.concurrency), nil
	case models.KindWord:
		return NewWordComposer(), nil
	case models.KindGIF:
		return NewGIFComposer(), nil
	case models.KindImage:
		format = strings.ToLower(format)
		if !imageFormats[format] {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		return NewFormatComposer(format, s.store, s.concurrency), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(kind))
	}
}

// downloadName builds a generated artifact filename like
// converted-photos-1a2b3c4d.zip.
func downloadName(prefix, ext string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, shortID(), ext)
}

func shortID() string {
	return uuid.NewString()[:8]
}
