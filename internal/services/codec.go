package services

import (
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp" // register webp decoder
)

const jpegQuality = 90

// decodeImage reads and decodes one stored input. imaging registers
// jpeg/png/gif/bmp/tiff decoders; webp comes from the blank import.
func decodeImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// encodeImage writes img in the requested still-image format. imaging
// has no webp encoder, so that one goes through chai2010/webp.
func encodeImage(w io.Writer, img image.Image, format string) error {
	if format == "webp" {
		if err := webp.Encode(w, img, &webp.Options{Quality: jpegQuality}); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	}

	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	var opts []imaging.EncodeOption
	if f == imaging.JPEG {
		opts = append(opts, imaging.JPEGQuality(jpegQuality))
	}
	if err := imaging.Encode(w, img, f, opts...); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// formatContentType maps an allowed target format to its MIME type.
func formatContentType(format string) string {
	return "image/" + format
}
