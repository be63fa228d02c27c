package services

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"photo-converter/internal/logger"
	"photo-converter/internal/models"

	"github.com/disintegration/imaging"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// newTestImage writes a solid-color image (format from the name's
// extension) and returns it as a stored input.
func newTestImage(t *testing.T, dir, name string, width, height int) models.InputFile {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image %s: %v", name, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat test image %s: %v", name, err)
	}
	return models.InputFile{
		ID:           name,
		OriginalName: name,
		StoragePath:  path,
		SizeBytes:    info.Size(),
	}
}

// newCorruptFile writes bytes that no image decoder accepts.
func newCorruptFile(t *testing.T, dir, name string) models.InputFile {
	t.Helper()

	data := []byte("not an image at all")
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write corrupt file %s: %v", name, err)
	}
	return models.InputFile{
		ID:           name,
		OriginalName: name,
		StoragePath:  path,
		SizeBytes:    int64(len(data)),
	}
}

func noopCleanup() *Cleanup {
	return NewCleanup(func(string) error { return nil })
}
