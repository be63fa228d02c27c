package services

import (
	"bytes"
	"context"
	"image"
	"io"
	"os"
	"testing"

	"photo-converter/internal/models"
	"photo-converter/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormatComposer(t *testing.T, format string) (*FormatComposer, *storage.DiskStore) {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return NewFormatComposer(format, store, 4), store
}

func TestFormatComposerSingleFileStreamsDirectly(t *testing.T) {
	fc, _ := newFormatComposer(t, "png")
	dir := t.TempDir()
	files := []models.InputFile{
		newTestImage(t, dir, "photo.jpg", 48, 32),
	}

	result, err := fc.Compose(context.Background(), files, noopCleanup())
	require.NoError(t, err)
	if closer, ok := result.Reader.(io.Closer); ok {
		defer closer.Close()
	}

	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, "photo.png", result.Filename)
	assert.Equal(t, 1, result.Processed)

	cfg, format, err := image.DecodeConfig(result.Reader)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 48, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestFormatComposerMultipleFilesAreZipped(t *testing.T) {
	fc, _ := newFormatComposer(t, "jpeg")
	dir := t.TempDir()
	files := []models.InputFile{
		newTestImage(t, dir, "one.png", 20, 20),
		newTestImage(t, dir, "two.bmp", 30, 30),
	}

	result, err := fc.Compose(context.Background(), files, noopCleanup())
	require.NoError(t, err)
	assert.Equal(t, "application/zip", result.ContentType)
	assert.Regexp(t, `^converted-images-jpeg-[0-9a-f]{8}\.zip$`, result.Filename)

	zr := readArchive(t, result.Reader)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "one.jpeg", zr.File[0].Name)
	assert.Equal(t, "two.jpeg", zr.File[1].Name)

	for _, entry := range zr.File {
		rc, err := entry.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)

		_, format, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	}
}

func TestFormatComposerSkipsBadFilesAndContinues(t *testing.T) {
	fc, _ := newFormatComposer(t, "png")
	dir := t.TempDir()
	files := []models.InputFile{
		newCorruptFile(t, dir, "bad.png"),
		newTestImage(t, dir, "good.jpg", 16, 16),
	}

	result, err := fc.Compose(context.Background(), files, noopCleanup())
	require.NoError(t, err)
	if closer, ok := result.Reader.(io.Closer); ok {
		defer closer.Close()
	}

	// One survivor: streamed directly, not zipped.
	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, "good.png", result.Filename)
	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "bad.png", result.Skipped[0].OriginalName)
}

func TestFormatComposerFailsWhenNothingConverts(t *testing.T) {
	fc, _ := newFormatComposer(t, "png")
	dir := t.TempDir()
	files := []models.InputFile{
		newCorruptFile(t, dir, "a.png"),
		newCorruptFile(t, dir, "b.png"),
	}

	result, err := fc.Compose(context.Background(), files, noopCleanup())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoValidImages)
}

func TestFormatComposerReencodingKeepsDimensions(t *testing.T) {
	fc, store := newFormatComposer(t, "jpeg")
	dir := t.TempDir()
	original := newTestImage(t, dir, "photo.jpeg", 37, 53)

	convertOnce := func(input models.InputFile, outName string) models.InputFile {
		cleanup := NewCleanup(store.Remove)
		t.Cleanup(cleanup.Release)

		result, err := fc.Compose(context.Background(), []models.InputFile{input}, cleanup)
		require.NoError(t, err)
		assert.Equal(t, "photo.jpeg", result.Filename)

		data, err := io.ReadAll(result.Reader)
		if closer, ok := result.Reader.(io.Closer); ok {
			closer.Close()
		}
		require.NoError(t, err)

		path := dir + "/" + outName
		require.NoError(t, os.WriteFile(path, data, 0644))
		return models.InputFile{OriginalName: "photo.jpeg", StoragePath: path}
	}

	first := convertOnce(original, "round1.jpeg")
	second := convertOnce(first, "round2.jpeg")

	dims := func(path string) (int, int) {
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		cfg, _, err := image.DecodeConfig(f)
		require.NoError(t, err)
		return cfg.Width, cfg.Height
	}

	w1, h1 := dims(first.StoragePath)
	w2, h2 := dims(second.StoragePath)
	assert.Equal(t, 37, w1)
	assert.Equal(t, 53, h1)
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)
}

func TestFormatComposerTracksArtifactsForCleanup(t *testing.T) {
	fc, store := newFormatComposer(t, "png")
	dir := t.TempDir()
	files := []models.InputFile{
		newTestImage(t, dir, "one.jpg", 10, 10),
		newTestImage(t, dir, "two.jpg", 10, 10),
	}

	cleanup := NewCleanup(store.Remove)
	result, err := fc.Compose(context.Background(), files, cleanup)
	require.NoError(t, err)

	// Drain the archive, then release: every intermediate artifact
	// must be gone.
	_, err = io.ReadAll(result.Reader)
	require.NoError(t, err)
	cleanup.Release()

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
