package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"photo-converter/internal/models"
)

// zipEntry names one file inside an archive being built. Duplicate
// names are allowed; the zip format permits duplicate entries and the
// inputs are the user's to name.
type zipEntry struct {
	Name string
	Path string
}

// buildZipArchive aggregates the entries into one in-memory archive.
// Any single read failure fails the whole build: a partial archive is
// worse than a clear error.
func buildZipArchive(ctx context.Context, entries []zipEntry) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return nil, err
		}

		w, err := zw.Create(entry.Name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to create archive entry %s: %w", entry.Name, err)
		}

		f, err := os.Open(entry.Path)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name, err)
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to archive %s: %w", entry.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf, nil
}

// ZipComposer bundles the original uploaded bytes into one archive.
// Pure aggregation, no re-encoding.
type ZipComposer struct{}

func NewZipComposer() *ZipComposer {
	return &ZipComposer{}
}

func (z *ZipComposer) Compose(ctx context.Context, files []models.InputFile, cleanup *Cleanup) (*Result, error) {
	entries := make([]zipEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, zipEntry{
			Name: sanitizeFileName(f.OriginalName),
			Path: f.StoragePath,
		})
	}

	buf, err := buildZipArchive(ctx, entries)
	if err != nil {
		return nil, err
	}

	return &Result{
		ContentType: "application/zip",
		Filename:    downloadName("converted-photos", "zip"),
		Reader:      buf,
		Size:        int64(buf.Len()),
		Processed:   len(files),
	}, nil
}
