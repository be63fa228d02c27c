package services

import (
	"context"
	"fmt"
	"os"

	"photo-converter/internal/logger"
	"photo-converter/internal/models"
	"photo-converter/internal/storage"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FormatComposer re-encodes every input into one target still-image
// format. A single survivor streams back directly; several get bundled
// into a zip of the converted artifacts. Files that fail to
// decode or encode are skipped with a reason.
type FormatComposer struct {
	format      string
	store       storage.FileStore
	concurrency int
}

func NewFormatComposer(format string, store storage.FileStore, concurrency int) *FormatComposer {
	return &FormatComposer{format: format, store: store, concurrency: concurrency}
}

// convertedArtifact is one successfully re-encoded input.
type convertedArtifact struct {
	entryName string
	path      string
}

func (fc *FormatComposer) Compose(ctx context.Context, files []models.InputFile, cleanup *Cleanup) (*Result, error) {
	converted := make([]*convertedArtifact, len(files))
	reasons := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fc.concurrency)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			img, err := decodeImage(f.StoragePath)
			if err != nil {
				fc.logSkip(f, err)
				reasons[i] = err.Error()
				return nil
			}

			path, err := fc.store.Allocate("." + fc.format)
			if err != nil {
				fc.logSkip(f, err)
				reasons[i] = err.Error()
				return nil
			}
			cleanup.Track(path)

			out, err := os.Create(path)
			if err != nil {
				fc.logSkip(f, err)
				reasons[i] = err.Error()
				return nil
			}
			err = encodeImage(out, img, fc.format)
			if closeErr := out.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				fc.logSkip(f, err)
				reasons[i] = err.Error()
				return nil
			}

			converted[i] = &convertedArtifact{
				entryName: baseName(f.OriginalName) + "." + fc.format,
				path:      path,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var skipped []models.SkippedFile
	succeeded := make([]*convertedArtifact, 0, len(files))
	for i, artifact := range converted {
		if artifact == nil {
			skipped = append(skipped, models.SkippedFile{
				OriginalName: files[i].OriginalName,
				Reason:       reasons[i],
			})
			continue
		}
		succeeded = append(succeeded, artifact)
	}

	switch len(succeeded) {
	case 0:
		return nil, fmt.Errorf("%w: all %d files failed to convert", ErrNoValidImages, len(files))

	case 1:
		artifact := succeeded[0]
		f, err := os.Open(artifact.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open converted file: %w", err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to stat converted file: %w", err)
		}
		return &Result{
			ContentType: formatContentType(fc.format),
			Filename:    artifact.entryName,
			Reader:      f,
			Size:        info.Size(),
			Processed:   1,
			Skipped:     skipped,
		}, nil

	default:
		entries := make([]zipEntry, 0, len(succeeded))
		for _, artifact := range succeeded {
			entries = append(entries, zipEntry{Name: artifact.entryName, Path: artifact.path})
		}
		buf, err := buildZipArchive(ctx, entries)
		if err != nil {
			return nil, err
		}
		return &Result{
			ContentType: "application/zip",
			Filename:    downloadName("converted-images-"+fc.format, "zip"),
			Reader:      buf,
			Size:        int64(buf.Len()),
			Processed:   len(succeeded),
			Skipped:     skipped,
		}, nil
	}
}

func (fc *FormatComposer) logSkip(f models.InputFile, err error) {
	logger.WithFields(logrus.Fields{
		"file":   f.OriginalName,
		"format": fc.format,
		"error":  err.Error(),
	}).Warn("Skipping unconvertible image")
}
