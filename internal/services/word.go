package services

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"photo-converter/internal/logger"
	"photo-converter/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
)

const wordContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Embedded images all get the same block size, one per paragraph.
const (
	wordImageWidth  = 6 * measurement.Inch
	wordImageHeight = 4 * measurement.Inch
)

// WordComposer embeds each image as a fixed-size block in its own
// paragraph, in input order. Unlike the PDF path the whole document is
// serialized at the end; the docx container cannot be emitted
// incrementally.
type WordComposer struct{}

func NewWordComposer() *WordComposer {
	return &WordComposer{}
}

func (w *WordComposer) Compose(ctx context.Context, files []models.InputFile, cleanup *Cleanup) (*Result, error) {
	doc := document.New()
	defer doc.Close()

	var skipped []models.SkippedFile
	processed := 0

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(f.StoragePath)
		if err != nil {
			skipped = w.skip(skipped, f, err)
			continue
		}

		img, err := common.ImageFromBytes(data)
		if err != nil {
			skipped = w.skip(skipped, f, err)
			continue
		}
		ref, err := doc.AddImage(img)
		if err != nil {
			skipped = w.skip(skipped, f, err)
			continue
		}

		para := doc.AddParagraph()
		run := para.AddRun()
		inline, err := run.AddDrawingInline(ref)
		if err != nil {
			skipped = w.skip(skipped, f, err)
			continue
		}
		inline.SetSize(wordImageWidth, wordImageHeight)
		processed++
	}

	if processed == 0 {
		return nil, fmt.Errorf("%w: all %d files failed to embed", ErrNoValidImages, len(files))
	}

	buf := &bytes.Buffer{}
	if err := doc.Save(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	return &Result{
		ContentType: wordContentType,
		Filename:    downloadName("converted-photos", "docx"),
		Reader:      buf,
		Size:        int64(buf.Len()),
		Processed:   processed,
		Skipped:     skipped,
	}, nil
}

func (w *WordComposer) skip(skipped []models.SkippedFile, f models.InputFile, err error) []models.SkippedFile {
	logger.WithFields(logrus.Fields{
		"file":  f.OriginalName,
		"error": err.Error(),
	}).Warn("Skipping unembeddable image for document")
	return append(skipped, models.SkippedFile{OriginalName: f.OriginalName, Reason: err.Error()})
}
