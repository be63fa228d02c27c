package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"photo-converter/internal/logger"
	"photo-converter/internal/models"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// pdfFitFactor keeps each image within 80% of the page in both
// dimensions.
const pdfFitFactor = 0.8

// PDFComposer lays out one page per image, scaled to fit and centered.
// A file that fails to decode is skipped; the document carries on with
// the rest.
type PDFComposer struct {
	concurrency int
}

func NewPDFComposer(concurrency int) *PDFComposer {
	return &PDFComposer{concurrency: concurrency}
}

// pdfPage is one decoded input, re-encoded to PNG so gofpdf can place
// any source format (webp/bmp/tiff included).
type pdfPage struct {
	data   *bytes.Buffer
	width  int
	height int
}

func (p *PDFComposer) Compose(ctx context.Context, files []models.InputFile, cleanup *Cleanup) (*Result, error) {
	pages := make([]*pdfPage, len(files))
	reasons := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			img, err := decodeImage(f.StoragePath)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"file":  f.OriginalName,
					"error": err.Error(),
				}).Warn("Skipping undecodable image for PDF")
				reasons[i] = err.Error()
				return nil
			}

			buf := &bytes.Buffer{}
			if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
				reasons[i] = err.Error()
				return nil
			}

			bounds := img.Bounds()
			pages[i] = &pdfPage{data: buf, width: bounds.Dx(), height: bounds.Dy()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pageW, pageH := pdf.GetPageSize()

	var skipped []models.SkippedFile
	processed := 0

	for i, page := range pages {
		if page == nil {
			skipped = append(skipped, models.SkippedFile{
				OriginalName: files[i].OriginalName,
				Reason:       reasons[i],
			})
			continue
		}

		scale := math.Min(pageW/float64(page.width), pageH/float64(page.height)) * pdfFitFactor
		scaledW := float64(page.width) * scale
		scaledH := float64(page.height) * scale
		x := (pageW - scaledW) / 2
		y := (pageH - scaledH) / 2

		name := fmt.Sprintf("img-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}

		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(page.data.Bytes()))
		pdf.ImageOptions(name, x, y, scaledW, scaledH, false, opts, 0, "")
		processed++
	}

	if processed == 0 {
		return nil, fmt.Errorf("%w: all %d files failed to decode", ErrNoValidImages, len(files))
	}
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, pdf.Error())
	}

	// Document size scales with input count, so stream it out page by
	// page instead of buffering the whole thing.
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(pdf.Output(pw))
	}()

	return &Result{
		ContentType: "application/pdf",
		Filename:    downloadName("converted-photos", "pdf"),
		Reader:      pr,
		Size:        -1,
		Processed:   processed,
		Skipped:     skipped,
	}, nil
}
