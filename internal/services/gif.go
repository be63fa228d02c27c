package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"

	"photo-converter/internal/models"
)

// gifFrameDelay is in hundredths of a second, so 50 is half a second
// per frame.
const gifFrameDelay = 50

// GIFComposer turns the batch into one animated GIF, one frame per
// input in input order, looping forever. Every input is pre-composed
// onto a shared canvas sized to the largest image, so a single file and
// a batch take the same path and frames from mixed-size sources line
// up. A missing frame would change the sequence the user intended, so
// there is no per-file skip here: any decode failure fails the request.
type GIFComposer struct{}

func NewGIFComposer() *GIFComposer {
	return &GIFComposer{}
}

func (g *GIFComposer) Compose(ctx context.Context, files []models.InputFile, cleanup *Cleanup) (*Result, error) {
	frames := make([]image.Image, 0, len(files))
	canvasW, canvasH := 0, 0

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := decodeImage(f.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("%w: frame %s: %v", ErrEncodingFailed, f.OriginalName, err)
		}
		frames = append(frames, img)

		bounds := img.Bounds()
		if bounds.Dx() > canvasW {
			canvasW = bounds.Dx()
		}
		if bounds.Dy() > canvasH {
			canvasH = bounds.Dy()
		}
	}

	anim := &gif.GIF{LoopCount: 0}
	canvas := image.Rect(0, 0, canvasW, canvasH)

	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		paletted := image.NewPaletted(canvas, palette.Plan9)
		draw.Draw(paletted, canvas, image.NewUniform(color.White), image.Point{}, draw.Src)

		size := frame.Bounds().Size()
		offset := image.Pt((canvasW-size.X)/2, (canvasH-size.Y)/2)
		target := image.Rectangle{Min: offset, Max: offset.Add(size)}
		draw.FloydSteinberg.Draw(paletted, target, frame, frame.Bounds().Min)

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, gifFrameDelay)
	}

	buf := &bytes.Buffer{}
	if err := gif.EncodeAll(buf, anim); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	return &Result{
		ContentType: "image/gif",
		Filename:    downloadName("converted-photos", "gif"),
		Reader:      buf,
		Size:        int64(buf.Len()),
		Processed:   len(files),
	}, nil
}
