package models

// InputFile is one uploaded image stored on disk by the file store.
// It is immutable once created and owned by the running conversion
// request until the cleanup coordinator removes it.
type InputFile struct {
	ID           string
	OriginalName string
	StoragePath  string
	SizeBytes    int64
	MimeType     string
}

// TargetKind selects which output artifact a conversion produces.
type TargetKind string

const (
	KindZip   TargetKind = "zip"
	KindPDF   TargetKind = "pdf"
	KindWord  TargetKind = "word"
	KindGIF   TargetKind = "gif"
	KindImage TargetKind = "image"
)

// ConversionRequest is the validated unit of work handed to a composer.
// File order is significant: it drives page order, archive entry order
// and animation frame order.
type ConversionRequest struct {
	Files        []InputFile
	TargetKind   TargetKind
	TargetFormat string // required when TargetKind == KindImage
}

// SkippedFile records one input that a composer dropped without
// failing the whole request.
type SkippedFile struct {
	OriginalName string `json:"originalName"`
	Reason       string `json:"reason"`
}

// ConvertForm carries the non-file fields of the multipart upload.
type ConvertForm struct {
	Target string `form:"target" binding:"required,oneof=zip pdf word gif image"`
	Format string `form:"format"`
}
