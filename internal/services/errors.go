package services

import "errors"

var (
	// ErrUnsupportedFormat means the requested target format is not in
	// the allowed set. Surfaced as a client error.
	ErrUnsupportedFormat = errors.New("unsupported target format")

	// ErrNoValidImages means every file in the batch failed to process.
	ErrNoValidImages = errors.New("no valid images in batch")

	// ErrEncodingFailed means the composition step itself could not
	// produce output even though inputs were readable.
	ErrEncodingFailed = errors.New("failed to encode output")
)
