package assets

import "errors"

var (
	// ErrNotFound is returned when an asset path does not exist under the root.
	ErrNotFound = errors.New("asset not found")
	// ErrUnsupportedFormat is returned for files the loader cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported asset format")
)
