package layout

import "errors"

var (
	// ErrInvalidDimensions is returned when a surface or target dimension is
	// not positive. Not retryable; the caller should fall back to a
	// single-photo display.
	ErrInvalidDimensions = errors.New("layout: invalid surface dimensions")

	// ErrInsufficientPhotos is returned when fewer photos than the template
	// requires are supplied. Not retryable; the caller should pick a
	// smaller template.
	ErrInsufficientPhotos = errors.New("layout: not enough photos for template")
)
