package acquire

import "errors"

// Acquisition errors. A cancelled acquisition is not an error: sources
// return a nil image and a nil error.
var (
	ErrPermissionDenied = errors.New("image access permission denied")
	ErrInvalidFormat    = errors.New("unsupported image format")
	ErrDeviceFailure    = errors.New("image source failure")
)
