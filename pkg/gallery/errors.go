package gallery

import "errors"

var (
	// ErrPermissionDenied indicates the sink refused the write.
	ErrPermissionDenied = errors.New("gallery permission denied")
	// ErrWriteFailed indicates the artifact could not be written.
	ErrWriteFailed = errors.New("gallery write failed")
	// ErrEmptyKey indicates an empty artifact name was provided.
	ErrEmptyKey = errors.New("gallery key must not be empty")
	// ErrInvalidKey indicates the artifact name contains a path traversal segment.
	ErrInvalidKey = errors.New("gallery key contains invalid path segment")
)
