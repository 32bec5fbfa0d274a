package history

import (
	"errors"
	"fmt"
)

// Domain errors for history operations.
var (
	ErrStoreUnavailable = errors.New("history store unavailable")
	ErrWriteFailed      = errors.New("history write failed")
	ErrNotFound         = errors.New("classification record not found")

	ErrInvalidRecord     = errors.New("invalid classification record")
	ErrMissingID         = fmt.Errorf("%w: id required", ErrInvalidRecord)
	ErrInvalidGrade      = fmt.Errorf("%w: grade out of range", ErrInvalidRecord)
	ErrInvalidConfidence = fmt.Errorf("%w: confidence out of range", ErrInvalidRecord)
	ErrCorruptRecord     = errors.New("stored classification record is corrupt")
)
