package formatting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrParseFailed is returned when a payload cannot be decoded into the target type.
var ErrParseFailed = errors.New("failed to parse payload")

const previewLimit = 64

// Parse unmarshals a JSON payload into T. Surrounding whitespace is ignored.
// Failures wrap ErrParseFailed and carry a short preview of the payload
// rather than the full body, which may hold large base64 images.
func Parse[T any](data []byte) (T, error) {
	var result T
	data = bytes.TrimSpace(data)

	if len(data) == 0 {
		return result, fmt.Errorf("%w: empty payload", ErrParseFailed)
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("%w: %w (payload %q)", ErrParseFailed, err, Preview(data, previewLimit))
	}

	return result, nil
}

// Preview returns at most limit bytes of data as a string, marking truncation with "...".
func Preview(data []byte, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
