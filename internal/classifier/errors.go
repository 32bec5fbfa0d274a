package classifier

import (
	"errors"
	"fmt"
)

// Classification errors. ErrTimeout wraps ErrTransport so callers that only
// distinguish "never reached the server" can match either.
var (
	ErrTransport     = errors.New("classifier transport failure")
	ErrTimeout       = fmt.Errorf("%w: request timed out", ErrTransport)
	ErrServer        = errors.New("classifier server error")
	ErrMalformed     = errors.New("malformed classifier response")
	ErrImageTooLarge = errors.New("image exceeds maximum upload size")
	ErrEmptyImage    = errors.New("image is empty")
)

// ServerError reports a non-2xx reply from the classification endpoint.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", ErrServer, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrServer, e.StatusCode, e.Body)
}

// Is matches ErrServer.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// ClientError reports whether the server rejected the request itself (4xx).
func (e *ServerError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
