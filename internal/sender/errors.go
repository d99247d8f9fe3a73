package sender

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the collector answers with a non-2xx status.
type StatusError struct {
	Code      int
	RequestID string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector responded %d (request %s)", e.Code, e.RequestID)
}

// StatusCode lets the HTTP API surface collector failures as 502.
func (e *StatusError) StatusCode() int { return http.StatusBadGateway }

// IsStatusError reports whether err wraps a StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
