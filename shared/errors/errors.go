package errors

import (
	stderrors "errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func NotFound(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusNotFound}
}

func Forbidden(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusForbidden}
}

func Unauthorized(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusUnauthorized}
}

// InvalidOperation is a request that is well formed but not allowed in the current state.
func InvalidOperation(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest}
}

// Failures of the backing stores. Wrapped with fmt.Errorf("...: %w") by the storage layer.
var (
	ErrEmbedding  = stderrors.New("embedding failure")
	ErrIndexWrite = stderrors.New("vector index write failure")
	ErrStore      = stderrors.New("document store failure")
)

// StatusCode returns the http status carried by err, 502 for embedding and
// vector index failures and 500 for everything else.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	if stderrors.Is(err, ErrEmbedding) || stderrors.Is(err, ErrIndexWrite) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
