package jellyfin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/errchain"
)

// ErrUnauthorized is wrapped by status errors for 401 responses.
var ErrUnauthorized = errors.New("unauthorized")

// Op names the stage of a request that failed.
type Op string

const (
	OpBadURL Op = "build url"
	OpSend   Op = "send"
	OpStatus Op = "status"
	OpDecode Op = "decode"
)

// RequestError is a transport failure. Err holds the underlying cause.
type RequestError struct {
	Op         Op
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *RequestError) Description() string {
	switch e.Op {
	case OpStatus:
		return fmt.Sprintf("%s %s: server returned %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	case OpBadURL:
		return "invalid url for " + e.Path
	default:
		return fmt.Sprintf("%s %s: %s failed", e.Method, e.Path, e.Op)
	}
}
func (e *RequestError) Cause() error  { return e.Err }
func (e *RequestError) Unwrap() error { return e.Err }
func (e *RequestError) Error() string { return errchain.Message(e.Description(), e.Err) }

// retryable reports whether repeating the request may succeed.
func (e *RequestError) retryable() bool {
	switch e.Op {
	case OpSend:
		return true
	case OpStatus:
		return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// FieldProblem classifies a decode failure.
type FieldProblem string

const (
	MissingKey    FieldProblem = "missing key"
	MissingObject FieldProblem = "missing object"
	TypeMismatch  FieldProblem = "type mismatch"
)

// FieldError names the key and owning object of a payload that could not be
// decoded.
type FieldError struct {
	Object  string
	Key     string
	Problem FieldProblem
	Err     error
}

func (e *FieldError) Description() string {
	return fmt.Sprintf("%s: %s %q", e.Object, e.Problem, e.Key)
}
func (e *FieldError) Cause() error  { return e.Err }
func (e *FieldError) Unwrap() error { return e.Err }
func (e *FieldError) Error() string { return errchain.Message(e.Description(), e.Err) }

var (
	_ errchain.Chain = (*RequestError)(nil)
	_ errchain.Chain = (*FieldError)(nil)
)
