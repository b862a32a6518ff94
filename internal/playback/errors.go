package playback

import (
	"errors"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/errchain"
)

var (
	// ErrInvalidConfig is returned by NewSession when a required collaborator is missing.
	ErrInvalidConfig = errors.New("invalid playback session config")

	// ErrAlreadyStarted is returned by Start on a running session.
	ErrAlreadyStarted = errors.New("playback session already started")

	// ErrStopped is returned by Start once the session has stopped.
	ErrStopped = errors.New("playback session stopped")
)

// ReportError records a failed playback report. It is logged and counted,
// never returned to the caller of the session.
type ReportError struct {
	Status       Status
	SessionToken string
	Err          error
}

func (e *ReportError) Description() string {
	return "report " + string(e.Status) + " for session " + e.SessionToken
}
func (e *ReportError) Cause() error  { return e.Err }
func (e *ReportError) Unwrap() error { return e.Err }
func (e *ReportError) Error() string { return errchain.Message(e.Description(), e.Err) }

var _ errchain.Chain = (*ReportError)(nil)
