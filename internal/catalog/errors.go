package catalog

import (
	"errors"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/errchain"
)

var (
	// ErrNotFound means the title is absent and every library has finished loading.
	ErrNotFound = errors.New("media not found")

	// ErrTemporarilyNotFound means the title was not found yet but may still
	// arrive in a library that has not finished loading. It is not a miss.
	ErrTemporarilyNotFound = errors.New("media not found yet")

	// ErrSyncInProgress is returned when Sync is called while another sync runs.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNotSeries is returned when seasons are requested for a non-episodic title.
	ErrNotSeries = errors.New("media is not a series")
)

// LibraryListError reports that the library list could not be fetched.
type LibraryListError struct {
	Err error
}

func (e *LibraryListError) Description() string { return "fetch library list" }
func (e *LibraryListError) Cause() error         { return e.Err }
func (e *LibraryListError) Unwrap() error        { return e.Err }
func (e *LibraryListError) Error() string        { return errchain.Message(e.Description(), e.Err) }

// LibraryMediaError reports that a page of one library could not be fetched.
type LibraryMediaError struct {
	LibraryID string
	Offset    int
	Err       error
}

func (e *LibraryMediaError) Description() string {
	return "fetch media of library " + e.LibraryID
}
func (e *LibraryMediaError) Cause() error  { return e.Err }
func (e *LibraryMediaError) Unwrap() error { return e.Err }
func (e *LibraryMediaError) Error() string { return errchain.Message(e.Description(), e.Err) }

// SeasonGroupingError reports that the seasons of a series could not be built.
type SeasonGroupingError struct {
	SeriesID string
	Err      error
}

func (e *SeasonGroupingError) Description() string {
	return "group seasons of series " + e.SeriesID
}
func (e *SeasonGroupingError) Cause() error  { return e.Err }
func (e *SeasonGroupingError) Unwrap() error { return e.Err }
func (e *SeasonGroupingError) Error() string { return errchain.Message(e.Description(), e.Err) }

// SpecialFeaturesError reports that the extras of a title could not be fetched.
type SpecialFeaturesError struct {
	MediaID string
	Err     error
}

func (e *SpecialFeaturesError) Description() string {
	return "fetch special features of " + e.MediaID
}
func (e *SpecialFeaturesError) Cause() error  { return e.Err }
func (e *SpecialFeaturesError) Unwrap() error { return e.Err }
func (e *SpecialFeaturesError) Error() string { return errchain.Message(e.Description(), e.Err) }

var (
	_ errchain.Chain = (*LibraryListError)(nil)
	_ errchain.Chain = (*LibraryMediaError)(nil)
	_ errchain.Chain = (*SeasonGroupingError)(nil)
	_ errchain.Chain = (*SpecialFeaturesError)(nil)
)
