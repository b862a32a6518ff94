package profile

import "errors"

var (
	// ErrNotFound indicates the requested profile doesn't exist.
	ErrNotFound = errors.New("profile not found")

	// ErrInvalid indicates a profile missing a required field.
	ErrInvalid = errors.New("invalid profile")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("profile store closed")
)
