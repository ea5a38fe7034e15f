package model

import "errors"

var (
	// ErrNotFound covers both a genuinely absent row and a row owned by a
	// different user; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	ErrValidation       = errors.New("validation error")
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUpstream marks failures of the external language-model call.
	ErrUpstream = errors.New("upstream model error")
)
