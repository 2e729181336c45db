package service

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("callback authentication failed")
	ErrNotFound       = errors.New("registration not found")
	ErrConflict       = errors.New("registration payment already settled")
	ErrUpstream       = errors.New("record store unavailable")
)
