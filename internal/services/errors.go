package services

import "errors"

var (
	// ErrNotConnected means a sync was requested without usable Gmail tokens.
	ErrNotConnected = errors.New("not authenticated with Gmail")
	// ErrInvalidStatus is returned for status values outside the known set.
	ErrInvalidStatus = errors.New("invalid application status")
)
