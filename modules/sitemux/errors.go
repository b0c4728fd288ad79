package sitemux

import "errors"

var (
	ErrInvalidTimeout            = errors.New("sitemux timeout must not be negative")
	ErrInvalidMaxAge             = errors.New("sitemux max_age must not be negative")
	ErrNoSubjectForEventEmission = errors.New("no subject available for event emission")
)
