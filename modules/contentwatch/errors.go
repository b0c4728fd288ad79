package contentwatch

import "errors"

var (
	ErrInvalidDebounce           = errors.New("contentwatch debounce must not be negative")
	ErrNoSubjectForEventEmission = errors.New("no subject available for event emission")
)
