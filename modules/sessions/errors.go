package sessions

import "errors"

var (
	ErrInvalidTTL                = errors.New("sessions ttl must be positive")
	ErrMissingCookieName         = errors.New("sessions cookie_name is required")
	ErrInvalidDuration           = errors.New("sessions duration must not be negative")
	ErrContentStoreInvalidType   = errors.New("service 'content.store' is not a *content.Store")
	ErrNoSubjectForEventEmission = errors.New("no subject available for event emission")
)
