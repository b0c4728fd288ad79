package webserver

import "errors"

// Static error variables for err113 compliance
var (
	ErrInvalidPort               = errors.New("invalid port number")
	ErrInvalidTimeout            = errors.New("timeout must not be negative")
	ErrRouterInvalidType         = errors.New("service 'router' is not of type http.Handler or is nil")
	ErrServerNotStarted          = errors.New("web server not started")
	ErrAlreadyStarted            = errors.New("web server already started")
	ErrNoSubjectForEventEmission = errors.New("no subject available for event emission")
)
