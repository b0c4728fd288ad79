package site

import "errors"

// Static error variables for err113 compliance
var (
	ErrInvalidRate               = errors.New("site contact rate must be positive")
	ErrInvalidBodyLimit          = errors.New("site max_body_bytes must be positive")
	ErrRouterInvalidType         = errors.New("service 'chi.router' is not a chi.Router")
	ErrSessionStoreInvalidType   = errors.New("service 'sessions.store' is not a *session.Store")
	ErrContentStoreInvalidType   = errors.New("service 'content.store' is not a *content.Store")
	ErrSessionsConfigMissing     = errors.New("sessions config section is not a *sessions.SessionsConfig")
	ErrBadRequest                = errors.New("bad request")
	ErrRateLimited               = errors.New("too many contact submissions")
	ErrNoSubjectForEventEmission = errors.New("no subject available for event emission")
)
