package metrics

import "errors"

var (
	ErrInvalidPath             = errors.New("metrics path must start with '/'")
	ErrInvalidNamespace        = errors.New("metrics namespace is not a valid metric name prefix")
	ErrRouterInvalidType       = errors.New("service 'chi.router' is not a chi.Router")
	ErrSessionStoreInvalidType = errors.New("service 'sessions.store' is not a *session.Store")
)
