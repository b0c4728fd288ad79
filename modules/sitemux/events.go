package sitemux

// Event types emitted by the sitemux module.
const (
	EventTypeConfigLoaded  = "com.verdant.sitemux.config.loaded"
	EventTypeRouterCreated = "com.verdant.sitemux.router.created"
	EventTypeRouterStarted = "com.verdant.sitemux.router.started"
	EventTypeRouterStopped = "com.verdant.sitemux.router.stopped"

	EventTypeRequestReceived  = "com.verdant.sitemux.request.received"
	EventTypeRequestProcessed = "com.verdant.sitemux.request.processed"
	EventTypeRequestFailed    = "com.verdant.sitemux.request.failed"
)
