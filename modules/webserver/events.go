package webserver

const (
	EventTypeServerStarted = "com.verdant.webserver.server.started"
	EventTypeServerStopped = "com.verdant.webserver.server.stopped"
	EventTypeServerFailed  = "com.verdant.webserver.server.failed"
)
