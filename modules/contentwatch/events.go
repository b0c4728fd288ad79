package contentwatch

const (
	EventTypeContentLoaded       = "com.verdant.content.loaded"
	EventTypeContentReloaded     = "com.verdant.content.reloaded"
	EventTypeContentReloadFailed = "com.verdant.content.reload.failed"
)
