package site

const (
	EventTypePageRendered     = "com.verdant.site.page.rendered"
	EventTypeContactThrottled = "com.verdant.site.contact.throttled"
)
