package session

// Event types published by sessions, in CloudEvents reverse domain notation.
const (
	EventTypeSessionCreated = "com.verdant.session.created"
	EventTypeSessionClosed  = "com.verdant.session.closed"
	EventTypeSessionEvicted = "com.verdant.session.evicted"

	EventTypeNavigationRequested = "com.verdant.navigation.requested"
	EventTypeTransitionChanged   = "com.verdant.transition.changed"

	EventTypeSectionChanged = "com.verdant.scrollspy.section.changed"
	EventTypeLayoutReported = "com.verdant.scrollspy.layout.reported"

	EventTypeFilterChanged = "com.verdant.catalog.filter.changed"

	EventTypeContactChanged   = "com.verdant.contact.changed"
	EventTypeContactSubmitted = "com.verdant.contact.submitted"
	EventTypeContactRejected  = "com.verdant.contact.rejected"

	EventTypeGalleryMoved = "com.verdant.gallery.moved"

	EventTypeContentInvalidated = "com.verdant.content.invalidated"
)

// EventTypes lists every event type a session or store can publish.
func EventTypes() []string {
	return []string{
		EventTypeSessionCreated,
		EventTypeSessionClosed,
		EventTypeSessionEvicted,
		EventTypeNavigationRequested,
		EventTypeTransitionChanged,
		EventTypeSectionChanged,
		EventTypeLayoutReported,
		EventTypeFilterChanged,
		EventTypeContactChanged,
		EventTypeContactSubmitted,
		EventTypeContactRejected,
		EventTypeGalleryMoved,
		EventTypeContentInvalidated,
	}
}
