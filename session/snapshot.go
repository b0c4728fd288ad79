package session

import (
	"github.com/GoCodeAlone/verdant/catalog"
	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/gallery"
	"github.com/GoCodeAlone/verdant/navigation"
	"github.com/GoCodeAlone/verdant/scrollspy"
	"github.com/GoCodeAlone/verdant/transition"
)

// Snapshot is a consistent copy of everything a page render needs.
type Snapshot struct {
	ID          string               `json:"id"`
	Route       navigation.Match     `json:"route"`
	Nav         []navigation.NavItem `json:"nav"`
	Transition  transition.State     `json:"transition"`
	Interactive bool                 `json:"interactive"`

	Section  string              `json:"section,omitempty"`
	Sections []scrollspy.Section `json:"sections,omitempty"`
	// ScrollTo is set when the route asked for an anchor and the layout is
	// known; the browser jumps there once.
	ScrollTo *int `json:"scroll_to,omitempty"`

	Category   string         `json:"category"`
	Categories []catalog.Chip `json:"categories"`
	Visible    []catalog.Item `json:"visible"`

	Form contactform.State `json:"form"`

	ProjectID int           `json:"project_id,omitempty"`
	Gallery   *GalleryState `json:"gallery,omitempty"`
}

// GalleryState is the carousel as rendered on a project page.
type GalleryState struct {
	Index int           `json:"index"`
	Len   int           `json:"len"`
	Image gallery.Image `json:"image"`
}
