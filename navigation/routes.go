// Package navigation maps URL paths to the site's views.
//
// A Table is compiled into a chi route tree once and then matched with
// chi's own matcher, so the page router and the navigation state agree on
// what every path means.
package navigation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ViewID identifies a top-level page of the site.
type ViewID string

const (
	ViewHome     ViewID = "home"
	ViewServices ViewID = "services"
	ViewProjects ViewID = "projects"
	ViewProject  ViewID = "project"
	ViewAbout    ViewID = "about"
	ViewContact  ViewID = "contact"
	ViewNotFound ViewID = "not-found"
)

// Static errors for err113 compliance.
var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrInvalidPattern   = errors.New("route pattern must start with '/'")
	ErrDuplicatePattern = errors.New("duplicate route pattern")
	ErrMissingView      = errors.New("route has no view")
	ErrInvalidParam     = errors.New("invalid route parameter")
)

// Route binds a chi pattern to a view.
type Route struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	View    ViewID `json:"view" yaml:"view"`
	Title   string `json:"title" yaml:"title"`
}

// DefaultRoutes returns the site's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/", View: ViewHome, Title: "Home"},
		{Pattern: "/services", View: ViewServices, Title: "Services"},
		{Pattern: "/projects", View: ViewProjects, Title: "Projects"},
		{Pattern: "/projects/{id}", View: ViewProject, Title: "Project"},
		{Pattern: "/about", View: ViewAbout, Title: "About"},
		{Pattern: "/contact", View: ViewContact, Title: "Contact"},
	}
}

func (r Route) validate() error {
	if !strings.HasPrefix(r.Pattern, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, r.Pattern)
	}
	if r.View == "" {
		return fmt.Errorf("%w: %q", ErrMissingView, r.Pattern)
	}
	return nil
}

// noopHandler fills the chi tree; the table only uses it for matching.
var noopHandler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
