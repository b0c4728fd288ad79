// Package views renders the site pages with gomponents. Views only read
// session snapshots and content; they never change state.
package views

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/GoCodeAlone/verdant/content"
	"github.com/GoCodeAlone/verdant/navigation"
	"github.com/GoCodeAlone/verdant/session"
)

// PageProps are the per-page settings of the layout.
type PageProps struct {
	Title       string
	Description string
	// Refresh, when positive, reloads the page after that many seconds. The
	// contact page uses it while a submission is in flight.
	Refresh int
}

// Layout wraps body in the document shell, navbar and footer. The main
// element carries the transition state so the stylesheet can fade views
// in and out.
func Layout(props PageProps, snap session.Snapshot, site *content.Content, body ...g.Node) g.Node {
	title := site.Company
	if props.Title != "" {
		title = props.Title + " | " + site.Company
	}
	ts := snap.Transition

	return c.HTML5(c.HTML5Props{
		Title:       title,
		Description: props.Description,
		Language:    "en",
		Head: []g.Node{
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			g.If(props.Refresh > 0, Meta(g.Attr("http-equiv", "refresh"), Content(strconv.Itoa(props.Refresh)))),
			StyleEl(g.Raw(stylesheet)),
		},
		Body: []g.Node{
			Navbar(site.Company, snap.Nav),
			Main(
				ID("view"),
				Data("view", string(snap.Route.View)),
				Data("mounted", string(ts.Mounted)),
				Data("phase", ts.Phase.String()),
				Data("visibility", fmt.Sprintf("%.2f", ts.Visibility)),
				Data("session", snap.ID),
				g.Group(body),
			),
			SiteFooter(site),
			Script(g.Raw(clientScript)),
		},
	})
}

// Navbar renders the fixed top navigation with the active link marked.
func Navbar(company string, items []navigation.NavItem) g.Node {
	return Nav(
		Class("navbar"),
		A(Href("/"), Class("brand"), g.Text(company)),
		Ul(
			g.Group(g.Map(items, func(item navigation.NavItem) g.Node {
				return Li(A(
					Href(item.Path),
					c.Classes{"nav-link": true, "active": item.Active},
					g.If(item.Active, Aria("current", "page")),
					g.Text(item.Name),
				))
			})),
		),
	)
}

func SiteFooter(site *content.Content) g.Node {
	return Footer(
		Class("footer"),
		Div(
			Class("footer-brand"),
			Strong(g.Text(site.Company)),
			P(g.Text(site.Tagline)),
		),
		Ul(
			g.Group(g.Map(navigation.DefaultLinks(), func(l navigation.Link) g.Node {
				return Li(A(Href(l.Path), g.Text(l.Name)))
			})),
		),
		P(Class("copyright"), g.Textf("© %s", site.Company)),
	)
}

// GlassCard is the frosted panel used across the site.
func GlassCard(children ...g.Node) g.Node {
	return Div(Class("glass-card"), g.Group(children))
}

// ButtonLink renders a link styled as a button. variant is "primary",
// "outline" or "glass".
func ButtonLink(href, variant, label string) g.Node {
	return A(Href(href), Class("btn btn-"+variant), g.Text(label))
}

func sectionHeading(title, subtitle string) g.Node {
	return Header(
		Class("section-heading"),
		H2(g.Text(title)),
		g.If(subtitle != "", P(g.Text(subtitle))),
	)
}
