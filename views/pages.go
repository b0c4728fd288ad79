package views

import (
	"net/url"
	"strconv"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/GoCodeAlone/verdant/catalog"
	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/content"
	"github.com/GoCodeAlone/verdant/navigation"
	"github.com/GoCodeAlone/verdant/session"
)

func Home(site *content.Content) g.Node {
	return g.Group([]g.Node{
		Section(
			Class("hero"),
			Img(Src(site.Hero.Image), Alt(""), Class("hero-bg")),
			H1(g.Text(site.Hero.Title), Br(), Span(Class("highlight"), g.Text(site.Hero.Highlight))),
			P(g.Text(site.Hero.Subtitle)),
			Div(
				Class("hero-actions"),
				ButtonLink("/services", "primary", "Explore Services"),
				ButtonLink("/projects", "outline", "View Projects"),
			),
		),

		Section(
			Class("services-teaser"),
			sectionHeading("Our Services", "Harmonizing technology with nature's rhythms."),
			Div(
				Class("grid"),
				g.Group(g.Map(site.Services, func(s content.Service) g.Node {
					return A(
						Href("/services#"+s.ID),
						GlassCard(H3(g.Text(s.Title)), P(g.Text(s.Summary))),
					)
				})),
			),
		),

		Section(
			Class("featured"),
			sectionHeading("Featured Projects", "Real results rooted in sustainable practices."),
			Div(
				Class("grid"),
				g.Group(g.Map(site.Featured(), func(p content.Project) g.Node {
					return projectCard(catalog.Item{ID: p.ID, Title: p.Title, Category: p.Category, Image: p.Image})
				})),
			),
			ButtonLink("/projects", "outline", "View All Projects"),
		),

		Section(
			Class("stats"),
			g.Group(g.Map(site.Stats, func(s content.Stat) g.Node {
				return Div(
					Class("stat"),
					Strong(g.Textf("%d%s", s.Value, s.Suffix)),
					P(g.Text(s.Label)),
				)
			})),
		),

		Section(
			Class("cta"),
			GlassCard(
				H2(g.Text("Ready to cultivate your future?")),
				P(g.Text("Partner with us to bring sustainable, precision agriculture to your land.")),
				ButtonLink("/contact", "glass", "Request a Consultation"),
			),
		),
	})
}

// Services renders the long services page. The side nav highlights the
// section the scroll-spy reports as active.
func Services(site *content.Content, snap session.Snapshot) g.Node {
	return Div(
		Class("services-page"),
		Aside(
			Class("side-nav"),
			H3(g.Text("Our Services")),
			Ul(
				g.Group(g.Map(site.Services, func(s content.Service) g.Node {
					return Li(A(
						Href("#"+s.ID),
						Data("section", s.ID),
						c.Classes{"active": s.ID == snap.Section},
						g.Text(s.Title),
					))
				})),
			),
		),
		Div(
			Class("service-sections"),
			g.Group(g.Map(site.Services, func(s content.Service) g.Node {
				return Section(
					ID(s.ID),
					Data("section", s.ID),
					H2(g.Text(s.Title)),
					P(Class("lead"), g.Text(s.Summary)),
					Img(Src(s.Image), Alt(s.Title)),
					P(g.Text(s.Body)),
					Ul(
						Class("features"),
						g.Group(g.Map(s.Features, func(f string) g.Node { return Li(g.Text(f)) })),
					),
				)
			})),
		),
	)
}

// Projects renders the filter chips and the filtered grid.
func Projects(snap session.Snapshot) g.Node {
	return Div(
		Class("projects-page"),
		sectionHeading("Our Projects", "Explore how we're transforming agriculture across diverse landscapes."),
		Nav(
			Class("chips"),
			g.Group(g.Map(snap.Categories, func(chip catalog.Chip) g.Node {
				return A(
					Href("/projects?category="+url.QueryEscape(chip.Name)),
					c.Classes{"chip": true, "active": chip.Active},
					g.Text(chip.Name),
				)
			})),
		),
		g.If(len(snap.Visible) == 0, P(Class("empty"), g.Text("No projects in this category yet."))),
		Div(
			Class("grid"),
			g.Group(g.Map(snap.Visible, projectCard)),
		),
	)
}

func projectCard(item catalog.Item) g.Node {
	return A(
		Href(navigation.ProjectPath(item.ID)),
		Class("project-card"),
		Img(Src(item.Image), Alt(item.Title), g.Attr("loading", "lazy")),
		P(Class("category"), g.Text(item.Category)),
		H3(g.Text(item.Title)),
	)
}

// ProjectDetail renders one project with its gallery, facts and results.
func ProjectDetail(p content.Project, snap session.Snapshot) g.Node {
	base := navigation.ProjectPath(p.ID)
	return Article(
		Class("project-detail"),
		A(Href("/projects"), Class("back"), g.Text("← Back to Projects")),
		P(Class("category"), g.Text(p.Category)),
		H1(g.Text(p.Title)),

		g.Iff(snap.Gallery != nil, func() g.Node {
			gs := snap.Gallery
			prev := (gs.Index - 1 + gs.Len) % gs.Len
			next := (gs.Index + 1) % gs.Len
			return Figure(
				Class("gallery"),
				Data("index", strconv.Itoa(gs.Index)),
				Img(Src(gs.Image.URL), Alt(gs.Image.Caption)),
				FigCaption(g.Text(gs.Image.Caption)),
				g.If(gs.Len > 1, Div(
					Class("gallery-controls"),
					A(Href(base+"?image="+strconv.Itoa(prev)), Aria("label", "Previous image"), g.Text("‹")),
					Span(g.Textf("%d / %d", gs.Index+1, gs.Len)),
					A(Href(base+"?image="+strconv.Itoa(next)), Aria("label", "Next image"), g.Text("›")),
				)),
			)
		}),

		Dl(
			Class("facts"),
			fact("Client", p.Client),
			fact("Location", p.Location),
			fact("Duration", p.Duration),
		),

		Section(
			H2(g.Text("The Challenge & Solution")),
			P(g.Text(p.Description)),
			g.If(p.Solution != "", P(g.Text(p.Solution))),
		),

		g.If(len(p.Results) > 0, Section(
			Class("results"),
			H3(g.Text("Key Results")),
			g.Group(g.Map(p.Results, func(r content.Result) g.Node {
				return Div(P(Class("label"), g.Text(r.Label)), P(Class("value"), g.Text(r.Value)))
			})),
		)),

		ButtonLink("/contact", "primary", "Request a Quote"),
	)
}

func fact(label, value string) g.Node {
	if value == "" {
		return nil
	}
	return Div(Dt(g.Text(label)), Dd(g.Text(value)))
}

func About(site *content.Content) g.Node {
	return Div(
		Class("about-page"),
		Section(
			Class("story"),
			H1(g.Text("Our Story")),
			g.Group(g.Map(site.Story, func(p string) g.Node { return P(g.Text(p)) })),
		),
		Section(
			Class("timeline"),
			Ol(
				g.Group(g.Map(site.Timeline, func(m content.Milestone) g.Node {
					return Li(
						Span(Class("year"), g.Text(m.Year)),
						H3(g.Text(m.Title)),
						P(g.Text(m.Text)),
					)
				})),
			),
		),
		Section(
			Class("team"),
			sectionHeading("The People Behind the Growth", ""),
			Div(
				Class("grid"),
				g.Group(g.Map(site.Team, func(m content.Member) g.Node {
					return Div(
						Class("member"),
						Img(Src(m.Image), Alt(m.Name), g.Attr("loading", "lazy")),
						H3(g.Text(m.Name)),
						P(g.Text(m.Role)),
					)
				})),
			),
		),
	)
}

// Contact renders the form for the current submission phase. Inputs are
// disabled while a message is sending or the success banner shows.
func Contact(site *content.Content, form contactform.State) g.Node {
	busy := form.Phase != contactform.Idle
	return Div(
		Class("contact-page"),
		sectionHeading("Get in Touch", "Let's discuss how we can help your farm thrive."),
		GlassCard(
			H2(g.Text("Send a Message")),
			Form(
				Method("post"),
				Action("/contact"),
				g.Attr("novalidate"),
				field("name", "Full Name", "text", form.Fields.Name, form.Errors, busy),
				field("email", "Email Address", "email", form.Fields.Email, form.Errors, busy),
				field("company", "Company / Farm Name", "text", form.Fields.Company, form.Errors, busy),
				Div(
					Class("field"),
					Label(For("message"), g.Text("How can we help?")),
					Textarea(ID("message"), Name("message"), g.Attr("rows", "5"), g.If(busy, Disabled()), g.Text(form.Fields.Message)),
				),
				Button(
					Type("submit"),
					c.Classes{"btn": true, "btn-primary": true, "success": form.Phase == contactform.Success},
					g.If(busy, Disabled()),
					g.Text(form.Phase.ButtonLabel()),
				),
			),
			g.If(form.Phase == contactform.Success,
				P(Class("success"), Role("status"), g.Text("Thank you! We'll be in touch shortly."))),
		),
		Div(
			Class("contact-info"),
			infoBlock("Visit Us", site.Contact.Address),
			infoBlock("Email Us", site.Contact.Email),
			infoBlock("Call Us", site.Contact.Phone),
		),
	)
}

func field(name, label, typ, value string, errs map[string]string, busy bool) g.Node {
	msg, invalid := errs[name]
	return Div(
		Class("field"),
		Label(For(name), g.Text(label)),
		Input(
			ID(name),
			Name(name),
			Type(typ),
			Value(value),
			g.If(busy, Disabled()),
			g.If(invalid, Aria("invalid", "true")),
		),
		g.If(invalid, P(Class("field-error"), g.Text(msg))),
	)
}

func infoBlock(title string, lines []string) g.Node {
	return GlassCard(
		H3(g.Text(title)),
		P(g.Group(g.Map(lines, func(l string) g.Node { return Span(Class("line"), g.Text(l)) }))),
	)
}

func NotFound() g.Node {
	return Section(
		Class("not-found"),
		H1(g.Text("Page not found")),
		P(g.Text("The page you are looking for has moved or never existed.")),
		ButtonLink("/", "primary", "Back to Home"),
	)
}
