package navigation

// Link is one entry of the site navigation bar.
type Link struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// NavItem is a Link rendered for a particular current path.
type NavItem struct {
	Link
	Active bool `json:"active"`
}

// DefaultLinks returns the navigation bar entries in display order.
func DefaultLinks() []Link {
	return []Link{
		{Name: "Home", Path: "/"},
		{Name: "Services", Path: "/services"},
		{Name: "Projects", Path: "/projects"},
		{Name: "About", Path: "/about"},
		{Name: "Contact", Path: "/contact"},
	}
}

// ActiveLinks marks the link whose path equals current exactly. A project
// detail page therefore highlights nothing.
func ActiveLinks(links []Link, current string) []NavItem {
	p, _ := splitTarget(current)
	items := make([]NavItem, len(links))
	for i, l := range links {
		items[i] = NavItem{Link: l, Active: l.Path == p}
	}
	return items
}
