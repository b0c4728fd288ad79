package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_MatchDeclaredRoutes(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		path     string
		view     ViewID
		pattern  string
		params   map[string]string
		fragment string
	}{
		{name: "root", path: "/", view: ViewHome, pattern: "/"},
		{name: "empty path", path: "", view: ViewHome, pattern: "/"},
		{name: "services", path: "/services", view: ViewServices, pattern: "/services"},
		{name: "services with fragment", path: "/services#irrigation-systems", view: ViewServices, pattern: "/services", fragment: "irrigation-systems"},
		{name: "projects with query", path: "/projects?category=Soil+Health", view: ViewProjects, pattern: "/projects"},
		{name: "trailing slash", path: "/projects/", view: ViewProjects, pattern: "/projects"},
		{name: "project detail", path: "/projects/4", view: ViewProject, pattern: "/projects/{id}", params: map[string]string{"id": "4"}},
		{name: "about", path: "/about", view: ViewAbout, pattern: "/about"},
		{name: "contact", path: "/contact", view: ViewContact, pattern: "/contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := table.Match(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.view, m.View)
			assert.Equal(t, tt.pattern, m.Pattern)
			assert.Equal(t, tt.params, m.Params)
			assert.Equal(t, tt.fragment, m.Fragment)
		})
	}
}

func TestTable_MatchUndeclared(t *testing.T) {
	table := DefaultTable()

	for _, p := range []string{"/careers", "/projects/1/edit", "/services/extra", "/about-us"} {
		t.Run(p, func(t *testing.T) {
			_, err := table.Match(p)
			require.ErrorIs(t, err, ErrRouteNotFound)

			m := table.Resolve(p)
			assert.Equal(t, ViewNotFound, m.View)
			assert.Empty(t, m.Pattern)
		})
	}
}

func TestTable_ResolveIsTotal(t *testing.T) {
	table := DefaultTable()
	for _, r := range table.Routes() {
		m := table.Resolve(r.Pattern)
		assert.NotEqual(t, ViewNotFound, m.View, r.Pattern)
	}
}

func TestNewTable_Validation(t *testing.T) {
	_, err := NewTable(Route{Pattern: "about", View: ViewAbout})
	require.ErrorIs(t, err, ErrInvalidPattern)

	_, err = NewTable(Route{Pattern: "/about"})
	require.ErrorIs(t, err, ErrMissingView)

	_, err = NewTable(
		Route{Pattern: "/about", View: ViewAbout},
		Route{Pattern: "/about", View: ViewContact},
	)
	require.ErrorIs(t, err, ErrDuplicatePattern)
}

func TestTable_Title(t *testing.T) {
	assert.Equal(t, "Services", DefaultTable().Title(ViewServices))
	assert.Empty(t, DefaultTable().Title(ViewNotFound))
}

func TestProjectID(t *testing.T) {
	table := DefaultTable()

	id, err := ProjectID(table.Resolve("/projects/6"))
	require.NoError(t, err)
	assert.Equal(t, 6, id)

	_, err = ProjectID(table.Resolve("/projects/vineyard"))
	require.ErrorIs(t, err, ErrInvalidParam)

	_, err = ProjectID(table.Resolve("/projects/0"))
	require.ErrorIs(t, err, ErrInvalidParam)

	_, err = ProjectID(table.Resolve("/about"))
	require.ErrorIs(t, err, ErrInvalidParam)

	assert.Equal(t, "/projects/3", ProjectPath(3))
}

func TestActiveLinks(t *testing.T) {
	items := ActiveLinks(DefaultLinks(), "/projects?category=All")
	require.Len(t, items, 5)
	for _, item := range items {
		assert.Equal(t, item.Name == "Projects", item.Active, item.Name)
	}

	for _, item := range ActiveLinks(DefaultLinks(), "/projects/2") {
		assert.False(t, item.Active, "detail pages highlight no link")
	}
}
