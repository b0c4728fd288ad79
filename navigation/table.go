package navigation

import (
	"fmt"
	"net/http"
	"path"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/golobby/cast"
)

// Table is a compiled, read-only route table. It is safe for concurrent use.
type Table struct {
	routes    []Route
	byPattern map[string]Route
	mux       *chi.Mux
}

// Match is the result of resolving a path against a Table.
type Match struct {
	View     ViewID            `json:"view"`
	Pattern  string            `json:"pattern,omitempty"`
	Path     string            `json:"path"`
	Fragment string            `json:"fragment,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

// Param returns a path parameter, or "" when the route has none by that name.
func (m Match) Param(key string) string {
	return m.Params[key]
}

// NewTable validates routes and compiles them.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes:    make([]Route, 0, len(routes)),
		byPattern: make(map[string]Route, len(routes)),
		mux:       chi.NewMux(),
	}
	for _, r := range routes {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, dup := t.byPattern[r.Pattern]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePattern, r.Pattern)
		}
		t.byPattern[r.Pattern] = r
		t.routes = append(t.routes, r)
		t.mux.Method(http.MethodGet, r.Pattern, noopHandler)
	}
	return t, nil
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return NewTable(DefaultRoutes()...)
})

// DefaultTable returns the compiled default route table.
func DefaultTable() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(fmt.Sprintf("navigation: default routes: %v", err))
	}
	return t
}

// Routes returns a copy of the declared routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Match resolves raw, which may carry a query string and a fragment. Both
// are stripped before matching; the fragment is returned as the requested
// section anchor. A trailing slash is ignored and an empty path means "/".
func (t *Table) Match(raw string) (Match, error) {
	p, fragment := splitTarget(raw)
	m := Match{Path: p, Fragment: fragment}

	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, p) {
		return m, fmt.Errorf("%w: %s", ErrRouteNotFound, p)
	}
	route, ok := t.byPattern[rctx.RoutePattern()]
	if !ok {
		return m, fmt.Errorf("%w: %s", ErrRouteNotFound, p)
	}

	m.View = route.View
	m.Pattern = route.Pattern
	if n := len(rctx.URLParams.Keys); n > 0 {
		m.Params = make(map[string]string, n)
		for i, k := range rctx.URLParams.Keys {
			m.Params[k] = rctx.URLParams.Values[i]
		}
	}
	return m, nil
}

// Resolve is Match with the not-found fallback view instead of an error.
func (t *Table) Resolve(raw string) Match {
	m, err := t.Match(raw)
	if err != nil {
		m.View = ViewNotFound
		m.Pattern = ""
		m.Params = nil
	}
	return m
}

// Title returns the title declared for view, or "" if no route renders it.
func (t *Table) Title(view ViewID) string {
	for _, r := range t.routes {
		if r.View == view {
			return r.Title
		}
	}
	return ""
}

func splitTarget(raw string) (p, fragment string) {
	p = raw
	if i := strings.IndexByte(p, '#'); i >= 0 {
		fragment = p[i+1:]
		p = p[:i]
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/", fragment
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p), fragment
}

// ProjectPath builds the detail path for a project id.
func ProjectPath(id int) string {
	return "/projects/" + strconv.Itoa(id)
}

// ProjectID extracts the numeric id of a project detail match.
func ProjectID(m Match) (int, error) {
	if m.View != ViewProject {
		return 0, fmt.Errorf("%w: %s is not a project route", ErrInvalidParam, m.Path)
	}
	v, err := cast.FromType(m.Param("id"), reflect.TypeOf(0))
	if err != nil {
		return 0, fmt.Errorf("%w: id %q: %w", ErrInvalidParam, m.Param("id"), err)
	}
	id, ok := v.(int)
	if !ok || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", ErrInvalidParam, m.Param("id"))
	}
	return id, nil
}
