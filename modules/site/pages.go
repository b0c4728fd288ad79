package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"

	"github.com/golobby/cast"
	g "maragu.dev/gomponents"

	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/navigation"
	"github.com/GoCodeAlone/verdant/session"
	"github.com/GoCodeAlone/verdant/views"
)

// sessionFor returns the visitor's session, starting one on initialPath
// and setting the cookie when the request carries no live session.
func (m *Module) sessionFor(w http.ResponseWriter, r *http.Request, initialPath string) (*session.Session, bool) {
	if c, err := r.Cookie(m.cookieName); err == nil {
		if s, err := m.store.Get(c.Value); err == nil {
			return s, false
		}
	}
	s, _ := m.store.GetOrCreate("", initialPath)
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s, true
}

// handlePage navigates the session to the request path and renders it.
// It also serves as the router's NotFound handler, so undeclared paths get
// the not-found view.
func (m *Module) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, created := m.sessionFor(w, r, r.URL.Path)

	var snap session.Snapshot
	var err error
	if created {
		snap, err = s.Snapshot(ctx)
	} else {
		snap, err = s.Navigate(ctx, r.URL.Path)
	}
	if err != nil {
		m.pageError(w, r, err)
		return
	}

	snap, err = m.applyQuery(ctx, s, snap, r.URL.Query())
	if err != nil {
		m.pageError(w, r, err)
		return
	}

	status := http.StatusOK
	if snap.Route.View == navigation.ViewNotFound {
		status = http.StatusNotFound
	}
	m.render(w, r, snap, status)
}

// applyQuery feeds page query parameters into the session: the project
// category on /projects and the gallery image on a project page. Values
// that do not parse are ignored.
func (m *Module) applyQuery(ctx context.Context, s *session.Session, snap session.Snapshot, q url.Values) (session.Snapshot, error) {
	switch snap.Route.View {
	case navigation.ViewProjects:
		if q.Has("category") {
			return s.SelectCategory(ctx, q.Get("category"))
		}
	case navigation.ViewProject:
		if !q.Has("image") || snap.Gallery == nil {
			return snap, nil
		}
		i, err := intParam(q.Get("image"))
		if err != nil || i < 0 || i >= snap.Gallery.Len {
			return snap, nil
		}
		return s.GalleryShow(ctx, i)
	}
	return snap, nil
}

// handleContactPost submits the contact form. A successful submission
// redirects back to /contact so a reload cannot resubmit it.
func (m *Module) handleContactPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := m.sessionFor(w, r, "/contact")

	r.Body = http.MaxBytesReader(w, r.Body, m.config.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if !m.allowContact(ctx) {
		snap, err := s.Navigate(ctx, "/contact")
		if err != nil {
			m.pageError(w, r, err)
			return
		}
		m.render(w, r, snap, http.StatusTooManyRequests)
		return
	}

	snap, err := s.Submit(ctx, contactform.Fields{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Company: r.PostForm.Get("company"),
		Message: r.PostForm.Get("message"),
	})
	var verr *contactform.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
	case errors.As(err, &verr):
		m.render(w, r, snap, http.StatusUnprocessableEntity)
	case errors.Is(err, contactform.ErrBusy):
		m.render(w, r, snap, http.StatusConflict)
	default:
		m.pageError(w, r, err)
	}
}

func (m *Module) allowContact(ctx context.Context) bool {
	if m.limiter.Allow() {
		return true
	}
	m.emitEvent(ctx, EventTypeContactThrottled, map[string]interface{}{"limit": float64(m.limiter.Limit())})
	return false
}

func (m *Module) render(w http.ResponseWriter, r *http.Request, snap session.Snapshot, status int) {
	site := m.catalog.Load()
	props := views.PageProps{Title: m.table.Title(snap.Route.View)}

	var body g.Node
	switch snap.Route.View {
	case navigation.ViewHome:
		props.Title = ""
		props.Description = site.Tagline
		body = views.Home(site)
	case navigation.ViewServices:
		body = views.Services(site, snap)
	case navigation.ViewProjects:
		body = views.Projects(snap)
	case navigation.ViewProject:
		p, err := site.Project(snap.ProjectID)
		if err != nil {
			props.Title = "Not Found"
			body = views.NotFound()
			status = http.StatusNotFound
			break
		}
		props.Title = p.Title
		props.Description = p.Description
		body = views.ProjectDetail(p, snap)
	case navigation.ViewAbout:
		body = views.About(site)
	case navigation.ViewContact:
		switch snap.Form.Phase {
		case contactform.Submitting:
			props.Refresh = refreshSeconds(m.submitDelay)
		case contactform.Success:
			props.Refresh = refreshSeconds(m.successDelay)
		}
		body = views.Contact(site, snap.Form)
	default:
		props.Title = "Not Found"
		body = views.NotFound()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.Layout(props, snap, site, body).Render(w); err != nil {
		m.logger.Error("Failed to render page", "view", snap.Route.View, "error", err)
		return
	}
	m.emitEvent(r.Context(), EventTypePageRendered, map[string]interface{}{
		"session_id": snap.ID,
		"view":       string(snap.Route.View),
		"status":     status,
	})
}

func (m *Module) pageError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		m.logger.Error("Page request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, http.StatusText(status), status)
}

func (m *Module) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": m.store.Len(),
		"projects": len(m.catalog.Load().Projects),
	}, m.logger)
}

func intParam(s string) (int, error) {
	v, err := cast.FromType(s, reflect.TypeOf(0))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrBadRequest, s, err)
	}
	i, ok := v.(int)
	if !ok {
		return 0, ErrBadRequest
	}
	return i, nil
}
