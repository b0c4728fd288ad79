package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/GoCodeAlone/modular"

	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/gallery"
	"github.com/GoCodeAlone/verdant/scrollspy"
	"github.com/GoCodeAlone/verdant/session"
)

type navigateRequest struct {
	Path string `json:"path"`
}

type layoutRequest struct {
	Sections       []scrollspy.Section `json:"sections"`
	ViewportHeight int                 `json:"viewport_height,omitempty"`
}

type scrollRequest struct {
	Y int `json:"y"`
}

type filterRequest struct {
	Category string `json:"category"`
}

type galleryShowRequest struct {
	Index int `json:"index"`
}

// apiError is the JSON error body. Snapshot is included when the session
// is still usable, so a client can re-render without another round trip.
type apiError struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
}

func (m *Module) apiSnapshot(w http.ResponseWriter, r *http.Request) {
	s, _ := m.sessionFor(w, r, "/")
	m.reply(w, r, s.Snapshot)
}

func (m *Module) apiNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !m.decode(w, r, &req) {
		return
	}
	s, _ := m.sessionFor(w, r, "/")
	m.reply(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.Navigate(ctx, req.Path)
	})
}

func (m *Module) apiLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !m.decode(w, r, &req) {
		return
	}
	s, _ := m.sessionFor(w, r, "/services")
	m.reply(w, r, func(ctx context.Context) (session.Snapshot, error) {
		if req.ViewportHeight > 0 {
			if _, err := s.ReportViewport(ctx, req.ViewportHeight); err != nil {
				return session.Snapshot{}, err
			}
		}
		return s.ReportLayout(ctx, req.Sections)
	})
}

func (m *Module) apiScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if !m.decode(w, r, &req) {
		return
	}
	s, _ := m.sessionFor(w, r, "/services")
	m.reply(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.Scroll(ctx, req.Y)
	})
}

func (m *Module) apiFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !m.decode(w, r, &req) {
		return
	}
	s, _ := m.sessionFor(w, r, "/projects")
	m.reply(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.SelectCategory(ctx, req.Category)
	})
}

func (m *Module) apiContact(w http.ResponseWriter, r *http.Request) {
	var req contactform.Fields
	if !m.decode(w, r, &req) {
		return
	}
	s, _ := m.sessionFor(w, r, "/contact")
	if !m.allowContact(r.Context()) {
		writeJSON(w, http.StatusTooManyRequests, apiError{Error: ErrRateLimited.Error()}, m.logger)
		return
	}
	m.reply(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.Submit(ctx, req)
	})
}

func (m *Module) apiGalleryNext(w http.ResponseWriter, r *http.Request) {
	s, _ := m.sessionFor(w, r, "/")
	m.reply(w, r, s.GalleryNext)
}

func (m *Module) apiGalleryPrev(w http.ResponseWriter, r *http.Request) {
	s, _ := m.sessionFor(w, r, "/")
	m.reply(w, r, s.GalleryPrev)
}

func (m *Module) apiGalleryShow(w http.ResponseWriter, r *http.Request) {
	var req galleryShowRequest
	if !m.decode(w, r, &req) {
		return
	}
	s, _ := m.sessionFor(w, r, "/")
	m.reply(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.GalleryShow(ctx, req.Index)
	})
}

// reply runs op and writes the snapshot, or the mapped error.
func (m *Module) reply(w http.ResponseWriter, r *http.Request, op func(context.Context) (session.Snapshot, error)) {
	snap, err := op(r.Context())
	if err == nil {
		writeJSON(w, http.StatusOK, snap, m.logger)
		return
	}

	status := statusFor(err)
	body := apiError{Error: err.Error()}
	var verr *contactform.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	if status < http.StatusInternalServerError && !errors.Is(err, session.ErrClosed) {
		body.Snapshot = &snap
	} else {
		m.logger.Error("Session API request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body, m.logger)
}

func (m *Module) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, m.config.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: fmt.Errorf("%w: %w", ErrBadRequest, err).Error()}, m.logger)
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *contactform.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, contactform.ErrBusy),
		errors.Is(err, session.ErrNoGallery):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, gallery.ErrIndexOutOfRange),
		errors.Is(err, scrollspy.ErrEmptySectionID),
		errors.Is(err, scrollspy.ErrDuplicateSection),
		errors.Is(err, scrollspy.ErrUnorderedLayout):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, session.ErrClosed):
		return http.StatusGone
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger modular.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write JSON response", "error", err)
	}
}
