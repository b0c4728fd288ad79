package session

import (
	"github.com/GoCodeAlone/verdant/catalog"
	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/gallery"
	"github.com/GoCodeAlone/verdant/navigation"
	"github.com/GoCodeAlone/verdant/transition"
)

// Everything below runs on the session goroutine.

func (s *Session) resolve(path string) navigation.Match {
	m := s.deps.Table.Resolve(path)
	if m.View != navigation.ViewProject {
		return m
	}
	id, err := navigation.ProjectID(m)
	if err == nil {
		_, err = s.content.Project(id)
	}
	if err != nil {
		m.View = navigation.ViewNotFound
		m.Pattern = ""
		m.Params = nil
	}
	return m
}

func (s *Session) navigate(path string) {
	m := s.resolve(path)
	prevProject := s.projectID
	prevTarget := s.route.View
	s.route = m
	s.anchor = m.Fragment

	s.emit(EventTypeNavigationRequested, map[string]any{
		"path":     m.Path,
		"view":     string(m.View),
		"fragment": m.Fragment,
	})

	// a target abandoned before it mounted never reaches onTransition
	if prevTarget != m.View && prevTarget != s.player.State().Mounted {
		s.unmount(prevTarget)
	}

	// a view that is not on screen mounts fresh, like a remounted page
	if m.View != s.player.State().Mounted {
		s.resetFor(m.View)
	} else if m.View == navigation.ViewProject && s.currentProjectID() != prevProject {
		s.resetCarousel()
	}
	s.player.Navigate(m.View)
}

func (s *Session) resetFor(view navigation.ViewID) {
	switch view {
	case navigation.ViewProjects:
		s.resetFilter()
	case navigation.ViewContact:
		s.resetForm()
	case navigation.ViewProject:
		s.resetCarousel()
	case navigation.ViewServices:
		s.spy.Invalidate()
	}
}

// unmount releases the timers of a view that has left the screen.
func (s *Session) unmount(view navigation.ViewID) {
	switch view {
	case navigation.ViewContact:
		s.form.Close()
	case navigation.ViewProject:
		if s.carousel != nil {
			s.carousel.Close()
			s.carousel = nil
		}
		s.projectID = 0
	}
}

func (s *Session) resetFilter() {
	s.filter = catalog.NewFilter(s.content.Items(), catalog.WithObserver(func(selected string, visible []catalog.Item) {
		s.emit(EventTypeFilterChanged, map[string]any{"category": selected, "visible": len(visible)})
	}))
}

func (s *Session) resetForm() {
	if s.form != nil {
		s.form.Close()
	}
	cfg := s.deps.Config
	s.form = contactform.New(s.sched,
		contactform.WithDelays(cfg.SubmitDelay, cfg.SuccessDelay),
		contactform.WithObserver(func(st contactform.State) {
			s.emit(EventTypeContactChanged, map[string]any{"phase": st.Phase.String(), "errors": len(st.Errors)})
		}),
		contactform.WithSubmittedHandler(func(sub contactform.Submission) {
			s.emit(EventTypeContactSubmitted, map[string]any{
				"submission_id": sub.ID.String(),
				"name":          sub.Fields.Name,
				"email":         sub.Fields.Email,
				"company":       sub.Fields.Company,
			})
			if s.deps.OnSubmitted != nil {
				s.deps.OnSubmitted(s.id, sub)
			}
		}),
	)
}

func (s *Session) resetCarousel() {
	if s.carousel != nil {
		s.carousel.Close()
		s.carousel = nil
	}
	s.projectID = s.currentProjectID()
	if s.projectID == 0 {
		return
	}
	p, err := s.content.Project(s.projectID)
	if err != nil {
		s.projectID = 0
		return
	}
	id := s.projectID
	s.carousel = gallery.New(s.sched, p.Slides(),
		gallery.WithInterval(s.deps.Config.GalleryInterval),
		gallery.WithObserver(func(index int) {
			s.emit(EventTypeGalleryMoved, map[string]any{"project_id": id, "index": index})
		}),
	)
}

func (s *Session) currentProjectID() int {
	if s.route.View != navigation.ViewProject {
		return 0
	}
	id, err := navigation.ProjectID(s.route)
	if err != nil {
		return 0
	}
	return id
}

func (s *Session) onTransition(st transition.State) {
	if st.Mounted != s.mounted {
		s.unmount(s.mounted)
		s.mounted = st.Mounted
	}
	s.emit(EventTypeTransitionChanged, map[string]any{
		"phase":      st.Phase.String(),
		"current":    string(st.Current),
		"mounted":    string(st.Mounted),
		"visibility": st.Visibility,
	})
}

func (s *Session) onSection(active string) {
	s.emit(EventTypeSectionChanged, map[string]any{"section": active})
}

func (s *Session) snapshot() Snapshot {
	ts := s.player.State()
	snap := Snapshot{
		ID:          s.id,
		Route:       s.route,
		Nav:         navigation.ActiveLinks(navigation.DefaultLinks(), s.route.Path),
		Transition:  ts,
		Interactive: s.player.Interactive(s.route.View),
		Section:     s.spy.Active(),
		Sections:    s.spy.Sections(),
		Category:    s.filter.Selected(),
		Categories:  catalog.Chips(s.content.Categories, s.filter.Selected()),
		Visible:     s.filter.Visible(),
		Form:        s.form.State(),
		ProjectID:   s.projectID,
	}
	if s.anchor != "" {
		if y, err := s.spy.ScrollTarget(s.anchor); err == nil {
			snap.ScrollTo = &y
		}
	}
	if s.carousel != nil {
		if img, ok := s.carousel.Current(); ok {
			snap.Gallery = &GalleryState{Index: s.carousel.Index(), Len: s.carousel.Len(), Image: img}
		}
	}
	return snap
}
