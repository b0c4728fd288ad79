// Package session runs one visitor's navigation state as an actor: a single
// goroutine drains a mailbox of events, and every timer the containers set
// posts its callback back into that mailbox. The containers therefore never
// see concurrent calls and need no locks of their own.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GoCodeAlone/verdant"
	"github.com/GoCodeAlone/verdant/catalog"
	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/content"
	"github.com/GoCodeAlone/verdant/gallery"
	"github.com/GoCodeAlone/verdant/navigation"
	"github.com/GoCodeAlone/verdant/scrollspy"
	"github.com/GoCodeAlone/verdant/transition"
)

const mailboxSize = 64

var (
	ErrClosed    = errors.New("session closed")
	ErrNoGallery = errors.New("no gallery on the current page")
)

// Publisher receives every state change a session makes.
type Publisher func(eventType string, data map[string]any)

// Deps are the collaborators shared by all sessions of a Store.
type Deps struct {
	Table     *navigation.Table
	Scheduler verdant.Scheduler
	Config    Config
	Publish   Publisher
	// OnSubmitted is called on the session goroutine for every contact
	// submission that reaches Success.
	OnSubmitted func(sessionID string, sub contactform.Submission)
}

// Session is safe for concurrent use; every method hands its work to the
// session goroutine.
type Session struct {
	id      string
	deps    Deps
	sched   verdant.Scheduler
	mailbox chan func()
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	lastSeen atomic.Int64

	// owned by the session goroutine
	content   *content.Content
	route     navigation.Match
	mounted   navigation.ViewID
	player    *transition.Player
	spy       *scrollspy.Tracker
	filter    *catalog.Filter
	form      *contactform.Form
	carousel  *gallery.Carousel
	projectID int
	anchor    string
}

// New starts a session showing initialPath without a transition.
func New(id string, c *content.Content, initialPath string, deps Deps) *Session {
	if deps.Table == nil {
		deps.Table = navigation.DefaultTable()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = verdant.NewTimerScheduler()
	}
	s := &Session{
		id:      id,
		deps:    deps,
		mailbox: make(chan func(), mailboxSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		content: c,
	}
	s.sched = mailboxScheduler{base: deps.Scheduler, post: s.post}
	s.touch()

	s.route = s.resolve(initialPath)
	s.mounted = s.route.View
	s.anchor = s.route.Fragment
	s.player = transition.NewPlayer(s.sched, s.route.View,
		transition.WithDurations(deps.Config.ExitDuration, deps.Config.EnterDuration),
		transition.WithObserver(s.onTransition),
	)
	s.spy = scrollspy.New(
		scrollspy.WithLookahead(deps.Config.Lookahead),
		scrollspy.WithObserver(s.onSection),
	)
	s.resetFilter()
	s.resetForm()
	s.resetCarousel()

	go s.loop()
	s.emit(EventTypeSessionCreated, map[string]any{"path": s.route.Path, "view": string(s.route.View)})
	return s
}

func (s *Session) ID() string {
	return s.id
}

// LastSeen is the time of the most recent call into the session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Navigate resolves path and starts the transition to its view. Unknown
// paths, and project ids missing from the catalog, land on the not-found
// view.
func (s *Session) Navigate(ctx context.Context, path string) (Snapshot, error) {
	return s.query(ctx, func() {
		s.navigate(path)
	})
}

// ShowProject navigates to the detail page of project id.
func (s *Session) ShowProject(ctx context.Context, id int) (Snapshot, error) {
	return s.Navigate(ctx, navigation.ProjectPath(id))
}

// ReportLayout caches the section offsets measured by the browser.
func (s *Session) ReportLayout(ctx context.Context, sections []scrollspy.Section) (Snapshot, error) {
	var err error
	snap, qerr := s.query(ctx, func() {
		if err = s.spy.SetLayout(sections); err != nil {
			return
		}
		s.emit(EventTypeLayoutReported, map[string]any{"sections": len(sections)})
	})
	if qerr != nil {
		return snap, qerr
	}
	if err != nil {
		return snap, fmt.Errorf("report layout: %w", err)
	}
	return snap, nil
}

// ReportViewport sizes the scroll-spy lookahead to a third of the
// browser's viewport height.
func (s *Session) ReportViewport(ctx context.Context, height int) (Snapshot, error) {
	return s.query(ctx, func() {
		s.spy.SetLookahead(scrollspy.LookaheadForViewport(height))
	})
}

// Scroll samples the scroll position.
func (s *Session) Scroll(ctx context.Context, y int) (Snapshot, error) {
	return s.query(ctx, func() {
		s.spy.Sample(y)
		// the pending jump has been honoured once the browser scrolls
		s.anchor = ""
	})
}

func (s *Session) SelectCategory(ctx context.Context, category string) (Snapshot, error) {
	return s.query(ctx, func() {
		s.filter.SelectCategory(category)
	})
}

// Submit hands the fields to the contact form, navigating to the contact
// page first when the visitor is elsewhere. Validation failures come back
// as *contactform.ValidationError with the snapshot still populated.
func (s *Session) Submit(ctx context.Context, fields contactform.Fields) (Snapshot, error) {
	var err error
	snap, qerr := s.query(ctx, func() {
		if s.route.View != navigation.ViewContact {
			s.navigate("/contact")
		}
		_, err = s.form.Submit(fields)
		if err != nil {
			s.emit(EventTypeContactRejected, map[string]any{"error": err.Error()})
		}
	})
	if qerr != nil {
		return snap, qerr
	}
	return snap, err
}

func (s *Session) GalleryNext(ctx context.Context) (Snapshot, error) {
	return s.galleryOp(ctx, func(c *gallery.Carousel) error {
		c.Next()
		return nil
	})
}

func (s *Session) GalleryPrev(ctx context.Context) (Snapshot, error) {
	return s.galleryOp(ctx, func(c *gallery.Carousel) error {
		c.Prev()
		return nil
	})
}

func (s *Session) GalleryShow(ctx context.Context, index int) (Snapshot, error) {
	return s.galleryOp(ctx, func(c *gallery.Carousel) error {
		return c.Show(index)
	})
}

// Snapshot returns the current state without changing it.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.query(ctx, func() {})
}

// InvalidateContent installs a reloaded catalog. The scroll-spy layout is
// dropped because the measured offsets no longer describe the page, and an
// open project gallery is rebuilt from the reloaded project.
func (s *Session) InvalidateContent(ctx context.Context, c *content.Content) error {
	return s.do(ctx, func() {
		s.content = c
		s.filter.Replace(c.Items())
		s.spy.Invalidate()
		if s.route.View == navigation.ViewProject {
			s.resetCarousel()
		}
		s.emit(EventTypeContentInvalidated, map[string]any{"projects": len(c.Projects)})
	})
}

// Close stops the session goroutine and cancels every pending timer. It is
// safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
	<-s.stopped
}

func (s *Session) loop() {
	defer close(s.stopped)
	for {
		select {
		case fn := <-s.mailbox:
			fn()
		case <-s.done:
			s.teardown()
			return
		}
	}
}

func (s *Session) teardown() {
	s.player.Close()
	s.form.Close()
	if s.carousel != nil {
		s.carousel.Close()
	}
	s.emit(EventTypeSessionClosed, nil)
}

// do runs fn on the session goroutine and waits for it.
func (s *Session) do(ctx context.Context, fn func()) error {
	s.touch()
	finished := make(chan struct{})
	select {
	case s.mailbox <- func() { fn(); close(finished) }:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return fmt.Errorf("session %s: %w", s.id, ctx.Err())
	}
	// Once queued, fn runs unless the session stops, and its writes to the
	// caller's variables must be complete before do returns.
	select {
	case <-finished:
		return nil
	case <-s.stopped:
		return ErrClosed
	}
}

func (s *Session) query(ctx context.Context, fn func()) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() {
		fn()
		snap = s.snapshot()
	})
	return snap, err
}

func (s *Session) galleryOp(ctx context.Context, fn func(*gallery.Carousel) error) (Snapshot, error) {
	var err error
	snap, qerr := s.query(ctx, func() {
		if s.carousel == nil {
			err = ErrNoGallery
			return
		}
		err = fn(s.carousel)
	})
	if qerr != nil {
		return snap, qerr
	}
	return snap, err
}

// post queues a timer callback. After Close the callback is dropped.
func (s *Session) post(fn func()) {
	select {
	case s.mailbox <- fn:
	case <-s.done:
	}
}

func (s *Session) touch() {
	s.lastSeen.Store(s.deps.Scheduler.Now().UnixNano())
}

func (s *Session) emit(eventType string, data map[string]any) {
	if s.deps.Publish == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["session_id"] = s.id
	s.deps.Publish(eventType, data)
}

// mailboxScheduler routes timer fires through the session mailbox.
type mailboxScheduler struct {
	base verdant.Scheduler
	post func(func())
}

func (m mailboxScheduler) Now() time.Time {
	return m.base.Now()
}

func (m mailboxScheduler) After(d time.Duration, fn func()) verdant.Cancel {
	return m.base.After(d, func() { m.post(fn) })
}
