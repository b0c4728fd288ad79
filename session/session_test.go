package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/GoCodeAlone/verdant"
	"github.com/GoCodeAlone/verdant/catalog"
	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/content"
	"github.com/GoCodeAlone/verdant/navigation"
	"github.com/GoCodeAlone/verdant/scrollspy"
	"github.com/GoCodeAlone/verdant/transition"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	events []string
	subs   []contactform.Submission
}

func (r *recorder) publish(eventType string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recorder) submitted(_ string, sub contactform.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
}

func (r *recorder) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == eventType {
			n++
		}
	}
	return n
}

func (r *recorder) submissions() []contactform.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contactform.Submission(nil), r.subs...)
}

type fixture struct {
	sched *verdant.ManualScheduler
	store *Store
	rec   *recorder
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	sched := verdant.NewManualScheduler(time.Date(2024, 4, 22, 12, 0, 0, 0, time.UTC))
	rec := &recorder{}
	store := NewStore(content.NewStore(content.MustDefault()), Deps{
		Scheduler:   sched,
		Config:      cfg,
		Publish:     rec.publish,
		OnSubmitted: rec.submitted,
	}, 0)
	t.Cleanup(store.Close)
	return &fixture{sched: sched, store: store, rec: rec}
}

func (f *fixture) open(t *testing.T, path string) *Session {
	t.Helper()
	s, created := f.store.GetOrCreate("", path)
	require.True(t, created)
	return s
}

func itemIDs(items []catalog.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSession_NavigateRunsTransition(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/")
	ctx := context.Background()

	snap, err := s.Navigate(ctx, "/services")
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewServices, snap.Route.View)
	assert.Equal(t, transition.Exiting, snap.Transition.Phase)
	assert.Equal(t, navigation.ViewHome, snap.Transition.Mounted)
	assert.False(t, snap.Interactive)

	f.sched.Advance(transition.DefaultDuration)
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, transition.Entering, snap.Transition.Phase)
	assert.Equal(t, navigation.ViewServices, snap.Transition.Mounted)
	assert.True(t, snap.Interactive)

	f.sched.Advance(transition.DefaultDuration)
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, transition.Steady, snap.Transition.Phase)

	for _, item := range snap.Nav {
		assert.Equal(t, item.Name == "Services", item.Active)
	}
	assert.Positive(t, f.rec.count(EventTypeTransitionChanged))
	assert.Equal(t, 1, f.rec.count(EventTypeNavigationRequested))
}

func TestSession_SecondNavigationMidTransition(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/")
	ctx := context.Background()

	_, err := s.Navigate(ctx, "/services")
	require.NoError(t, err)
	f.sched.Advance(300 * time.Millisecond)
	snap, err := s.Navigate(ctx, "/about")
	require.NoError(t, err)

	assert.Equal(t, 1, f.sched.Pending())
	assert.Equal(t, navigation.ViewHome, snap.Transition.Mounted)
	assert.Equal(t, navigation.ViewAbout, snap.Transition.Current)
}

func TestSession_UnknownRoutes(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/")
	ctx := context.Background()

	snap, err := s.Navigate(ctx, "/careers")
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewNotFound, snap.Route.View)

	snap, err = s.Navigate(ctx, "/projects/99")
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewNotFound, snap.Route.View)
	assert.Nil(t, snap.Gallery)
}

func TestSession_ScrollSpy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lookahead = 0
	f := newFixture(t, cfg)
	s := f.open(t, "/services#climate-adaptation")
	ctx := context.Background()

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.ScrollTo, "no layout yet")

	layout := []scrollspy.Section{
		{ID: "precision-farming", Top: 0},
		{ID: "irrigation-systems", Top: 500},
		{ID: "climate-adaptation", Top: 1200},
	}
	snap, err = s.ReportLayout(ctx, layout)
	require.NoError(t, err)
	require.NotNil(t, snap.ScrollTo)
	assert.Equal(t, 1100, *snap.ScrollTo)
	assert.Equal(t, "precision-farming", snap.Section, "first section until the visitor scrolls")

	snap, err = s.Scroll(ctx, 600)
	require.NoError(t, err)
	assert.Equal(t, "irrigation-systems", snap.Section)
	assert.Nil(t, snap.ScrollTo)

	_, err = s.ReportLayout(ctx, []scrollspy.Section{{ID: "a", Top: 10}, {ID: "b", Top: 0}})
	require.ErrorIs(t, err, scrollspy.ErrUnorderedLayout)
}

func TestSession_ReportViewportResizesLookahead(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lookahead = 0
	f := newFixture(t, cfg)
	s := f.open(t, "/services")
	ctx := context.Background()

	_, err := s.ReportLayout(ctx, []scrollspy.Section{
		{ID: "precision-farming", Top: 0},
		{ID: "irrigation-systems", Top: 500},
		{ID: "climate-adaptation", Top: 1200},
	})
	require.NoError(t, err)
	snap, err := s.Scroll(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, "precision-farming", snap.Section)

	snap, err = s.ReportViewport(ctx, 900)
	require.NoError(t, err)
	assert.Equal(t, "irrigation-systems", snap.Section)
}

func TestSession_ShowProject(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/projects")
	ctx := context.Background()

	snap, err := s.ShowProject(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewProject, snap.Route.View)
	assert.Equal(t, "/projects/2", snap.Route.Path)
	assert.Equal(t, 2, snap.ProjectID)
	require.NotNil(t, snap.Gallery)
	assert.Equal(t, 2, snap.Gallery.Len)

	snap, err = s.ShowProject(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewNotFound, snap.Route.View)
}

func TestSession_FilterResetsOnRemount(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/projects")
	ctx := context.Background()

	snap, err := s.SelectCategory(ctx, "Water Management")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6}, itemIDs(snap.Visible))
	assert.Equal(t, "Water Management", snap.Category)

	// leaving and coming back before the exit finishes keeps the selection
	_, err = s.Navigate(ctx, "/about")
	require.NoError(t, err)
	snap, err = s.Navigate(ctx, "/projects")
	require.NoError(t, err)
	assert.Equal(t, "Water Management", snap.Category)

	// a full round trip mounts a fresh grid
	_, err = s.Navigate(ctx, "/about")
	require.NoError(t, err)
	f.sched.Advance(transition.DefaultDuration)
	_, err = s.Snapshot(ctx)
	require.NoError(t, err)

	snap, err = s.Navigate(ctx, "/projects")
	require.NoError(t, err)
	assert.Equal(t, catalog.AllCategory, snap.Category)
	assert.Len(t, snap.Visible, 6)
	assert.Equal(t, 1, f.rec.count(EventTypeFilterChanged))
}

func TestSession_ContactForm(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/contact")
	ctx := context.Background()

	snap, err := s.Submit(ctx, contactform.Fields{Email: "grower@example.com"})
	var verr *contactform.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Name is required", snap.Form.Errors["name"])
	assert.Equal(t, contactform.Idle, snap.Form.Phase)

	snap, err = s.Submit(ctx, contactform.Fields{Name: "Elena", Email: "elena@example.com"})
	require.NoError(t, err)
	assert.Equal(t, contactform.Submitting, snap.Form.Phase)
	assert.Empty(t, snap.Form.Errors)

	_, err = s.Submit(ctx, contactform.Fields{Name: "Elena", Email: "elena@example.com"})
	require.ErrorIs(t, err, contactform.ErrBusy)

	f.sched.Advance(contactform.DefaultSubmitDelay)
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, contactform.Success, snap.Form.Phase)
	require.Len(t, f.rec.submissions(), 1)
	assert.Equal(t, "Elena", f.rec.submissions()[0].Fields.Name)

	f.sched.Advance(contactform.DefaultSuccessDelay)
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, contactform.Idle, snap.Form.Phase)
	assert.Equal(t, 1, f.rec.count(EventTypeContactSubmitted))
	assert.Equal(t, 2, f.rec.count(EventTypeContactRejected))
}

func TestSession_SubmitFromAnotherPageNavigatesToContact(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/about")

	snap, err := s.Submit(context.Background(), contactform.Fields{Name: "Marcus", Email: "marcus@example.com"})
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewContact, snap.Route.View)
	assert.Equal(t, contactform.Submitting, snap.Form.Phase)
}

func TestSession_Gallery(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/projects/1")
	ctx := context.Background()

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Gallery)
	assert.Equal(t, 1, snap.ProjectID)
	assert.Equal(t, 3, snap.Gallery.Len)
	assert.Equal(t, "Aerial view of the optimized blocks", snap.Gallery.Image.Caption)

	snap, err = s.GalleryNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Gallery.Index)

	_, err = s.GalleryPrev(ctx)
	require.NoError(t, err)
	snap, err = s.GalleryPrev(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Gallery.Index)

	f.sched.Advance(5 * time.Second)
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Gallery.Index, "auto-advance wraps")

	_, err = s.GalleryShow(ctx, 7)
	require.Error(t, err)

	// another project swaps the slides without a page transition
	snap, err = s.Navigate(ctx, "/projects/4")
	require.NoError(t, err)
	assert.Equal(t, 4, snap.ProjectID)
	assert.Equal(t, 1, snap.Gallery.Len)
	assert.Equal(t, transition.Steady, snap.Transition.Phase)
}

func TestSession_GalleryStopsWhenProjectUnmounts(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/projects/1")
	ctx := context.Background()

	_, err := s.Navigate(ctx, "/")
	require.NoError(t, err)
	f.sched.Advance(transition.DefaultDuration)
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, navigation.ViewHome, snap.Transition.Mounted)
	assert.Nil(t, snap.Gallery)
	assert.Equal(t, 1, f.sched.Pending(), "only the enter timer remains")

	_, err = s.GalleryNext(ctx)
	require.ErrorIs(t, err, ErrNoGallery)
}

func TestSession_InvalidateContent(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/projects")
	ctx := context.Background()

	_, err := s.ReportLayout(ctx, []scrollspy.Section{{ID: "a", Top: 0}})
	require.NoError(t, err)

	updated := content.MustDefault()
	updated.Projects = append(updated.Projects, content.Project{ID: 7, Title: "Prairie Regeneration", Category: "Soil Health"})
	require.NoError(t, f.store.Invalidate(ctx, updated))

	snap, err := s.SelectCategory(ctx, "Soil Health")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5, 7}, itemIDs(snap.Visible))
	assert.Empty(t, snap.Sections)
	assert.Equal(t, 1, f.rec.count(EventTypeContentInvalidated))
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/contact")
	ctx := context.Background()

	_, err := s.Submit(ctx, contactform.Fields{Name: "Sarah", Email: "sarah@example.com"})
	require.NoError(t, err)

	s.Close()
	s.Close()
	assert.Zero(t, f.sched.Pending(), "teardown cancels the form timer")

	_, err = s.Snapshot(ctx)
	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, f.rec.count(EventTypeSessionClosed))

	// a late timer fire is dropped rather than blocking
	f.sched.Advance(time.Hour)
}

func TestSession_ContextCancelled(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Snapshot(ctx)
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestSession_CancelAfterQueueingStillCompletes(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/")

	started, release := make(chan struct{}), make(chan struct{})
	s.post(func() {
		close(started)
		<-release
	})
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		snap Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := s.Navigate(ctx, "/services")
		done <- result{snap, err}
	}()

	require.Eventually(t, func() bool { return len(s.mailbox) == 1 }, time.Second, time.Millisecond)
	cancel()
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, navigation.ViewServices, res.snap.Route.View)
	assert.Equal(t, transition.Exiting, res.snap.Transition.Phase)
}

func TestSession_RetargetReleasesUnmountedGallery(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/about")
	ctx := context.Background()

	snap, err := s.Navigate(ctx, "/projects/1")
	require.NoError(t, err)
	require.NotNil(t, snap.Gallery)
	f.sched.Advance(300 * time.Millisecond)

	snap, err = s.Navigate(ctx, "/contact")
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewAbout, snap.Transition.Mounted)
	assert.Nil(t, snap.Gallery)
	assert.Zero(t, snap.ProjectID)
	assert.Equal(t, 1, f.sched.Pending(), "only the exit timer remains")

	_, err = s.GalleryNext(ctx)
	require.ErrorIs(t, err, ErrNoGallery)

	f.sched.Advance(transition.DefaultDuration)
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewContact, snap.Transition.Mounted)
	assert.Equal(t, 0, f.rec.count(EventTypeGalleryMoved))
}

func TestSession_InvalidateContentRebuildsGallery(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/projects/1")
	ctx := context.Background()

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Gallery)
	assert.Equal(t, 3, snap.Gallery.Len)

	reshot := content.MustDefault()
	for i := range reshot.Projects {
		if reshot.Projects[i].ID == 1 {
			reshot.Projects[i].Gallery = reshot.Projects[i].Gallery[:1]
		}
	}
	require.NoError(t, s.InvalidateContent(ctx, reshot))
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Gallery)
	assert.Equal(t, 1, snap.Gallery.Len)
	assert.Equal(t, 0, snap.Gallery.Index)

	removed := content.MustDefault()
	kept := removed.Projects[:0:0]
	for _, p := range removed.Projects {
		if p.ID != 1 {
			kept = append(kept, p)
		}
	}
	removed.Projects = kept
	require.NoError(t, s.InvalidateContent(ctx, removed))
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Gallery)
	assert.Zero(t, snap.ProjectID)
	assert.Zero(t, f.sched.Pending())

	_, err = s.GalleryNext(ctx)
	require.ErrorIs(t, err, ErrNoGallery)
}

func TestSession_SnapshotDecodesFromJSON(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	s := f.open(t, "/")
	ctx := context.Background()

	_, err := s.Navigate(ctx, "/contact")
	require.NoError(t, err)
	f.sched.Advance(transition.DefaultDuration)
	snap, err := s.Submit(ctx, contactform.Fields{Name: "Ada", Email: "ada@example.com", Message: "Irrigation audit"})
	require.NoError(t, err)
	require.Equal(t, transition.Entering, snap.Transition.Phase)
	require.Equal(t, contactform.Submitting, snap.Form.Phase)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"phase":"entering"`)
	assert.Contains(t, string(raw), `"phase":"submitting"`)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, transition.Entering, decoded.Transition.Phase)
	assert.Equal(t, contactform.Submitting, decoded.Form.Phase)
	assert.Equal(t, navigation.ViewContact, decoded.Route.View)

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))

	var phase transition.Phase
	require.Error(t, json.Unmarshal([]byte(`"fading"`), &phase))
	var formPhase contactform.Phase
	require.Error(t, json.Unmarshal([]byte(`"sent"`), &formPhase))
}
