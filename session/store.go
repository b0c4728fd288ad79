package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/GoCodeAlone/verdant"
	"github.com/GoCodeAlone/verdant/content"
	"github.com/GoCodeAlone/verdant/navigation"
)

const (
	DefaultTTL           = 30 * time.Minute
	DefaultSweepSchedule = "@every 1m"
)

var (
	ErrUnknownSession  = errors.New("unknown session")
	ErrSweeperRunning  = errors.New("session sweeper already running")
	ErrInvalidSchedule = errors.New("invalid sweep schedule")
)

// Store owns every live session. Sessions idle for longer than the TTL are
// evicted by Sweep, which a cron job runs on a schedule.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	catalog *content.Store
	deps    Deps
	ttl     time.Duration
	cron    *cron.Cron
}

// NewStore creates an empty store. New sessions read the current catalog
// from catalog at creation time.
func NewStore(catalog *content.Store, deps Deps, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if deps.Table == nil {
		deps.Table = navigation.DefaultTable()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = verdant.NewTimerScheduler()
	}
	return &Store{
		sessions: make(map[string]*Session),
		catalog:  catalog,
		deps:     deps,
		ttl:      ttl,
	}
}

// Get returns the live session for id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return s, nil
}

// GetOrCreate returns the session for id, or starts a new one on
// initialPath when id is empty or unknown. created reports which.
func (st *Store) GetOrCreate(id, initialPath string) (s *Session, created bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok {
		return s, false
	}
	// never trust a client-chosen id for a new session
	newID := uuid.NewString()
	s = New(newID, st.catalog.Load(), initialPath, st.deps)
	st.sessions[newID] = s
	return s, true
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Each calls fn for a point-in-time copy of the live sessions.
func (st *Store) Each(fn func(*Session)) {
	for _, s := range st.list() {
		fn(s)
	}
}

// Invalidate pushes a reloaded catalog to every live session.
func (st *Store) Invalidate(ctx context.Context, c *content.Content) error {
	var errs []error
	st.Each(func(s *Session) {
		if err := s.InvalidateContent(ctx, c); err != nil && !errors.Is(err, ErrClosed) {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// Sweep evicts sessions idle past the TTL and returns how many it closed.
func (st *Store) Sweep() int {
	cutoff := st.deps.Scheduler.Now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
		st.publish(EventTypeSessionEvicted, map[string]any{"session_id": s.ID(), "idle_since": s.LastSeen()})
	}
	return len(expired)
}

// StartSweeper runs Sweep on a cron schedule such as "@every 1m".
func (st *Store) StartSweeper(schedule string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cron != nil {
		return ErrSweeperRunning
	}
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { st.Sweep() }); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, schedule, err)
	}
	c.Start()
	st.cron = c
	return nil
}

// StopSweeper stops the cron job and waits for a running sweep to finish.
func (st *Store) StopSweeper() {
	st.mu.Lock()
	c := st.cron
	st.cron = nil
	st.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// Close stops the sweeper and closes every session.
func (st *Store) Close() {
	st.StopSweeper()

	st.mu.Lock()
	all := make([]*Session, 0, len(st.sessions))
	for id, s := range st.sessions {
		all = append(all, s)
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

func (st *Store) list() []*Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	return out
}

func (st *Store) publish(eventType string, data map[string]any) {
	if st.deps.Publish != nil {
		st.deps.Publish(eventType, data)
	}
}
