// Package transition sequences page transitions: the outgoing view fully
// exits before the incoming view enters, and the two never overlap.
//
// A navigation that arrives mid-transition abandons the in-flight one and
// continues from the current visual state instead of restarting, so rapid
// clicking never leaves a half-faded view on screen or a timer stuck.
package transition

import (
	"fmt"
	"math"
	"time"

	"github.com/GoCodeAlone/verdant"
	"github.com/GoCodeAlone/verdant/navigation"
)

// DefaultDuration is the length of each half of a page transition.
const DefaultDuration = 700 * time.Millisecond

// Phase is the step of the exit-then-enter sequence.
type Phase int

const (
	Steady Phase = iota
	Exiting
	Entering
)

func (p Phase) String() string {
	switch p {
	case Steady:
		return "steady"
	case Exiting:
		return "exiting"
	case Entering:
		return "entering"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON snapshots.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the names MarshalText produces.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{Steady, Exiting, Entering} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("transition phase %q: unknown", text)
}

// State is what the view layer renders.
//
// Mounted is the view currently on screen, Current the view the user asked
// for last. They differ only while the old view is exiting. Visibility is
// the mounted view's opacity in [0,1].
type State struct {
	Current    navigation.ViewID `json:"current"`
	Previous   navigation.ViewID `json:"previous,omitempty"`
	Mounted    navigation.ViewID `json:"mounted"`
	Phase      Phase             `json:"phase"`
	Visibility float64           `json:"visibility"`
	Generation uint64            `json:"generation"`
}

// Option configures a Player.
type Option func(*Player)

// WithDurations sets the exit and enter durations.
func WithDurations(exit, enter time.Duration) Option {
	return func(p *Player) {
		if exit >= 0 {
			p.exit = exit
		}
		if enter >= 0 {
			p.enter = enter
		}
	}
}

// WithObserver registers fn to receive every state change.
func WithObserver(fn func(State)) Option {
	return func(p *Player) {
		p.observe = fn
	}
}

// Player drives one transition at a time. It is not safe for concurrent
// use; callers serialize Navigate with the scheduler's callbacks.
type Player struct {
	sched   verdant.Scheduler
	exit    time.Duration
	enter   time.Duration
	observe func(State)

	current  navigation.ViewID
	previous navigation.ViewID
	mounted  navigation.ViewID
	phase    Phase

	// visibility at phaseStart; the phase moves it linearly toward 0 or 1
	from       float64
	phaseStart time.Time

	gen    uint64
	token  uint64
	cancel verdant.Cancel
	closed bool
}

// NewPlayer returns a steady Player showing initial.
func NewPlayer(sched verdant.Scheduler, initial navigation.ViewID, opts ...Option) *Player {
	p := &Player{
		sched:   sched,
		exit:    DefaultDuration,
		enter:   DefaultDuration,
		current: initial,
		mounted: initial,
		phase:   Steady,
		from:    1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Navigate requests a transition to view. It reports whether anything
// changed; asking for the view already requested is a no-op.
func (p *Player) Navigate(view navigation.ViewID) bool {
	if p.closed || view == p.current {
		return false
	}

	switch p.phase {
	case Steady:
		p.previous = p.mounted
		p.current = view
		p.begin(Exiting, 1)

	case Exiting:
		if view == p.mounted {
			// the old view is still on screen: fade it back in from here
			v := p.visibility()
			p.current = view
			p.begin(Entering, v)
			return true
		}
		// keep fading out the mounted view; only the destination moves
		p.current = view
		p.gen++
		p.notify()

	case Entering:
		v := p.visibility()
		p.previous = p.mounted
		p.current = view
		p.begin(Exiting, v)
	}
	return true
}

// State returns the current transition state.
func (p *Player) State() State {
	return State{
		Current:    p.current,
		Previous:   p.previous,
		Mounted:    p.mounted,
		Phase:      p.phase,
		Visibility: p.visibility(),
		Generation: p.gen,
	}
}

// Interactive reports whether view is on screen and not on its way out.
func (p *Player) Interactive(view navigation.ViewID) bool {
	return view == p.mounted && p.phase != Exiting
}

// Active reports whether a transition is in flight.
func (p *Player) Active() bool {
	return p.phase != Steady
}

// Close cancels any pending phase timer. Further navigation is ignored.
func (p *Player) Close() {
	p.closed = true
	p.stopTimer()
}

func (p *Player) begin(phase Phase, from float64) {
	p.stopTimer()
	p.phase = phase
	p.from = from
	p.phaseStart = p.sched.Now()
	p.gen++
	p.token++

	var remaining time.Duration
	switch phase {
	case Exiting:
		remaining = scale(p.exit, from)
	case Entering:
		remaining = scale(p.enter, 1-from)
	}

	token := p.token
	p.cancel = p.sched.After(remaining, func() { p.fire(token) })
	p.notify()
}

func (p *Player) fire(token uint64) {
	// a navigation may have superseded this timer after it was queued
	if p.closed || token != p.token {
		return
	}
	p.cancel = nil

	switch p.phase {
	case Exiting:
		p.mounted = p.current
		p.begin(Entering, 0)
	case Entering:
		p.phase = Steady
		p.from = 1
		p.gen++
		p.notify()
	}
}

func (p *Player) visibility() float64 {
	if p.phase == Steady {
		return 1
	}
	elapsed := p.sched.Now().Sub(p.phaseStart)
	switch p.phase {
	case Exiting:
		return clamp(p.from - ratio(elapsed, p.exit))
	case Entering:
		return clamp(p.from + ratio(elapsed, p.enter))
	}
	return 1
}

func (p *Player) stopTimer() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Player) notify() {
	if p.observe != nil {
		p.observe(p.State())
	}
}

func scale(d time.Duration, f float64) time.Duration {
	return time.Duration(math.Round(float64(d) * clamp(f)))
}

func ratio(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return float64(elapsed) / float64(total)
}

func clamp(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
