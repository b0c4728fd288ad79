// Package contactform simulates the contact form submission: a short
// "sending" delay, a success banner, then back to an empty form.
package contactform

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GoCodeAlone/verdant"
)

const (
	DefaultSubmitDelay  = 1500 * time.Millisecond
	DefaultSuccessDelay = 3000 * time.Millisecond
)

var (
	// ErrBusy is returned when a submission arrives while one is in flight
	// or its success banner is still showing.
	ErrBusy   = errors.New("contact form is busy")
	ErrClosed = errors.New("contact form is closed")
)

// Phase of the submission state machine.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Success
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{Idle, Submitting, Success} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("contact form phase %q: unknown", text)
}

// ButtonLabel is the submit button text for the phase.
func (p Phase) ButtonLabel() string {
	switch p {
	case Submitting:
		return "Sending..."
	case Success:
		return "Message Sent!"
	default:
		return "Send Message"
	}
}

// Fields are the form inputs. Only name and email are required.
type Fields struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required"`
	Company string `json:"company,omitempty" form:"company"`
	Message string `json:"message,omitempty" form:"message"`
}

// Submission is handed to the submitted handler when the form reaches
// Success. Its fields are stripped of markup.
type Submission struct {
	ID     uuid.UUID `json:"id"`
	Fields Fields    `json:"fields"`
	At     time.Time `json:"at"`
}

// State is a copy of the form as the view layer renders it.
type State struct {
	Phase        Phase             `json:"phase"`
	Fields       Fields            `json:"fields"`
	Errors       map[string]string `json:"errors,omitempty"`
	SubmissionID string            `json:"submission_id,omitempty"`
}

// Option configures a Form.
type Option func(*Form)

// WithDelays overrides the submitting and success durations.
func WithDelays(submit, success time.Duration) Option {
	return func(f *Form) {
		f.submitDelay = submit
		f.successDelay = success
	}
}

// WithObserver is called with every state change.
func WithObserver(fn func(State)) Option {
	return func(f *Form) {
		f.observe = fn
	}
}

// WithSubmittedHandler is called once per accepted submission, on entering
// Success.
func WithSubmittedHandler(fn func(Submission)) Option {
	return func(f *Form) {
		f.submitted = fn
	}
}

// Form is not safe for concurrent use.
type Form struct {
	sched        verdant.Scheduler
	submitDelay  time.Duration
	successDelay time.Duration
	observe      func(State)
	submitted    func(Submission)

	phase   Phase
	fields  Fields
	errs    map[string]string
	pending *Submission

	cancel verdant.Cancel
	closed bool
}

func New(sched verdant.Scheduler, opts ...Option) *Form {
	f := &Form{
		sched:        sched,
		submitDelay:  DefaultSubmitDelay,
		successDelay: DefaultSuccessDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit validates in and, when valid, starts the submission. Invalid input
// stays in the form alongside the per-field errors and the phase stays
// Idle; the returned error is a *ValidationError.
func (f *Form) Submit(in Fields) (State, error) {
	if f.closed {
		return f.State(), ErrClosed
	}
	if f.phase != Idle {
		return f.State(), ErrBusy
	}

	f.fields = in
	if err := validateFields(in); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			f.errs = verr.Fields
		}
		f.notify()
		return f.State(), err
	}

	f.errs = nil
	f.pending = &Submission{ID: uuid.New(), Fields: sanitize(in)}
	f.transition(Submitting, f.submitDelay)
	return f.State(), nil
}

// State returns a copy of the current form state.
func (f *Form) State() State {
	st := State{Phase: f.phase, Fields: f.fields}
	if len(f.errs) > 0 {
		st.Errors = make(map[string]string, len(f.errs))
		for k, v := range f.errs {
			st.Errors[k] = v
		}
	}
	if f.pending != nil {
		st.SubmissionID = f.pending.ID.String()
	}
	return st
}

// Close cancels any pending phase timer.
func (f *Form) Close() {
	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *Form) transition(to Phase, after time.Duration) {
	f.phase = to
	f.cancel = f.sched.After(after, f.advance)
	f.notify()
}

func (f *Form) advance() {
	if f.closed {
		return
	}
	f.cancel = nil

	switch f.phase {
	case Submitting:
		sub := *f.pending
		sub.At = f.sched.Now()
		// the browser form resets once the message is sent
		f.fields = Fields{}
		f.transition(Success, f.successDelay)
		if f.submitted != nil {
			f.submitted(sub)
		}
	case Success:
		f.phase = Idle
		f.pending = nil
		f.notify()
	}
}

func (f *Form) notify() {
	if f.observe != nil {
		f.observe(f.State())
	}
}
