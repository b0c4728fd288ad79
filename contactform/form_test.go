package contactform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/verdant"
)

func newTestForm(t *testing.T, opts ...Option) (*Form, *verdant.ManualScheduler) {
	t.Helper()
	sched := verdant.NewManualScheduler(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC))
	return New(sched, opts...), sched
}

func TestForm_MissingName(t *testing.T) {
	f, sched := newTestForm(t)

	st, err := f.Submit(Fields{Email: "grower@example.com"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"name": "Name is required"}, verr.Fields)
	assert.Equal(t, Idle, st.Phase)
	assert.Equal(t, "grower@example.com", st.Fields.Email, "input is kept")
	assert.Zero(t, sched.Pending())
}

func TestForm_MissingBoth(t *testing.T) {
	f, _ := newTestForm(t)

	st, err := f.Submit(Fields{Message: "hello"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"name":  "Name is required",
		"email": "Email is required",
	}, st.Errors)
	assert.Equal(t, "invalid contact form: Email is required; Name is required", err.Error())
}

func TestForm_FullCycle(t *testing.T) {
	var phases []Phase
	var got []Submission
	f, sched := newTestForm(t,
		WithObserver(func(s State) { phases = append(phases, s.Phase) }),
		WithSubmittedHandler(func(s Submission) { got = append(got, s) }),
	)

	_, err := f.Submit(Fields{Email: "x@y.z"})
	require.Error(t, err)

	st, err := f.Submit(Fields{Name: "Ana", Email: "ana@farm.co", Message: "<b>Soil</b> test"})
	require.NoError(t, err)
	assert.Equal(t, Submitting, st.Phase)
	assert.Empty(t, st.Errors, "errors clear on submit")
	assert.NotEmpty(t, st.SubmissionID)
	assert.Equal(t, "Sending...", st.Phase.ButtonLabel())

	sched.Advance(DefaultSubmitDelay - time.Millisecond)
	assert.Equal(t, Submitting, f.State().Phase)
	sched.Advance(time.Millisecond)

	st = f.State()
	assert.Equal(t, Success, st.Phase)
	assert.Equal(t, Fields{}, st.Fields, "form resets on success")
	require.Len(t, got, 1)
	assert.Equal(t, "Soil test", got[0].Fields.Message)
	assert.Equal(t, st.SubmissionID, got[0].ID.String())

	sched.Advance(DefaultSuccessDelay)
	st = f.State()
	assert.Equal(t, Idle, st.Phase)
	assert.Empty(t, st.Errors)
	assert.Empty(t, st.SubmissionID)

	assert.Equal(t, []Phase{Idle, Submitting, Success, Idle}, phases)
}

func TestForm_BusyWhileInFlight(t *testing.T) {
	f, sched := newTestForm(t, WithDelays(10*time.Millisecond, 20*time.Millisecond))
	valid := Fields{Name: "Ana", Email: "ana@farm.co"}

	_, err := f.Submit(valid)
	require.NoError(t, err)
	_, err = f.Submit(valid)
	require.ErrorIs(t, err, ErrBusy)

	sched.Advance(10 * time.Millisecond)
	_, err = f.Submit(valid)
	require.ErrorIs(t, err, ErrBusy)

	sched.Advance(20 * time.Millisecond)
	_, err = f.Submit(valid)
	require.NoError(t, err)
}

func TestForm_Close(t *testing.T) {
	f, sched := newTestForm(t)
	_, err := f.Submit(Fields{Name: "Ana", Email: "ana@farm.co"})
	require.NoError(t, err)

	f.Close()
	assert.Zero(t, sched.Pending())
	_, err = f.Submit(Fields{Name: "Ana", Email: "ana@farm.co"})
	require.ErrorIs(t, err, ErrClosed)
}

func TestPhase_ButtonLabel(t *testing.T) {
	assert.Equal(t, "Send Message", Idle.ButtonLabel())
	assert.Equal(t, "Sending...", Submitting.ButtonLabel())
	assert.Equal(t, "Message Sent!", Success.ButtonLabel())
}

func TestSanitize_KeepsPlainText(t *testing.T) {
	out := sanitize(Fields{Name: "David O'Connor", Company: "Oak & Vine Estate", Message: "<script>x()</script>Hi"})
	assert.Equal(t, "David O'Connor", out.Name)
	assert.Equal(t, "Oak & Vine Estate", out.Company)
	assert.Equal(t, "Hi", out.Message)
}
