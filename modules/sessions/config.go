package sessions

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GoCodeAlone/verdant/session"
)

// SessionsConfig holds the session lifetime and the per-session timings.
//
// Example YAML configuration:
//
//	sessions:
//	  ttl: 30m
//	  sweep_schedule: "@every 1m"
//	  cookie_name: verdant_session
//	  exit_duration: 700ms
//	  enter_duration: 700ms
type SessionsConfig struct {
	TTL           time.Duration `yaml:"ttl" toml:"ttl" default:"30m" desc:"Idle time after which a session is evicted." env:"SESSION_TTL"`
	SweepSchedule string        `yaml:"sweep_schedule" toml:"sweep_schedule" default:"@every 1m" desc:"Cron schedule of the idle-session sweep." env:"SESSION_SWEEP_SCHEDULE"`
	CookieName    string        `yaml:"cookie_name" toml:"cookie_name" default:"verdant_session" desc:"Name of the session cookie." env:"SESSION_COOKIE_NAME"`

	// Lookahead is the scroll-spy lookahead in pixels.
	Lookahead int `yaml:"lookahead" toml:"lookahead" default:"300" desc:"Scroll-spy lookahead in pixels." env:"SESSION_LOOKAHEAD"`

	ExitDuration    time.Duration `yaml:"exit_duration" toml:"exit_duration" default:"700ms" desc:"View exit animation length." env:"SESSION_EXIT_DURATION"`
	EnterDuration   time.Duration `yaml:"enter_duration" toml:"enter_duration" default:"700ms" desc:"View enter animation length." env:"SESSION_ENTER_DURATION"`
	SubmitDelay     time.Duration `yaml:"submit_delay" toml:"submit_delay" default:"1500ms" desc:"Simulated contact submission time." env:"SESSION_SUBMIT_DELAY"`
	SuccessDelay    time.Duration `yaml:"success_delay" toml:"success_delay" default:"3s" desc:"How long the success state shows." env:"SESSION_SUCCESS_DELAY"`
	GalleryInterval time.Duration `yaml:"gallery_interval" toml:"gallery_interval" default:"5s" desc:"Project gallery auto-advance interval." env:"SESSION_GALLERY_INTERVAL"`
}

func defaultConfig() *SessionsConfig {
	d := session.DefaultConfig()
	return &SessionsConfig{
		TTL:             session.DefaultTTL,
		SweepSchedule:   session.DefaultSweepSchedule,
		CookieName:      DefaultCookieName,
		Lookahead:       d.Lookahead,
		ExitDuration:    d.ExitDuration,
		EnterDuration:   d.EnterDuration,
		SubmitDelay:     d.SubmitDelay,
		SuccessDelay:    d.SuccessDelay,
		GalleryInterval: d.GalleryInterval,
	}
}

// Validate implements modular.ConfigValidator.
func (c *SessionsConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, c.TTL)
	}
	if c.CookieName == "" {
		return ErrMissingCookieName
	}
	if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
		return fmt.Errorf("%w %q: %w", session.ErrInvalidSchedule, c.SweepSchedule, err)
	}
	for name, d := range map[string]time.Duration{
		"exit_duration":    c.ExitDuration,
		"enter_duration":   c.EnterDuration,
		"submit_delay":     c.SubmitDelay,
		"success_delay":    c.SuccessDelay,
		"gallery_interval": c.GalleryInterval,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s=%s", ErrInvalidDuration, name, d)
		}
	}
	return nil
}

// Session converts the section into the per-session settings.
func (c *SessionsConfig) Session() session.Config {
	return session.Config{
		Lookahead:       c.Lookahead,
		ExitDuration:    c.ExitDuration,
		EnterDuration:   c.EnterDuration,
		SubmitDelay:     c.SubmitDelay,
		SuccessDelay:    c.SuccessDelay,
		GalleryInterval: c.GalleryInterval,
	}
}
