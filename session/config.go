package session

import (
	"time"

	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/gallery"
	"github.com/GoCodeAlone/verdant/scrollspy"
	"github.com/GoCodeAlone/verdant/transition"
)

// Config carries the per-session timings.
type Config struct {
	Lookahead       int
	ExitDuration    time.Duration
	EnterDuration   time.Duration
	SubmitDelay     time.Duration
	SuccessDelay    time.Duration
	GalleryInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Lookahead:       scrollspy.DefaultLookahead,
		ExitDuration:    transition.DefaultDuration,
		EnterDuration:   transition.DefaultDuration,
		SubmitDelay:     contactform.DefaultSubmitDelay,
		SuccessDelay:    contactform.DefaultSuccessDelay,
		GalleryInterval: gallery.DefaultInterval,
	}
}
