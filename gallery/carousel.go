// Package gallery implements the project image carousel.
package gallery

import (
	"errors"
	"fmt"
	"time"

	"github.com/GoCodeAlone/verdant"
)

// DefaultInterval between automatic advances.
const DefaultInterval = 5 * time.Second

var ErrIndexOutOfRange = errors.New("gallery index out of range")

// Image is one slide.
type Image struct {
	URL     string `json:"url" yaml:"url" toml:"url"`
	Caption string `json:"caption" yaml:"caption" toml:"caption"`
}

type Option func(*Carousel)

// WithInterval overrides DefaultInterval. Zero disables auto-advance.
func WithInterval(d time.Duration) Option {
	return func(c *Carousel) {
		c.interval = d
	}
}

// WithObserver is called with the new index after every move.
func WithObserver(fn func(index int)) Option {
	return func(c *Carousel) {
		c.observe = fn
	}
}

// Carousel cycles through images. Moving by hand restarts the interval so
// a slide the visitor picked stays up for a full period.
type Carousel struct {
	sched    verdant.Scheduler
	images   []Image
	interval time.Duration
	observe  func(int)

	index  int
	cancel verdant.Cancel
	token  uint64
	closed bool
}

// New starts auto-advancing right away when there is more than one image.
func New(sched verdant.Scheduler, images []Image, opts ...Option) *Carousel {
	c := &Carousel{
		sched:    sched,
		images:   append([]Image(nil), images...),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.arm()
	return c
}

func (c *Carousel) Next() int {
	return c.move(1)
}

func (c *Carousel) Prev() int {
	return c.move(-1)
}

// Show jumps to slide i.
func (c *Carousel) Show(i int) error {
	if i < 0 || i >= len(c.images) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.images))
	}
	c.set(i)
	c.arm()
	return nil
}

func (c *Carousel) Index() int {
	return c.index
}

func (c *Carousel) Len() int {
	return len(c.images)
}

// Current returns the slide on display; ok is false for an empty gallery.
func (c *Carousel) Current() (img Image, ok bool) {
	if len(c.images) == 0 {
		return Image{}, false
	}
	return c.images[c.index], true
}

// Images returns a copy of the slides.
func (c *Carousel) Images() []Image {
	return append([]Image(nil), c.images...)
}

// Close stops auto-advance.
func (c *Carousel) Close() {
	c.closed = true
	c.disarm()
}

func (c *Carousel) move(delta int) int {
	n := len(c.images)
	if n == 0 {
		return 0
	}
	c.set(((c.index+delta)%n + n) % n)
	c.arm()
	return c.index
}

func (c *Carousel) set(i int) {
	if i == c.index {
		return
	}
	c.index = i
	if c.observe != nil {
		c.observe(i)
	}
}

func (c *Carousel) arm() {
	c.disarm()
	if c.closed || c.interval <= 0 || len(c.images) < 2 {
		return
	}
	c.token++
	token := c.token
	c.cancel = c.sched.After(c.interval, func() {
		if token != c.token || c.closed {
			return
		}
		c.cancel = nil
		c.move(1)
	})
}

func (c *Carousel) disarm() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
