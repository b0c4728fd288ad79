// Package content holds the site copy: services, projects, team, timeline
// and contact details. The catalog ships embedded and can be replaced by a
// YAML or TOML file that is watched for edits.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/GoCodeAlone/verdant/catalog"
	"github.com/GoCodeAlone/verdant/gallery"
)

//go:embed verdant.yaml
var defaultYAML []byte

var (
	ErrInvalidContent = errors.New("invalid content")
	ErrUnknownFormat  = errors.New("unknown content format")
	ErrProjectMissing = errors.New("project not found")
)

type Hero struct {
	Title     string `yaml:"title" toml:"title" json:"title"`
	Highlight string `yaml:"highlight" toml:"highlight" json:"highlight"`
	Subtitle  string `yaml:"subtitle" toml:"subtitle" json:"subtitle"`
	Image     string `yaml:"image" toml:"image" json:"image"`
}

type Service struct {
	ID       string   `yaml:"id" toml:"id" json:"id"`
	Title    string   `yaml:"title" toml:"title" json:"title"`
	Summary  string   `yaml:"summary" toml:"summary" json:"summary"`
	Body     string   `yaml:"body" toml:"body" json:"body"`
	Features []string `yaml:"features" toml:"features" json:"features"`
	Image    string   `yaml:"image" toml:"image" json:"image"`
}

// Result is a headline number on a project page.
type Result struct {
	Label string `yaml:"label" toml:"label" json:"label"`
	Value string `yaml:"value" toml:"value" json:"value"`
}

type Project struct {
	ID          int             `yaml:"id" toml:"id" json:"id"`
	Title       string          `yaml:"title" toml:"title" json:"title"`
	Category    string          `yaml:"category" toml:"category" json:"category"`
	Image       string          `yaml:"image" toml:"image" json:"image"`
	Featured    bool            `yaml:"featured,omitempty" toml:"featured,omitempty" json:"featured,omitempty"`
	Client      string          `yaml:"client,omitempty" toml:"client,omitempty" json:"client,omitempty"`
	Location    string          `yaml:"location,omitempty" toml:"location,omitempty" json:"location,omitempty"`
	Duration    string          `yaml:"duration,omitempty" toml:"duration,omitempty" json:"duration,omitempty"`
	Description string          `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Solution    string          `yaml:"solution,omitempty" toml:"solution,omitempty" json:"solution,omitempty"`
	Gallery     []gallery.Image `yaml:"gallery,omitempty" toml:"gallery,omitempty" json:"gallery,omitempty"`
	Results     []Result        `yaml:"results,omitempty" toml:"results,omitempty" json:"results,omitempty"`
}

// Slides returns the gallery images, falling back to the cover image.
func (p Project) Slides() []gallery.Image {
	if len(p.Gallery) > 0 {
		return p.Gallery
	}
	if p.Image == "" {
		return nil
	}
	return []gallery.Image{{URL: p.Image, Caption: p.Title}}
}

// Stat is a home page counter such as "150+ Farms Optimized".
type Stat struct {
	Value  int    `yaml:"value" toml:"value" json:"value"`
	Suffix string `yaml:"suffix" toml:"suffix" json:"suffix"`
	Label  string `yaml:"label" toml:"label" json:"label"`
}

type Milestone struct {
	Year  string `yaml:"year" toml:"year" json:"year"`
	Title string `yaml:"title" toml:"title" json:"title"`
	Text  string `yaml:"text" toml:"text" json:"text"`
}

type Member struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Role  string `yaml:"role" toml:"role" json:"role"`
	Image string `yaml:"image" toml:"image" json:"image"`
}

type ContactInfo struct {
	Address []string `yaml:"address" toml:"address" json:"address"`
	Email   []string `yaml:"email" toml:"email" json:"email"`
	Phone   []string `yaml:"phone" toml:"phone" json:"phone"`
}

// Content is the whole site catalog. Treat it as immutable once loaded;
// the Store swaps whole values.
type Content struct {
	Company    string      `yaml:"company" toml:"company" json:"company"`
	Tagline    string      `yaml:"tagline" toml:"tagline" json:"tagline"`
	Hero       Hero        `yaml:"hero" toml:"hero" json:"hero"`
	Services   []Service   `yaml:"services" toml:"services" json:"services"`
	Categories []string    `yaml:"categories" toml:"categories" json:"categories"`
	Projects   []Project   `yaml:"projects" toml:"projects" json:"projects"`
	Stats      []Stat      `yaml:"stats" toml:"stats" json:"stats"`
	Story      []string    `yaml:"story" toml:"story" json:"story"`
	Timeline   []Milestone `yaml:"timeline" toml:"timeline" json:"timeline"`
	Team       []Member    `yaml:"team" toml:"team" json:"team"`
	Contact    ContactInfo `yaml:"contact" toml:"contact" json:"contact"`
}

// Items projects the projects onto the filterable grid.
func (c *Content) Items() []catalog.Item {
	items := make([]catalog.Item, len(c.Projects))
	for i, p := range c.Projects {
		items[i] = catalog.Item{ID: p.ID, Title: p.Title, Category: p.Category, Image: p.Image}
	}
	return items
}

func (c *Content) Project(id int) (Project, error) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: %d", ErrProjectMissing, id)
}

// Featured returns the projects flagged for the home page.
func (c *Content) Featured() []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// SectionIDs lists the service anchors in page order.
func (c *Content) SectionIDs() []string {
	ids := make([]string, len(c.Services))
	for i, s := range c.Services {
		ids[i] = s.ID
	}
	return ids
}

// Validate checks the cross references a page relies on.
func (c *Content) Validate() error {
	var errs []error

	seenService := make(map[string]bool, len(c.Services))
	for i, s := range c.Services {
		switch {
		case s.ID == "":
			errs = append(errs, fmt.Errorf("service %d has no id", i))
		case seenService[s.ID]:
			errs = append(errs, fmt.Errorf("duplicate service id %q", s.ID))
		}
		seenService[s.ID] = true
	}

	seenProject := make(map[int]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.ID <= 0 {
			errs = append(errs, fmt.Errorf("project %q has non-positive id %d", p.Title, p.ID))
		}
		if seenProject[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate project id %d", p.ID))
		}
		seenProject[p.ID] = true
		if !slices.Contains(c.Categories, p.Category) {
			errs = append(errs, fmt.Errorf("project %d has undeclared category %q", p.ID, p.Category))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidContent, errors.Join(errs...))
	}
	return nil
}

// Default decodes the embedded catalog.
func Default() (*Content, error) {
	return Decode(defaultYAML, FormatYAML)
}

// MustDefault is Default for package initialisation and tests.
func MustDefault() *Content {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("content: embedded catalog: %v", err))
	}
	return c
}
