// Package catalog filters the project grid by category.
package catalog

// AllCategory selects every item.
const AllCategory = "All"

// Item is one entry of the project grid.
type Item struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
}

// Chip is a category button in the filter bar.
type Chip struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Apply returns the items in category c, in their original order. "All"
// returns every item and an unknown category returns none.
func Apply(items []Item, c string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if c == AllCategory || it.Category == c {
			out = append(out, it)
		}
	}
	return out
}

// Chips renders the filter bar. "All" always comes first, even when the
// category list does not declare it.
func Chips(categories []string, selected string) []Chip {
	chips := make([]Chip, 0, len(categories)+1)
	chips = append(chips, Chip{Name: AllCategory, Active: selected == AllCategory})
	for _, c := range categories {
		if c == AllCategory {
			continue
		}
		chips = append(chips, Chip{Name: c, Active: c == selected})
	}
	return chips
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithSelection sets the initial category.
func WithSelection(c string) FilterOption {
	return func(f *Filter) {
		f.selected = c
	}
}

// WithObserver is called with the selected category and visible items on
// every selection change.
func WithObserver(fn func(selected string, visible []Item)) FilterOption {
	return func(f *Filter) {
		f.observe = fn
	}
}

// Filter holds the selected category and the items it shows.
type Filter struct {
	items    []Item
	selected string
	visible  []Item
	observe  func(string, []Item)
}

func NewFilter(items []Item, opts ...FilterOption) *Filter {
	f := &Filter{
		items:    append([]Item(nil), items...),
		selected: AllCategory,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.visible = Apply(f.items, f.selected)
	return f
}

// SelectCategory changes the selection and returns the visible items.
func (f *Filter) SelectCategory(c string) []Item {
	if c == "" {
		c = AllCategory
	}
	changed := c != f.selected
	f.selected = c
	f.visible = Apply(f.items, c)
	if changed && f.observe != nil {
		f.observe(f.selected, f.Visible())
	}
	return f.Visible()
}

func (f *Filter) Selected() string {
	return f.selected
}

// Visible returns a copy of the items shown under the current selection.
func (f *Filter) Visible() []Item {
	return append([]Item(nil), f.visible...)
}

// All returns a copy of the unfiltered items.
func (f *Filter) All() []Item {
	return append([]Item(nil), f.items...)
}

// Replace swaps the item list, keeping the selection.
func (f *Filter) Replace(items []Item) {
	f.items = append([]Item(nil), items...)
	f.visible = Apply(f.items, f.selected)
}
