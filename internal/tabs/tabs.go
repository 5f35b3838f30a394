// Package tabs implements the tab container used by the paddock dashboard.
//
// A Container holds a fixed, ordered set of labeled panes and exposes
// exactly one of them at a time. It knows nothing about terminals or
// styling: callers render the control strip returned by Controls and the
// payload returned by Content however they like.
package tabs

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned by New when the tab set is empty or
// two tabs share a label.
var ErrInvalidConfiguration = errors.New("invalid tab configuration")

// Tab is one selectable pane. Content is owned by the caller and is never
// inspected by the container.
type Tab[C any] struct {
	Label   string
	Title   string
	Content C
}

// Control describes one entry of the control strip.
type Control struct {
	Label  string
	Title  string
	Active bool
}

// Container is a single-selection tab set. The zero value is not usable;
// build one with New.
type Container[C any] struct {
	tabs        []Tab[C]
	activeLabel string
}

// New builds a container from tabs, in order, with the first tab active.
func New[C any](tabs ...Tab[C]) (*Container[C], error) {
	if len(tabs) == 0 {
		return nil, fmt.Errorf("%w: no tabs", ErrInvalidConfiguration)
	}

	seen := make(map[string]int, len(tabs))
	for i, t := range tabs {
		if prev, ok := seen[t.Label]; ok {
			return nil, fmt.Errorf("%w: label %q used by tabs %d and %d",
				ErrInvalidConfiguration, t.Label, prev, i)
		}
		seen[t.Label] = i
	}

	owned := make([]Tab[C], len(tabs))
	copy(owned, tabs)

	return &Container[C]{
		tabs:        owned,
		activeLabel: owned[0].Label,
	}, nil
}

// Select makes the tab with the given label active. Selecting the active
// tab is a no-op. Unknown labels leave the selection untouched and report
// false.
func (c *Container[C]) Select(label string) bool {
	if c.indexOf(label) < 0 {
		return false
	}
	c.activeLabel = label
	return true
}

// SelectIndex selects the tab at position i.
func (c *Container[C]) SelectIndex(i int) bool {
	if i < 0 || i >= len(c.tabs) {
		return false
	}
	return c.Select(c.tabs[i].Label)
}

// Next selects the tab after the active one, wrapping to the first.
func (c *Container[C]) Next() {
	i := c.Index()
	c.SelectIndex((i + 1) % len(c.tabs))
}

// Prev selects the tab before the active one, wrapping to the last.
func (c *Container[C]) Prev() {
	i := c.Index()
	if i <= 0 {
		i = len(c.tabs)
	}
	c.SelectIndex(i - 1)
}

// ActiveLabel returns the label of the visible tab.
func (c *Container[C]) ActiveLabel() string {
	return c.activeLabel
}

// Index returns the position of the active tab, or -1 if none matches.
func (c *Container[C]) Index() int {
	return c.indexOf(c.activeLabel)
}

// Active returns the visible tab. The boolean is false only when no tab
// carries the active label, in which case the content region is empty.
func (c *Container[C]) Active() (Tab[C], bool) {
	i := c.Index()
	if i < 0 {
		return Tab[C]{}, false
	}
	return c.tabs[i], true
}

// Content returns the payload of the visible tab.
func (c *Container[C]) Content() (C, bool) {
	t, ok := c.Active()
	return t.Content, ok
}

// Controls returns the control strip in construction order. Exactly one
// control is marked active.
func (c *Container[C]) Controls() []Control {
	out := make([]Control, len(c.tabs))
	for i, t := range c.tabs {
		out[i] = Control{
			Label:  t.Label,
			Title:  t.Title,
			Active: t.Label == c.activeLabel,
		}
	}
	return out
}

// Tabs returns a copy of the tab set.
func (c *Container[C]) Tabs() []Tab[C] {
	out := make([]Tab[C], len(c.tabs))
	copy(out, c.tabs)
	return out
}

// Len returns the number of tabs.
func (c *Container[C]) Len() int {
	return len(c.tabs)
}

func (c *Container[C]) indexOf(label string) int {
	for i, t := range c.tabs {
		if t.Label == label {
			return i
		}
	}
	return -1
}
