// Package focus keeps track of the single item opened in the viewer and
// moves it cyclically through the current item list.
package focus

import (
	"sync"

	"albumview/pkg/types"
)

// Controller holds the current item list and the focused item, if any.
// The focused item is always a member of the current list.
type Controller struct {
	mu      sync.Mutex
	list    types.ItemList
	current *types.Item
	onClear func()
}

// New creates a controller with an empty list. onClear, if not nil, runs
// every time focus goes from an item back to none.
func New(onClear func()) *Controller {
	return &Controller{onClear: onClear}
}

// Current returns the focused item and whether there is one.
func (c *Controller) Current() (types.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return types.Item{}, false
	}
	return *c.current, true
}

// List returns the current item list.
func (c *Controller) List() types.ItemList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

// Toggle focuses item, or clears focus when item is already focused. Items
// that are not in the current list are ignored.
func (c *Controller) Toggle(item types.Item) (types.Item, bool) {
	c.mu.Lock()
	if c.current != nil && c.current.Path == item.Path {
		c.current = nil
		c.mu.Unlock()
		c.cleared()
		return types.Item{}, false
	}
	idx := c.list.IndexOf(item.Path)
	if idx < 0 {
		defer c.mu.Unlock()
		if c.current == nil {
			return types.Item{}, false
		}
		return *c.current, true
	}
	it := c.list.At(idx)
	c.current = &it
	c.mu.Unlock()
	return it, true
}

// Clear drops focus.
func (c *Controller) Clear() {
	c.mu.Lock()
	had := c.current != nil
	c.current = nil
	c.mu.Unlock()
	if had {
		c.cleared()
	}
}

// Navigate moves focus by offset positions, wrapping at both ends. It does
// nothing when no item is focused or the focused item left the list.
func (c *Controller) Navigate(offset int) (types.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return types.Item{}, false
	}
	n := c.list.Len()
	idx := c.list.IndexOf(c.current.Path)
	if n == 0 || idx < 0 {
		return *c.current, true
	}
	next := Wrap(idx, offset, n)
	it := c.list.At(next)
	c.current = &it
	return it, true
}

// Rebuild installs a new list. Focus is cleared first so it can never refer
// to an item of the previous list.
func (c *Controller) Rebuild(list types.ItemList) {
	c.Clear()
	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
}

func (c *Controller) cleared() {
	if c.onClear != nil {
		c.onClear()
	}
}

// Wrap returns (index + offset) modulo n, always in [0, n).
func Wrap(index, offset, n int) int {
	if n <= 0 {
		return 0
	}
	return ((index+offset%n)%n + n) % n
}
