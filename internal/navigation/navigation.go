// Package navigation owns the current root path and its listing. Every
// navigation rebuilds the item list and puts focus, viewer and selection
// back to their initial state.
package navigation

import (
	"context"
	"sync"

	"albumview/internal/errors"
	"albumview/internal/focus"
	"albumview/internal/listing"
	"albumview/internal/log"
	"albumview/internal/paths"
	"albumview/internal/selection"
	"albumview/internal/viewer"
	"albumview/pkg/types"
)

// ErrStale is returned by a navigation whose result was discarded because
// a navigation started after it was applied first. A newer navigation that
// fails does not make an older one stale.
var ErrStale = errors.New("navigation superseded by a newer one")

// Provider fetches the listing of a path.
type Provider interface {
	List(ctx context.Context, path string) (types.Listing, error)
}

// Direction selects a sibling directory.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Mover asks the backend to move to a neighbouring directory and returns
// the listing it moved to.
type Mover interface {
	Sibling(ctx context.Context, dir Direction) (types.Listing, error)
}

// Controller drives navigation for one screen.
type Controller struct {
	provider  Provider
	mover     Mover
	focus     *focus.Controller
	viewport  *viewer.Viewport
	selection *selection.Set

	mu sync.Mutex
	// seq numbers navigations as they start; applied is the number of the
	// one whose listing is shown.
	seq     uint64
	applied uint64
	root    string
	listing types.Listing
	dirs    []types.Item
	filter  *listing.Filter
}

// Options wires the collaborators of a Controller. Mover may be nil, in
// which case Sibling is unavailable.
type Options struct {
	Provider  Provider
	Mover     Mover
	Focus     *focus.Controller
	Viewport  *viewer.Viewport
	Selection *selection.Set
	Filter    *listing.Filter
}

// New creates a controller at the root path with an empty listing.
func New(opts Options) *Controller {
	return &Controller{
		provider:  opts.Provider,
		mover:     opts.Mover,
		focus:     opts.Focus,
		viewport:  opts.Viewport,
		selection: opts.Selection,
		filter:    opts.Filter,
	}
}

// Root returns the current root path.
func (c *Controller) Root() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// Listing returns the filtered listing of the current root.
func (c *Controller) Listing() types.Listing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listing
}

// Dirs returns the directory items of the current root.
func (c *Controller) Dirs() []types.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Item, len(c.dirs))
	copy(out, c.dirs)
	return out
}

// SetFilter replaces the hide filter. It applies from the next navigation.
func (c *Controller) SetFilter(f *listing.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// GoTo loads path and makes it the root. On failure nothing changes.
func (c *Controller) GoTo(ctx context.Context, path string) error {
	root := paths.Clean(path)
	seq := c.begin()
	l, err := c.provider.List(ctx, root)
	if err != nil {
		log.LogWithError(err).Warnf("Listing %q failed", root)
		return errors.Wrapf(err, "open %q", root)
	}
	return c.apply(seq, root, l)
}

// Up goes to the parent of the current root.
func (c *Controller) Up(ctx context.Context) error {
	return c.GoTo(ctx, paths.Parent(c.Root()))
}

// Home goes to the root path.
func (c *Controller) Home(ctx context.Context) error {
	return c.GoTo(ctx, "")
}

// Reload fetches the current root again.
func (c *Controller) Reload(ctx context.Context) error {
	return c.GoTo(ctx, c.Root())
}

// Sibling moves to the previous or next directory next to the current
// root, as the backend orders them.
func (c *Controller) Sibling(ctx context.Context, dir Direction) error {
	if c.mover == nil {
		return errors.New("sibling navigation is not available")
	}
	seq := c.begin()
	l, err := c.mover.Sibling(ctx, dir)
	if err != nil {
		log.LogWithError(err).Warn("Sibling navigation failed")
		return errors.Wrap(err, "move to sibling")
	}
	return c.apply(seq, paths.Clean(l.Path), l)
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

func (c *Controller) apply(seq uint64, root string, l types.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		log.Debugf("Discarding stale listing of %q", root)
		return ErrStale
	}
	c.applied = seq
	filtered := c.filter.Apply(l)
	filtered.Path = root
	files := fileItems(root, filtered.Files)
	c.root = root
	c.listing = filtered
	c.dirs = dirItems(root, filtered.Dirs)

	if c.focus != nil {
		c.focus.Rebuild(files)
	}
	if c.viewport != nil {
		c.viewport.SetEnabled(false)
	}
	if c.selection != nil {
		c.selection.Clear()
	}
	log.LogWithFields(log.F("root", root), log.F("files", files.Len()), log.F("dirs", len(c.dirs))).
		Debug("Navigated")
	return nil
}

func fileItems(root string, files []types.File) types.ItemList {
	items := make([]types.Item, 0, len(files))
	for _, f := range files {
		items = append(items, types.Item{
			Kind:     types.KindFile,
			Path:     paths.Join(root, f.Path),
			Label:    f.Label,
			Basename: f.Basename,
			Video:    f.Video,
		})
	}
	return types.NewItemList(items)
}

func dirItems(root string, dirs []types.Dir) []types.Item {
	items := make([]types.Item, 0, len(dirs))
	for _, d := range dirs {
		p := paths.Join(root, d.Path)
		items = append(items, types.Item{
			Kind:       types.KindDirectory,
			Path:       p,
			Basename:   paths.Base(p),
			FileCount:  d.FileCount,
			ImageFirst: d.ImageFirst,
			Locked:     d.Locked,
		})
	}
	return items
}
