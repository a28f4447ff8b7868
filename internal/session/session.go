// Package session composes the state of one browsing screen: the root
// path and its items, focus, selection, the viewer transform and the media
// currently shown. It is the single owner of that state; front ends read it
// through Snapshot and change it through the methods below.
package session

import (
	"context"
	"fmt"
	"sync"

	"albumview/internal/batch"
	"albumview/internal/errors"
	"albumview/internal/focus"
	"albumview/internal/listing"
	"albumview/internal/log"
	"albumview/internal/media"
	"albumview/internal/navigation"
	"albumview/internal/selection"
	"albumview/internal/viewer"
	"albumview/pkg/types"
)

// NoticeNothingSelected is shown when a batch is started without a selection.
const NoticeNothingSelected = "no files selected"

// Albums is the access and annotation part of the album server. Album
// authorizations belong to the backend session opened by OpenSession.
type Albums interface {
	OpenSession(ctx context.Context) error
	LockAlbum(ctx context.Context, album, password string) error
	AuthorizeAlbum(ctx context.Context, album, password string) error
	Comment(ctx context.Context, file string) (string, error)
	SetComment(ctx context.Context, file, text string) error
}

// Backend is everything the session needs from the album server.
type Backend interface {
	navigation.Provider
	navigation.Mover
	batch.Remote
	media.Fetcher
	Albums
}

// Options configures a Session.
type Options struct {
	Backend   Backend
	BaselineX float64
	BaselineY float64
	PanStep   float64
	Hide      []string
	CacheDir  string
}

// Snapshot is a consistent copy of the session state for rendering.
type Snapshot struct {
	Root        string
	Dirs        []types.Item
	Files       []types.Item
	Focus       *types.Item
	Selected    []string
	Viewport    viewer.State
	Zoomable    bool
	HasAnyVideo bool
	Owned       bool
	Source      *media.Source
	LastReport  *types.Report
	Notice      string
}

// IsSelected reports whether path is in the selection.
func (s Snapshot) IsSelected(path string) bool {
	for _, p := range s.Selected {
		if p == path {
			return true
		}
	}
	return false
}

// Session is the state of one browsing screen.
type Session struct {
	albums    Albums
	viewport  *viewer.Viewport
	focus     *focus.Controller
	selection *selection.Set
	nav       *navigation.Controller
	runner    *batch.Runner
	loader    *media.Loader
	panStep   float64

	mu     sync.Mutex
	notice string
	source *media.Source
	report *types.Report
}

// New creates a session at the root path. Nothing is loaded until the
// first navigation.
func New(opts Options) (*Session, error) {
	if opts.Backend == nil {
		return nil, errors.New("session needs a backend")
	}
	filter, err := listing.NewFilter(opts.Hide)
	if err != nil {
		return nil, errors.NewConfigError("invalid hide pattern", "browse.hide", errors.InvalidConfig, err)
	}
	panStep := opts.PanStep
	if panStep <= 0 {
		panStep = 20
	}

	s := &Session{
		albums:    opts.Backend,
		viewport:  viewer.New(opts.BaselineX, opts.BaselineY),
		selection: selection.New(),
		runner:    batch.NewRunner(opts.Backend),
		loader:    media.NewLoader(opts.Backend, media.NewEngine(), media.NewCache(opts.CacheDir)),
		panStep:   panStep,
	}
	s.focus = focus.New(func() { s.viewport.SetEnabled(false) })
	s.nav = navigation.New(navigation.Options{
		Provider:  opts.Backend,
		Mover:     opts.Backend,
		Focus:     s.focus,
		Viewport:  s.viewport,
		Selection: s.selection,
		Filter:    filter,
	})
	return s, nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	l := s.nav.Listing()
	snap := Snapshot{
		Root:        s.nav.Root(),
		Dirs:        s.nav.Dirs(),
		Files:       s.focus.List().Items(),
		Selected:    s.selection.Entries(),
		Viewport:    s.viewport.State(),
		Zoomable:    s.viewport.Enabled(),
		HasAnyVideo: l.HasAnyVideo,
		Owned:       l.Owned,
	}
	if it, ok := s.focus.Current(); ok {
		snap.Focus = &it
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Notice = s.notice
	if s.source != nil {
		src := *s.source
		snap.Source = &src
	}
	if s.report != nil {
		rep := *s.report
		snap.LastReport = &rep
	}
	return snap
}

// Notice returns the last message for the user.
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// SetNotice replaces the message for the user.
func (s *Session) SetNotice(format string, args ...interface{}) {
	s.mu.Lock()
	s.notice = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

// ClearNotice removes the message for the user.
func (s *Session) ClearNotice() {
	s.SetNotice("")
}

// ToggleFocus focuses item, or clears focus if it is already focused.
func (s *Session) ToggleFocus(item types.Item) bool {
	_, focused := s.focus.Toggle(item)
	s.viewport.SetEnabled(focused)
	return focused
}

// Unfocus clears focus.
func (s *Session) Unfocus() {
	s.focus.Clear()
}

// FocusNext moves focus to the next file, wrapping around.
func (s *Session) FocusNext() (types.Item, bool) {
	return s.focus.Navigate(1)
}

// FocusPrev moves focus to the previous file, wrapping around.
func (s *Session) FocusPrev() (types.Item, bool) {
	return s.focus.Navigate(-1)
}

// Zoom scales the focused item.
func (s *Session) Zoom(dir viewer.Direction) viewer.State {
	return s.viewport.Zoom(dir)
}

// StartDrag begins a pointer pan gesture.
func (s *Session) StartDrag(x, y float64) {
	s.viewport.StartDrag(x, y)
}

// DragTo pans by the pointer movement.
func (s *Session) DragTo(x, y float64) viewer.State {
	return s.viewport.DragTo(x, y)
}

// EndDrag ends the pointer pan gesture.
func (s *Session) EndDrag() {
	s.viewport.EndDrag()
}

// PanBy pans by (dx, dy) keyboard steps as a one-shot gesture.
func (s *Session) PanBy(dx, dy int) viewer.State {
	s.viewport.StartDrag(0, 0)
	defer s.viewport.EndDrag()
	return s.viewport.DragTo(float64(dx)*s.panStep, float64(dy)*s.panStep)
}

// ToggleSelect adds or removes path from the selection.
func (s *Session) ToggleSelect(path string) bool {
	return s.selection.Toggle(path)
}

// Encrypt encrypts every selected item.
func (s *Session) Encrypt(ctx context.Context) (types.Report, error) {
	return s.runBatch(ctx, types.OpEncrypt, nil)
}

// Shred shreds every selected item once confirm approves.
func (s *Session) Shred(ctx context.Context, confirm batch.Confirmer) (types.Report, error) {
	return s.runBatch(ctx, types.OpShred, confirm)
}

// Busy reports whether a batch of op is running.
func (s *Session) Busy(op types.Operation) bool {
	return s.runner.InFlight(op)
}

func (s *Session) runBatch(ctx context.Context, op types.Operation, confirm batch.Confirmer) (types.Report, error) {
	report, err := s.runner.Run(ctx, op, s.selection.Entries(), confirm)
	if err != nil {
		switch {
		case errors.IsNothingSelected(err):
			s.SetNotice(NoticeNothingSelected)
		case errors.IsNotConfirmed(err):
			s.SetNotice("%s cancelled", op)
		case errors.IsInFlight(err):
			s.SetNotice("%s already running", op)
		}
		return types.Report{}, err
	}

	s.mu.Lock()
	s.report = &report
	s.mu.Unlock()
	s.SetNotice("%s: %d ok, %d failed", op, len(report.Results)-report.Failed(), report.Failed())

	s.selection.Clear()
	if err := s.Reload(ctx); err != nil {
		return report, errors.Wrapf(err, "reload after %s", op)
	}
	return report, nil
}

// GoTo navigates to path.
func (s *Session) GoTo(ctx context.Context, path string) error {
	return s.navigated(s.nav.GoTo(ctx, path))
}

// Up navigates to the parent of the current root.
func (s *Session) Up(ctx context.Context) error {
	return s.navigated(s.nav.Up(ctx))
}

// Home navigates to the root path.
func (s *Session) Home(ctx context.Context) error {
	return s.navigated(s.nav.Home(ctx))
}

// Reload fetches the current root again.
func (s *Session) Reload(ctx context.Context) error {
	return s.navigated(s.nav.Reload(ctx))
}

// Sibling navigates to the neighbouring directory.
func (s *Session) Sibling(ctx context.Context, dir navigation.Direction) error {
	return s.navigated(s.nav.Sibling(ctx, dir))
}

func (s *Session) navigated(err error) error {
	if err != nil {
		switch {
		case errors.Is(err, navigation.ErrStale):
		case errors.IsForbidden(err):
			s.SetNotice("album is locked; authorize it with its password")
		default:
			s.SetNotice("%v", err)
		}
		return err
	}
	s.mu.Lock()
	s.source = nil
	s.mu.Unlock()
	return nil
}

// Open starts the backend session that album authorizations attach to.
func (s *Session) Open(ctx context.Context) error {
	if err := s.albums.OpenSession(ctx); err != nil {
		log.LogWithError(err).Warn("Opening a backend session failed")
		s.SetNotice("could not open a session: %v", err)
		return err
	}
	return nil
}

// Authorize unlocks album with password and opens it.
func (s *Session) Authorize(ctx context.Context, album, password string) error {
	if err := s.albums.AuthorizeAlbum(ctx, album, password); err != nil {
		if errors.IsIncorrectPassword(err) {
			s.SetNotice("incorrect password for %s", album)
		} else {
			s.SetNotice("%v", err)
		}
		return err
	}
	log.LogWithFields(log.F("album", album)).Info("Album authorized")
	return s.GoTo(ctx, album)
}

// Lock sets the password of album. An empty password unlocks it. The
// current listing is reloaded so lock marks are up to date.
func (s *Session) Lock(ctx context.Context, album, password string) error {
	if err := s.albums.LockAlbum(ctx, album, password); err != nil {
		s.SetNotice("%v", err)
		return err
	}
	if password == "" {
		s.SetNotice("%s unlocked", album)
	} else {
		s.SetNotice("%s locked", album)
	}
	if err := s.Reload(ctx); err != nil {
		return errors.Wrapf(err, "reload after locking %s", album)
	}
	return nil
}

// Comment returns the comment of file and shows it as the notice.
func (s *Session) Comment(ctx context.Context, file string) (string, error) {
	text, err := s.albums.Comment(ctx, file)
	if err != nil {
		s.SetNotice("could not read comment of %s", file)
		return "", err
	}
	if text == "" {
		s.SetNotice("%s: no comment", file)
	} else {
		s.SetNotice("%s: %s", file, text)
	}
	return text, nil
}

// SetComment replaces the comment of file.
func (s *Session) SetComment(ctx context.Context, file, text string) error {
	if err := s.albums.SetComment(ctx, file, text); err != nil {
		s.SetNotice("could not save comment of %s", file)
		return err
	}
	s.SetNotice("comment saved for %s", file)
	return nil
}

// LoadMedia fetches identity and makes it the current source. On failure
// the current source is kept.
func (s *Session) LoadMedia(ctx context.Context, identity string) (media.Source, error) {
	src, err := s.loader.Load(ctx, identity)
	if err != nil {
		log.LogWithError(err).Warnf("Loading %s failed", identity)
		s.SetNotice("could not load %s", identity)
		return media.Source{}, err
	}
	s.mu.Lock()
	s.source = &src
	s.mu.Unlock()
	return src, nil
}

// SetHidePatterns replaces the hide filter. It applies from the next
// navigation.
func (s *Session) SetHidePatterns(patterns []string) error {
	f, err := listing.NewFilter(patterns)
	if err != nil {
		return errors.NewConfigError("invalid hide pattern", "browse.hide", errors.InvalidConfig, err)
	}
	s.nav.SetFilter(f)
	return nil
}
