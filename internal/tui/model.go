// Package tui is the terminal front end of the album browser.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"albumview/internal/config"
	"albumview/internal/errors"
	"albumview/internal/log"
	"albumview/internal/navigation"
	"albumview/internal/paths"
	"albumview/internal/session"
	"albumview/internal/tui/common"
	"albumview/internal/tui/components"
	"albumview/internal/tui/messages"
	"albumview/internal/tui/styles"
	"albumview/internal/tui/views"
	"albumview/internal/viewer"
	"albumview/internal/watch"
	"albumview/pkg/types"
)

// Terminal cells are mapped to pixels with a nominal font size so mouse
// drags pan by a comparable distance to a pointer.
const (
	cellWidth  = 8
	cellHeight = 16
)

// Options configures a Model.
type Options struct {
	Session    *session.Session
	Config     *config.Config
	ConfigPath string
	StartPath  string
	// Watcher, when set, reports changes of ConfigPath.
	Watcher *watch.Watcher
	Context context.Context
}

type Model struct {
	ctx     context.Context
	session *session.Session
	cfg     *config.Config
	cfgPath string
	watcher *watch.Watcher
	start   string

	keys   types.KeyMap
	help   help.Model
	input  textinput.Model
	status *components.StatusBar

	mode     types.Mode
	cursor   int
	// pendingShred holds the identities the confirm dialog shows.
	pendingShred []string
	// pendingAlbum is set while the command line asks for the password of
	// an album; pendingCmd is the command the password completes.
	pendingCmd   string
	pendingAlbum string
	snap     session.Snapshot
	rows     []common.Row
	showHelp bool
	width    int
	height   int
}

func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}

	input := textinput.New()
	input.Prompt = ":"
	input.CharLimit = 256

	m := &Model{
		ctx:     ctx,
		session: opts.Session,
		cfg:     cfg,
		cfgPath: opts.ConfigPath,
		watcher: opts.Watcher,
		start:   paths.Clean(opts.StartPath),
		keys:    types.DefaultKeyMap(),
		help:    help.New(),
		input:   input,
		status:  components.NewStatusBar(),
		mode:    types.Normal,
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	start := m.start
	return tea.Batch(
		m.status.Begin(),
		navigateCmd(m.ctx, func(ctx context.Context) error {
			// Browsing works without a backend session; only album
			// authorization needs one.
			_ = m.session.Open(ctx)
			return m.session.GoTo(ctx, start)
		}),
		waitForConfig(m.watcher, m.cfgPath),
	)
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case types.Command:
			return m.handleCommandKeys(msg)
		case types.Confirm:
			return m.handleConfirmKeys(msg)
		default:
			return m.handleNormalKeys(msg)
		}

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case spinner.TickMsg:
		return m, m.status.Update(msg)

	case messages.NavigatedMsg:
		m.status.Done()
		if msg.Err == nil {
			m.cursor = 0
		}
		m.refresh()
		if msg.Err != nil && !errors.Is(msg.Err, navigation.ErrStale) {
			m.status.SetError(m.snap.Notice)
		}
		return m, nil

	case messages.BatchDoneMsg:
		m.status.Done()
		if msg.Err != nil {
			log.LogWithError(msg.Err).Warnf("%s failed", msg.Operation)
		}
		if errors.IsNotConfirmed(msg.Err) {
			m.session.SetNotice("selection changed, %s cancelled", msg.Operation)
		}
		m.refresh()
		return m, nil

	case messages.CommentMsg:
		m.status.Done()
		m.refresh()
		if msg.Err != nil {
			m.status.SetError(m.snap.Notice)
		}
		return m, nil

	case messages.MediaLoadedMsg:
		m.status.Done()
		if msg.Err == nil {
			m.session.SetNotice("loaded %s (%s)", msg.Source.Identity, msg.Source.Info.HumanSize())
		}
		m.refresh()
		return m, nil

	case messages.ConfigUpdateMsg:
		return m, tea.Batch(m.applyConfig(msg), waitForConfig(m.watcher, m.cfgPath))
	}

	return m, nil
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		row, ok := m.currentRow()
		if !ok {
			break
		}
		if row.Item.IsDir() {
			return m, m.navigate(func(ctx context.Context) error { return m.session.GoTo(ctx, row.Item.Path) })
		}
		m.session.ToggleFocus(row.Item)
	case key.Matches(msg, m.keys.Parent):
		return m, m.navigate(m.session.Up)
	case key.Matches(msg, m.keys.Home):
		return m, m.navigate(m.session.Home)
	case key.Matches(msg, m.keys.Reload):
		return m, m.navigate(m.session.Reload)
	case key.Matches(msg, m.keys.SiblingPrev):
		return m, m.navigate(func(ctx context.Context) error { return m.session.Sibling(ctx, navigation.Previous) })
	case key.Matches(msg, m.keys.SiblingNext):
		return m, m.navigate(func(ctx context.Context) error { return m.session.Sibling(ctx, navigation.Next) })

	case key.Matches(msg, m.keys.FocusPrev):
		m.moveFocus(m.session.FocusPrev())
	case key.Matches(msg, m.keys.FocusNext):
		m.moveFocus(m.session.FocusNext())
	case key.Matches(msg, m.keys.Unfocus):
		m.session.Unfocus()
	case key.Matches(msg, m.keys.ZoomIn):
		m.session.Zoom(viewer.In)
	case key.Matches(msg, m.keys.ZoomOut):
		m.session.Zoom(viewer.Out)
	case key.Matches(msg, m.keys.PanUp):
		m.session.PanBy(0, -1)
	case key.Matches(msg, m.keys.PanDown):
		m.session.PanBy(0, 1)
	case key.Matches(msg, m.keys.PanLeft):
		m.session.PanBy(-1, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.session.PanBy(1, 0)
	case key.Matches(msg, m.keys.Play):
		if m.snap.Focus == nil {
			m.session.SetNotice("nothing focused")
			break
		}
		cmd := m.status.Begin()
		return m, tea.Batch(cmd, loadMedia(m.ctx, m.session, m.snap.Focus.Path))

	case key.Matches(msg, m.keys.Select):
		if row, ok := m.currentRow(); ok && !row.Item.IsDir() {
			m.session.ToggleSelect(row.Item.Path)
		}
	case key.Matches(msg, m.keys.Encrypt):
		if m.session.Busy(types.OpEncrypt) {
			m.session.SetNotice("%s already running", types.OpEncrypt)
			break
		}
		cmd := m.status.Begin()
		return m.refreshed(), tea.Batch(cmd, runEncrypt(m.ctx, m.session))
	case key.Matches(msg, m.keys.Shred):
		if len(m.snap.Selected) == 0 {
			// No request is made; the session records the notice.
			_, _ = m.session.Shred(m.ctx, nil)
			break
		}
		m.pendingShred = slices.Clone(m.snap.Selected)
		m.mode = types.Confirm
	case key.Matches(msg, m.keys.EnterCmdMode):
		m.mode = types.Command
		m.input.SetValue("")
		return m.refreshed(), m.input.Focus()

	case key.Matches(msg, m.keys.Comment):
		file, ok := m.fileTarget()
		if !ok {
			m.session.SetNotice("no file to show the comment of")
			break
		}
		cmd := m.status.Begin()
		return m.refreshed(), tea.Batch(cmd, showComment(m.ctx, m.session, file))
	case key.Matches(msg, m.keys.Authorize):
		return m.refreshed(), m.askPassword("auth")
	case key.Matches(msg, m.keys.Lock):
		return m.refreshed(), m.askPassword("lock")
	}

	return m.refreshed(), nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = types.Normal
		approved := m.pendingShred
		m.pendingShred = nil
		cmd := m.status.Begin()
		return m.refreshed(), tea.Batch(cmd, runShred(m.ctx, m.session, approved))
	case key.Matches(msg, m.keys.Cancel):
		m.mode = types.Normal
		m.pendingShred = nil
		m.session.SetNotice("%s cancelled", types.OpShred)
	}
	return m.refreshed(), nil
}

func (m *Model) handleCommandKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ExecuteCmd):
		if m.pendingCmd != "" {
			name, album, password := m.pendingCmd, m.pendingAlbum, m.input.Value()
			m.leaveCommandMode()
			return m, m.albumAccess(name, album, password)
		}
		line := strings.TrimSpace(m.input.Value())
		m.leaveCommandMode()
		return m, m.execute(line)
	case msg.Type == tea.KeyEsc:
		m.leaveCommandMode()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) leaveCommandMode() {
	m.mode = types.Normal
	m.input.Blur()
	m.input.SetValue("")
	m.input.Prompt = ":"
	m.input.EchoMode = textinput.EchoNormal
	m.pendingCmd, m.pendingAlbum = "", ""
}

// askPassword turns the command line into a hidden password prompt for
// the album at the cursor.
func (m *Model) askPassword(name string) tea.Cmd {
	album, ok := m.albumTarget()
	if !ok {
		m.session.SetNotice("no album to %s", name)
		m.refresh()
		return nil
	}
	m.mode = types.Command
	m.pendingCmd, m.pendingAlbum = name, album
	m.input.SetValue("")
	m.input.Prompt = fmt.Sprintf("%s password for %s: ", name, album)
	m.input.EchoMode = textinput.EchoPassword
	return m.input.Focus()
}

// albumAccess authorizes or locks album. Locking with an empty password
// unlocks.
func (m *Model) albumAccess(name, album, password string) tea.Cmd {
	switch name {
	case "auth":
		if password == "" {
			m.session.SetNotice("auth needs a password")
			m.refresh()
			return nil
		}
		return m.navigate(func(ctx context.Context) error { return m.session.Authorize(ctx, album, password) })
	case "lock":
		return m.navigate(func(ctx context.Context) error { return m.session.Lock(ctx, album, password) })
	}
	return nil
}

// albumTarget is the directory at the cursor, or else the current root.
func (m *Model) albumTarget() (string, bool) {
	if row, ok := m.currentRow(); ok && row.Item.IsDir() {
		return row.Item.Path, true
	}
	return m.snap.Root, m.snap.Root != ""
}

// fileTarget is the focused file, or else the file at the cursor.
func (m *Model) fileTarget() (string, bool) {
	if m.snap.Focus != nil {
		return m.snap.Focus.Path, true
	}
	if row, ok := m.currentRow(); ok && !row.Item.IsDir() {
		return row.Item.Path, true
	}
	return "", false
}

// execute runs a command line entered after ':'.
func (m *Model) execute(line string) tea.Cmd {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "":
		return nil
	case "q", "quit":
		return tea.Quit
	case "cd":
		target := m.resolve(arg)
		return m.navigate(func(ctx context.Context) error { return m.session.GoTo(ctx, target) })
	case "hide":
		if err := m.session.SetHidePatterns(strings.Fields(arg)); err != nil {
			m.session.SetNotice("%v", err)
			break
		}
		return m.navigate(m.session.Reload)
	case "theme":
		m.cfg.ApplyTheme(arg)
		styles.Apply(m.cfg)
	case "auth", "lock", "unlock":
		album, ok := m.albumTarget()
		if !ok {
			m.session.SetNotice("no album to %s", name)
			break
		}
		if name == "unlock" {
			return m.albumAccess("lock", album, "")
		}
		return m.albumAccess(name, album, arg)
	case "comment":
		file, ok := m.fileTarget()
		if !ok {
			m.session.SetNotice("no file to comment on")
			break
		}
		return tea.Batch(m.status.Begin(), saveComment(m.ctx, m.session, file, arg))
	default:
		m.session.SetNotice("unknown command: %s", name)
	}
	m.refresh()
	return nil
}

// resolve turns a cd argument into a path: "/x" is taken from the top,
// anything else is relative to the current root.
func (m *Model) resolve(arg string) string {
	if arg == "" || arg == "~" {
		return ""
	}
	if strings.HasPrefix(arg, paths.Separator) {
		return paths.Clean(arg)
	}
	target := m.snap.Root
	for _, seg := range paths.Segments(arg) {
		if seg == "." {
			continue
		}
		target = paths.Join(target, seg)
	}
	return target
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := float64(msg.X*cellWidth), float64(msg.Y*cellHeight)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.session.Zoom(viewer.In)
	case msg.Button == tea.MouseButtonWheelDown:
		m.session.Zoom(viewer.Out)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.session.StartDrag(x, y)
	case msg.Action == tea.MouseActionMotion:
		m.session.DragTo(x, y)
	case msg.Action == tea.MouseActionRelease:
		m.session.EndDrag()
	default:
		return nil
	}
	m.refresh()
	return nil
}

func (m *Model) applyConfig(msg messages.ConfigUpdateMsg) tea.Cmd {
	if msg.Err != nil {
		log.LogWithError(msg.Err).Warn("Ignoring config change")
		m.fail("config not reloaded: %v", msg.Err)
		return nil
	}
	m.cfg = msg.Config
	styles.Apply(m.cfg)
	if err := m.session.SetHidePatterns(m.cfg.Browse.Hide); err != nil {
		m.fail("%v", err)
		return nil
	}
	log.Info("Configuration reloaded from %s", m.cfgPath)
	m.session.SetNotice("configuration reloaded")
	m.refresh()
	return m.navigate(m.session.Reload)
}

// fail records an error notice and shows it as an error.
func (m *Model) fail(format string, args ...interface{}) {
	m.session.SetNotice(format, args...)
	m.refresh()
	m.status.SetError(m.snap.Notice)
}

func (m *Model) navigate(fn func(context.Context) error) tea.Cmd {
	return tea.Batch(m.status.Begin(), navigateCmd(m.ctx, fn))
}

func (m *Model) moveFocus(item types.Item, ok bool) {
	if !ok {
		return
	}
	m.refresh()
	for i, row := range m.rows {
		if row.Item.Path == item.Path {
			m.cursor = i
			return
		}
	}
}

func (m *Model) currentRow() (common.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return common.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) refreshed() *Model {
	m.refresh()
	return m
}

// refresh rebuilds the rows from a new session snapshot.
func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	rows := make([]common.Row, 0, len(m.snap.Dirs)+len(m.snap.Files))
	for _, d := range m.snap.Dirs {
		rows = append(rows, common.Row{Item: d})
	}
	for _, f := range m.snap.Files {
		rows = append(rows, common.Row{
			Item:     f,
			Selected: m.snap.IsSelected(f.Path),
			Focused:  m.snap.Focus != nil && m.snap.Focus.Path == f.Path,
		})
	}
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.snap.Notice != m.status.Text() {
		m.status.SetText(m.snap.Notice)
	}
}

// Getters

func (m *Model) Snapshot() session.Snapshot { return m.snap }
func (m *Model) Rows() []common.Row          { return m.rows }
func (m *Model) Cursor() int                 { return m.cursor }
func (m *Model) Mode() types.Mode            { return m.mode }
func (m *Model) ShowHelp() bool              { return m.showHelp }
func (m *Model) Size() (int, int)            { return m.width, m.height }

func (m *Model) HelpView() string {
	return m.help.View(m.keys)
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) CommandView() string {
	return m.input.View()
}

func (m *Model) ConfirmPrompt() string {
	n := len(m.pendingShred)
	noun := "file"
	if n != 1 {
		noun = "files"
	}
	return fmt.Sprintf("Shred %d %s? This cannot be undone.", n, noun)
}
