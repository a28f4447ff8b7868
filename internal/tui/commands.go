package tui

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"albumview/internal/batch"
	"albumview/internal/config"
	"albumview/internal/log"
	"albumview/internal/session"
	"albumview/internal/tui/messages"
	"albumview/internal/watch"
	"albumview/pkg/types"
)

// navigateCmd runs a navigation off the update loop.
func navigateCmd(ctx context.Context, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return messages.NavigatedMsg{Err: fn(ctx)}
	}
}

func runEncrypt(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		report, err := s.Encrypt(ctx)
		return messages.BatchDoneMsg{Operation: types.OpEncrypt, Report: report, Err: err}
	}
}

// runShred is only issued after the dialog was answered with yes. approved
// is what the dialog showed; if the selection changed since, nothing is
// shredded.
func runShred(ctx context.Context, s *session.Session, approved []string) tea.Cmd {
	confirm := batch.ConfirmFunc(func(_ types.Operation, ids []string) bool {
		return slices.Equal(ids, approved)
	})
	return func() tea.Msg {
		report, err := s.Shred(ctx, confirm)
		return messages.BatchDoneMsg{Operation: types.OpShred, Report: report, Err: err}
	}
}

func showComment(ctx context.Context, s *session.Session, file string) tea.Cmd {
	return func() tea.Msg {
		text, err := s.Comment(ctx, file)
		return messages.CommentMsg{File: file, Text: text, Err: err}
	}
}

func saveComment(ctx context.Context, s *session.Session, file, text string) tea.Cmd {
	return func() tea.Msg {
		err := s.SetComment(ctx, file, text)
		return messages.CommentMsg{File: file, Text: text, Err: err}
	}
}

func loadMedia(ctx context.Context, s *session.Session, identity string) tea.Cmd {
	return func() tea.Msg {
		src, err := s.LoadMedia(ctx, identity)
		return messages.MediaLoadedMsg{Source: src, Err: err}
	}
}

// waitForConfig blocks until the config file changes and reloads it.
func waitForConfig(w *watch.Watcher, path string) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-w.Changes()
		if !ok {
			return messages.WatchStoppedMsg{}
		}
		log.Debugf("Config file changed: %s (%s)", change.Path, change.Op)
		cfg, err := config.LoadConfigFile(path)
		return messages.ConfigUpdateMsg{Config: cfg, Err: err}
	}
}
