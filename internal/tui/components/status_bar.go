package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"albumview/internal/tui/styles"
)

// StatusBar shows the last notice and a spinner while requests are pending.
type StatusBar struct {
	text    string
	isError bool
	spinner spinner.Model
	pending int
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &StatusBar{spinner: s}
}

// Begin marks one more request as pending and returns the spinner tick
// when it was idle.
func (s *StatusBar) Begin() tea.Cmd {
	s.pending++
	if s.pending == 1 {
		return s.spinner.Tick
	}
	return nil
}

// Done marks a pending request as finished.
func (s *StatusBar) Done() {
	if s.pending > 0 {
		s.pending--
	}
}

// Loading reports whether any request is pending.
func (s *StatusBar) Loading() bool {
	return s.pending > 0
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.isError = false
}

// SetError shows text as an error.
func (s *StatusBar) SetError(text string) {
	s.text = text
	s.isError = true
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if !s.Loading() {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	style := styles.Theme.Notice
	if s.isError {
		style = styles.Theme.Error
	}
	if s.Loading() {
		s.spinner.Style = styles.Theme.Help
		return s.spinner.View() + " " + style.Render(s.text)
	}
	if s.text == "" {
		return ""
	}
	return style.Render(s.text)
}
