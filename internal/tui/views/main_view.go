package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"albumview/internal/tui/common"
	"albumview/internal/tui/components"
	"albumview/internal/tui/styles"
	"albumview/pkg/types"
)

// chrome is the number of lines used around the file list.
const chrome = 6

// RenderMainView renders the browser: the header, the file list next to
// the viewer panel, and the status or command line.
func RenderMainView(m common.ModelReader) string {
	if m.Mode() == types.Confirm {
		return RenderConfirm(m)
	}

	width, height := m.Size()
	snap := m.Snapshot()

	var sb strings.Builder
	sb.WriteString(renderHeader(m))
	sb.WriteString("\n\n")

	listHeight := height - chrome
	if m.ShowHelp() {
		listHeight -= strings.Count(m.HelpView(), "\n") + 1
	}
	list := components.NewFileList(m.Rows(), m.Cursor(), listHeight).View()
	if width > 0 {
		listWidth := width / 2
		panel := components.RenderViewerPanel(snap, width-listWidth-2)
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(listWidth).Render(list),
			panel,
		))
	} else {
		sb.WriteString(list)
		sb.WriteString(components.RenderViewerPanel(snap, 0))
	}
	sb.WriteString("\n")

	if m.Mode() == types.Command {
		sb.WriteString(m.CommandView())
	} else {
		sb.WriteString(m.StatusView())
	}
	sb.WriteString("\n")
	sb.WriteString(m.HelpView())

	return styles.Theme.App.Render(sb.String())
}

func renderHeader(m common.ModelReader) string {
	snap := m.Snapshot()
	root := snap.Root
	if root == "" {
		root = "/"
	}
	header := styles.Theme.Title.Render("albumview") + " " +
		styles.Theme.Path.Render(root) + " " +
		styles.Theme.Help.Render("["+m.Mode().String()+"]")
	var flags []string
	if snap.Owned {
		flags = append(flags, "owned")
	}
	if snap.HasAnyVideo {
		flags = append(flags, "video")
	}
	if n := len(snap.Selected); n > 0 {
		flags = append(flags, styles.Theme.Selected.Render(fmt.Sprintf("%d selected", n)))
	}
	if len(flags) > 0 {
		header += "  " + strings.Join(flags, " ")
	}
	return header
}

// RenderConfirm renders the shred confirmation dialog centred on screen.
func RenderConfirm(m common.ModelReader) string {
	dialog := styles.Theme.Dialog.Render(
		styles.Theme.Error.Render(m.ConfirmPrompt()) + "\n\n" +
			styles.Theme.Help.Render("[y] yes   [n] no"),
	)
	width, height := m.Size()
	if width <= 0 || height <= 0 {
		return dialog
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}
