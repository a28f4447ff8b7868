package components

import (
	"fmt"
	"sort"
	"strings"

	"albumview/internal/session"
	"albumview/internal/tui/styles"
)

// RenderViewerPanel describes the focused item, its transform and the
// loaded media source.
func RenderViewerPanel(snap session.Snapshot, width int) string {
	var b strings.Builder
	if snap.Focus == nil {
		b.WriteString(styles.Theme.Unselected.Render("nothing focused"))
		return panel(b.String(), width)
	}

	b.WriteString(styles.Theme.Focused.Render(snap.Focus.Path))
	b.WriteString("\n")
	if snap.Focus.Label != "" {
		b.WriteString(snap.Focus.Label + "\n")
	}
	fmt.Fprintf(&b, "zoom  %.2fx\n", snap.Viewport.Scale)
	fmt.Fprintf(&b, "pan   %g, %g\n", snap.Viewport.X, snap.Viewport.Y)
	b.WriteString(styles.Theme.Help.Render(snap.Viewport.Transform()))
	b.WriteString("\n")

	if src := snap.Source; src != nil && src.Identity == snap.Focus.Path {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s  %s\n", src.Info.MIME, src.Info.HumanSize())
		keys := make([]string, 0, len(src.Info.Metadata))
		for k := range src.Info.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%-7s %s\n", k, src.Info.Metadata[k])
		}
		b.WriteString(styles.Theme.Unselected.Render(src.LocalPath))
	}
	return panel(strings.TrimRight(b.String(), "\n"), width)
}

func panel(content string, width int) string {
	style := styles.Theme.Panel
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}
