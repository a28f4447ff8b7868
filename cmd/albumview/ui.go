package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"albumview/internal/config"
	"albumview/pkg/types"
)

func themeColor(name string) lipgloss.Color {
	theme := config.GetTheme("default")
	if cfg != nil {
		theme = map[string]string{
			"primary":  cfg.Theme.Primary,
			"success":  cfg.Theme.Success,
			"warning":  cfg.Theme.Warning,
			"error":    cfg.Theme.Error,
			"info":     cfg.Theme.Info,
			"emphasis": cfg.Theme.Emphasis,
		}
	}
	return lipgloss.Color(theme[name])
}

func styled(name string, bold bool) func(string) string {
	return func(s string) string {
		return lipgloss.NewStyle().Foreground(themeColor(name)).Bold(bold).Render(s)
	}
}

var (
	primaryText  = styled("primary", true)
	successText  = styled("success", false)
	warningText  = styled("warning", false)
	errorText    = styled("error", true)
	infoText     = styled("info", false)
	emphasisText = styled("emphasis", false)
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, primaryText(title))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(title)))
}

// printReport writes one line per result followed by a summary.
func printReport(w io.Writer, report types.Report) {
	printHeader(w, fmt.Sprintf("%s report %s", report.Operation, report.ID))
	for _, r := range report.Results {
		mark := successText("✓")
		if !r.OK() {
			mark = errorText("✗")
		}
		fmt.Fprintf(w, "%s %d %s  %s\n", mark, r.StatusCode, infoText(r.Identity), r.Message)
	}
	failed := report.Failed()
	summary := fmt.Sprintf("%d ok, %d failed in %s", len(report.Results)-failed, failed,
		report.Finished.Sub(report.Started).Round(time.Millisecond))
	if failed > 0 {
		fmt.Fprintln(w, warningText(summary))
		return
	}
	fmt.Fprintln(w, successText(summary))
}
