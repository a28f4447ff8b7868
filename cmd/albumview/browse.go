package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"albumview/internal/log"
	"albumview/internal/session"
	"albumview/internal/tui"
	"albumview/internal/tui/styles"
	"albumview/internal/watch"
)

// NewBrowseCmd creates the browse command
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [path]",
		Short: "Browse the album in the terminal",
		Long: `Open the interactive browser at path, or at browse.start_path when no
path is given. Theme and hide patterns are reloaded when the config file
changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := cfg.Browse.StartPath
			if len(args) > 0 {
				start = args[0]
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			s, err := session.New(session.Options{
				Backend:   c,
				BaselineX: cfg.Viewer.BaselineX,
				BaselineY: cfg.Viewer.BaselineY,
				PanStep:   cfg.Viewer.PanStep,
				Hide:      cfg.Browse.Hide,
				CacheDir:  cfg.Media.CacheDir,
			})
			if err != nil {
				return err
			}
			styles.Apply(cfg)

			path, _ := configPath()
			w := watchConfig(path)
			if w != nil {
				defer w.Stop()
			}

			m := tui.New(tui.Options{
				Session:    s,
				Config:     cfg,
				ConfigPath: path,
				StartPath:  start,
				Watcher:    w,
				Context:    cmd.Context(),
			})
			log.Infof("Browsing %s from %q", c, start)
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}
}

// watchConfig starts watching the config file. Without a watcher the
// browser simply does not reload.
func watchConfig(path string) *watch.Watcher {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Debugf("Not watching %s: %v", path, err)
		return nil
	}
	w, err := watch.New()
	if err != nil {
		log.LogWithError(err).Warn("Config watcher unavailable")
		return nil
	}
	if err := w.AddFile(path); err != nil {
		log.LogWithError(err).Warn("Config watcher unavailable")
		return nil
	}
	if err := w.Start(); err != nil {
		log.LogWithError(err).Warn("Config watcher unavailable")
		return nil
	}
	return w
}
