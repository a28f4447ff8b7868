package main

import (
	"io"

	"github.com/spf13/cobra"

	"albumview/internal/client"
	"albumview/internal/config"
	"albumview/internal/log"
)

var (
	cfgFile   string
	serverURL string
	debug     bool
	cfg       *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "albumview",
		Short:   "Browse and manage a photo album server from the terminal",
		Version: version,
		Long: `albumview browses the directories of an album server, shows photos
with zoom and pan, and encrypts or shreds selected files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/albumview/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "album server URL (overrides server.url)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewBrowseCmd())
	rootCmd.AddCommand(NewLsCmd())
	rootCmd.AddCommand(NewEncryptCmd())
	rootCmd.AddCommand(NewShredCmd())
	rootCmd.AddCommand(NewFetchCmd())
	rootCmd.AddCommand(NewSessionCmd())
	rootCmd.AddCommand(NewLockCmd())
	rootCmd.AddCommand(NewAuthCmd())
	rootCmd.AddCommand(NewCommentCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// configPath returns the config file in use.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

func setup(cmd *cobra.Command) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err = config.LoadConfigFile(path)
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// The browser owns the terminal, so its logs go to the file or nowhere.
	var out io.Writer = cmd.ErrOrStderr()
	if cmd.Name() == "browse" && cfg.Log.File == "" {
		out = io.Discard
	}
	configureLogging(cfg, out)
	if debug {
		log.SetDebug(true)
	}
	log.Debugf("Using config %s, server %s", path, cfg.Server.URL)
	return nil
}

func configureLogging(cfg *config.Config, out io.Writer) {
	opts := []log.Option{log.WithOutput(out), log.WithLevel(cfg.Log.Level)}
	if cfg.Log.Format == "json" {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFile(cfg.Log.File, log.Rotation{
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}))
	}
	log.Configure(opts...)
}

func newClient() (*client.Client, error) {
	return client.New(cfg.Server.URL, cfg.RequestTimeout())
}
