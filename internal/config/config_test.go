package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"albumview/internal/config"
	"albumview/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
server:
  url: "http://album.local:9000"
  timeout: 15
browse:
  start_path: "photos/2020"
  hide: [".*", "*.xmp"]
viewer:
  pan_step: 40
log:
  level: debug
  format: json
  file: /tmp/albumview.log
theme:
  name: dark
`
	invalidSyntaxYAML = `
server:
  url: "http://album.local
browse: [unterminated
`
	invalidURLYAML = `
server:
  url: "ftp://album.local"
`
	invalidHideYAML = `
browse:
  hide: ["[unclosed"]
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "http://album.local:9000", cfg.Server.URL)
		assert.Equal(t, 15, cfg.Server.Timeout)
		assert.Equal(t, "photos/2020", cfg.Browse.StartPath)
		assert.Equal(t, []string{".*", "*.xmp"}, cfg.Browse.Hide)
		assert.Equal(t, 40.0, cfg.Viewer.PanStep)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "/tmp/albumview.log", cfg.Log.File)
		assert.Equal(t, "dark", cfg.Theme.Name)
		assert.Equal(t, "105", cfg.Theme.Primary)
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)
		assert.Equal(t, 300.0, cfg.Viewer.BaselineX)
		assert.Equal(t, 300.0, cfg.Viewer.BaselineY)
		assert.Equal(t, 10, cfg.Log.MaxSizeMB)
		assert.NotEmpty(t, cfg.Media.CacheDir)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "does_not_exist.yaml"))
		require.NoError(t, err, "Loading non-existent file should return default config, not an error")

		defaultCfg := config.New()
		assert.Equal(t, defaultCfg.Server.URL, cfg.Server.URL)
		assert.Equal(t, config.DefaultServerURL, cfg.Server.URL)
		assert.Equal(t, defaultCfg.Viewer, cfg.Viewer)
		assert.Equal(t, "", cfg.Browse.StartPath)
	})

	t.Run("load file with invalid YAML syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
	})

	t.Run("load file with invalid server url", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidURLYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.True(t, errors.IsInvalidConfig(err))

		var ce *errors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "server.url", ce.Param())
	})

	t.Run("load file with bad hide pattern", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidHideYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "browse.hide")
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"defaults", func(c *config.Config) {}, false},
		{"https url", func(c *config.Config) { c.Server.URL = "https://album.example" }, false},
		{"url without host", func(c *config.Config) { c.Server.URL = "http://" }, true},
		{"negative timeout", func(c *config.Config) { c.Server.Timeout = -1 }, true},
		{"empty hide pattern", func(c *config.Config) { c.Browse.Hide = []string{""} }, true},
		{"zero pan step", func(c *config.Config) { c.Viewer.PanStep = 0 }, true},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }, true},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, true},
		{"negative backups", func(c *config.Config) { c.Log.MaxBackups = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsInvalidConfig(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.New()
	cfg.Server.URL = "http://nas:8808"
	cfg.Browse.Hide = []string{"*.tmp"}
	cfg.ApplyTheme("darkroom")

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://nas:8808", loaded.Server.URL)
	assert.Equal(t, []string{"*.tmp"}, loaded.Browse.Hide)
	assert.Equal(t, "darkroom", loaded.Theme.Name)
	assert.Equal(t, cfg.Theme, loaded.Theme)
}

func TestThemes(t *testing.T) {
	for _, name := range config.ListThemes() {
		theme := config.GetTheme(name)
		assert.Len(t, theme, 7, name)
	}
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("no-such-theme"))
}
