package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"albumview/internal/errors"
)

// DefaultServerURL is the backend address used when none is configured.
const DefaultServerURL = "http://localhost:8808"

// Config represents the application configuration structure.
// It defines the backend to talk to, browsing and viewer defaults, media
// caching, logging and the colour theme.
type Config struct {
	Server struct {
		URL     string `yaml:"url"`     // Base URL of the album backend
		Timeout int    `yaml:"timeout"` // Request timeout in seconds (0 = none)
	} `yaml:"server"`
	Browse struct {
		StartPath string   `yaml:"start_path"` // Path opened on start
		Hide      []string `yaml:"hide"`       // Glob patterns of entries to hide
	} `yaml:"browse"`
	Viewer struct {
		BaselineX float64 `yaml:"baseline_x"` // Reset translation, x
		BaselineY float64 `yaml:"baseline_y"` // Reset translation, y
		PanStep   float64 `yaml:"pan_step"`   // Pixels per keyboard pan
	} `yaml:"viewer"`
	Media struct {
		CacheDir string `yaml:"cache_dir"` // Where fetched blobs are stored
	} `yaml:"media"`
	Log struct {
		Level      string `yaml:"level"`        // debug, info, warn or error
		Format     string `yaml:"format"`       // text or json
		File       string `yaml:"file"`         // Log file; empty means stderr for the CLI
		MaxSizeMB  int    `yaml:"max_size_mb"`  // Rotate after this many megabytes
		MaxBackups int    `yaml:"max_backups"`  // Rotated files to keep
		MaxAgeDays int    `yaml:"max_age_days"` // Days to keep rotated files
		Compress   bool   `yaml:"compress"`     // Gzip rotated files
	} `yaml:"log"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/albumview/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "albumview", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Server.URL != "" {
		cfg.Server.URL = tempCfg.Server.URL
	}
	cfg.Server.Timeout = tempCfg.Server.Timeout

	if tempCfg.Browse.StartPath != "" {
		cfg.Browse.StartPath = tempCfg.Browse.StartPath
	}
	if len(tempCfg.Browse.Hide) > 0 {
		cfg.Browse.Hide = tempCfg.Browse.Hide
	}

	if tempCfg.Viewer.BaselineX != 0 {
		cfg.Viewer.BaselineX = tempCfg.Viewer.BaselineX
	}
	if tempCfg.Viewer.BaselineY != 0 {
		cfg.Viewer.BaselineY = tempCfg.Viewer.BaselineY
	}
	if tempCfg.Viewer.PanStep != 0 {
		cfg.Viewer.PanStep = tempCfg.Viewer.PanStep
	}

	if tempCfg.Media.CacheDir != "" {
		cfg.Media.CacheDir = tempCfg.Media.CacheDir
	}

	if tempCfg.Log.Level != "" {
		cfg.Log.Level = tempCfg.Log.Level
	}
	if tempCfg.Log.Format != "" {
		cfg.Log.Format = tempCfg.Log.Format
	}
	cfg.Log.File = tempCfg.Log.File
	if tempCfg.Log.MaxSizeMB != 0 {
		cfg.Log.MaxSizeMB = tempCfg.Log.MaxSizeMB
	}
	if tempCfg.Log.MaxBackups != 0 {
		cfg.Log.MaxBackups = tempCfg.Log.MaxBackups
	}
	if tempCfg.Log.MaxAgeDays != 0 {
		cfg.Log.MaxAgeDays = tempCfg.Log.MaxAgeDays
	}
	cfg.Log.Compress = tempCfg.Log.Compress

	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}
	overrideColor(&cfg.Theme.Primary, tempCfg.Theme.Primary)
	overrideColor(&cfg.Theme.Success, tempCfg.Theme.Success)
	overrideColor(&cfg.Theme.Warning, tempCfg.Theme.Warning)
	overrideColor(&cfg.Theme.Error, tempCfg.Theme.Error)
	overrideColor(&cfg.Theme.Info, tempCfg.Theme.Info)
	overrideColor(&cfg.Theme.Emphasis, tempCfg.Theme.Emphasis)
	overrideColor(&cfg.Theme.Border, tempCfg.Theme.Border)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func overrideColor(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.URL = DefaultServerURL
	cfg.Server.Timeout = 0

	cfg.Browse.StartPath = ""
	cfg.Browse.Hide = []string{}

	cfg.Viewer.BaselineX = 300
	cfg.Viewer.BaselineY = 300
	cfg.Viewer.PanStep = 20

	if dir, err := os.UserCacheDir(); err == nil {
		cfg.Media.CacheDir = filepath.Join(dir, "albumview", "media")
	} else {
		cfg.Media.CacheDir = filepath.Join(os.TempDir(), "albumview", "media")
	}

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28

	cfg.ApplyTheme("default")
	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrInvalidConfig
	}

	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return errors.NewConfigError("invalid server url", "server.url", errors.InvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewConfigError("server url must be http or https", "server.url", errors.InvalidConfig, nil)
	}
	if u.Host == "" {
		return errors.NewConfigError("server url has no host", "server.url", errors.InvalidConfig, nil)
	}

	if c.Server.Timeout < 0 {
		return errors.NewConfigError("timeout must be >= 0 seconds", "server.timeout", errors.InvalidConfig, nil)
	}

	for i, pattern := range c.Browse.Hide {
		if pattern == "" {
			return errors.NewConfigError(fmt.Sprintf("hide pattern %d cannot be empty", i), "browse.hide", errors.InvalidConfig, nil)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError(fmt.Sprintf("hide pattern %q does not compile", pattern), "browse.hide", errors.InvalidConfig, err)
		}
	}

	if c.Viewer.PanStep <= 0 {
		return errors.NewConfigError("pan step must be > 0", "viewer.pan_step", errors.InvalidConfig, nil)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		return errors.NewConfigError(fmt.Sprintf("invalid log level %q", c.Log.Level), "log.level", errors.InvalidConfig, nil)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.NewConfigError(fmt.Sprintf("invalid log format %q", c.Log.Format), "log.format", errors.InvalidConfig, nil)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return errors.NewConfigError("log rotation settings must be >= 0", "log", errors.InvalidConfig, nil)
	}

	return nil
}

// RequestTimeout returns the configured request timeout; zero means none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.Timeout) * time.Second
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(serverURL string) *Config {
	cfg := defaultConfig()
	cfg.Server.URL = serverURL
	cfg.Media.CacheDir = filepath.Join(os.TempDir(), "albumview-test")
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
		"darkroom": {
			"primary":  "124", // Safelight red
			"success":  "71",
			"warning":  "172",
			"error":    "196",
			"info":     "95",
			"emphasis": "203",
			"border":   "88",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "darkroom"}
}
