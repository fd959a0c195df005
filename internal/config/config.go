package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pdxmph/todo-tui/internal/task"
)

// AppName is the directory name used under ~/.config
const AppName = "todo-tui"

// Config holds the application configuration
type Config struct {
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects where tasks are kept
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	DSN       string `toml:"dsn"`
	OnCorrupt string `toml:"on_corrupt"`
}

// UIConfig holds interface preferences
type UIConfig struct {
	// DefaultPriority is preselected in the add form (high, medium or low)
	DefaultPriority string `toml:"default_priority"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Path string `toml:"path"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   "json",
			Path:      filepath.Join(Dir(), "tasks.json"),
			OnCorrupt: "fail",
		},
		UI: UIConfig{
			DefaultPriority: string(task.Medium),
		},
	}
}

// Dir returns the configuration directory
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", AppName)
}

// DefaultPath returns the standard config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// LoadFrom loads configuration from a specific path
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No config file, return defaults
		return cfg, nil
	}

	// Read and parse config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand home directory in paths
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks values that have a fixed set of choices
func (c *Config) Validate() error {
	switch c.Storage.OnCorrupt {
	case "fail", "backup":
	default:
		return fmt.Errorf("storage.on_corrupt must be \"fail\" or \"backup\", got %q", c.Storage.OnCorrupt)
	}

	if c.Storage.Backend == "" {
		return fmt.Errorf("storage.backend is empty")
	}
	if c.Storage.Backend == "mysql" && c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required for the mysql backend")
	}

	if _, err := task.ParsePriority(c.UI.DefaultPriority); err != nil {
		return fmt.Errorf("ui.default_priority: %w", err)
	}

	return nil
}

// DefaultPriority returns the priority preselected when adding a task
func (c *Config) DefaultPriority() task.Priority {
	p, err := task.ParsePriority(c.UI.DefaultPriority)
	if err != nil {
		return task.Medium
	}
	return p
}

// Location returns the path or DSN the configured backend should open
func (c *Config) Location() string {
	if c.Storage.Backend == "mysql" {
		return c.Storage.DSN
	}
	return c.Storage.Path
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
