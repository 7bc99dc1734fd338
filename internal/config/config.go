// Package config loads climastery settings from a YAML file, a .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/climastery/internal/store"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Menu styles.
const (
	MenuAuto  = "auto"
	MenuTUI   = "tui"
	MenuPlain = "plain"
)

// Environment variables that override the file.
const (
	EnvHome     = "CLIMASTERY_HOME"
	EnvBackend  = "CLIMASTERY_BACKEND"
	EnvLogLevel = "CLIMASTERY_LOG_LEVEL"
	EnvNoColor  = "NO_COLOR"
)

// ConfigFile is the config file name inside the data directory.
const ConfigFile = "config.yaml"

// Config holds all settings.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	UI      UIConfig      `yaml:"ui"`
	Quiz    QuizConfig    `yaml:"quiz"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects where progress lives.
type StorageConfig struct {
	DataDir      string `yaml:"data_dir"`
	Backend      string `yaml:"backend"`       // file, sqlite
	ProgressFile string `yaml:"progress_file"` // relative to DataDir unless absolute
	JournalDB    string `yaml:"journal_db"`    // relative to DataDir unless absolute
	Journal      bool   `yaml:"journal"`
	SnapshotKeep int    `yaml:"snapshot_keep"`
}

// UIConfig configures the terminal.
type UIConfig struct {
	Color bool   `yaml:"color"`
	Menu  string `yaml:"menu"` // auto, tui, plain
}

// QuizConfig configures assessments.
type QuizConfig struct {
	Shuffle bool `yaml:"shuffle"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error, off
	File  string `yaml:"file"`  // relative to DataDir unless absolute
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:      BackendFile,
			ProgressFile: "progress.json",
			JournalDB:    "climastery.db",
			Journal:      true,
			SnapshotKeep: 20,
		},
		UI: UIConfig{
			Color: true,
			Menu:  MenuAuto,
		},
		Quiz: QuizConfig{
			Shuffle: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "climastery.log",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns the config file location in the default data dir.
func DefaultPath() (string, error) {
	dir, err := store.DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}

func (c *Config) applyEnvOverrides() {
	if home := os.Getenv(EnvHome); home != "" {
		c.Storage.DataDir = home
	}
	if backend := os.Getenv(EnvBackend); backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	if os.Getenv(EnvNoColor) != "" {
		c.UI.Color = false
	}
}

var (
	validBackends = []string{BackendFile, BackendSQLite}
	validMenus    = []string{MenuAuto, MenuTUI, MenuPlain}
	validLevels   = []string{"debug", "info", "warn", "error", "off"}
)

// Validate rejects unknown enum values and impossible settings.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validBackends, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("invalid storage backend: %q (valid: %v)", c.Storage.Backend, validBackends))
	}
	if !slices.Contains(validMenus, c.UI.Menu) {
		errs = append(errs, fmt.Errorf("invalid ui menu: %q (valid: %v)", c.UI.Menu, validMenus))
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("invalid log level: %q (valid: %v)", c.Logging.Level, validLevels))
	}
	if c.Storage.SnapshotKeep < 0 {
		errs = append(errs, fmt.Errorf("snapshot_keep must not be negative, got %d", c.Storage.SnapshotKeep))
	}
	if c.Storage.ProgressFile == "" {
		errs = append(errs, errors.New("storage progress_file is empty"))
	}
	if c.Storage.JournalDB == "" && (c.Storage.Journal || c.Storage.Backend == BackendSQLite) {
		errs = append(errs, errors.New("storage journal_db is empty"))
	}
	return errors.Join(errs...)
}

// ResolveDataDir fills an empty DataDir with the default location.
func (c *Config) ResolveDataDir() error {
	if c.Storage.DataDir != "" {
		return nil
	}
	dir, err := store.DefaultDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	c.Storage.DataDir = dir
	return nil
}

// ProgressPath returns the progress file location.
func (c *Config) ProgressPath() string {
	return c.inDataDir(c.Storage.ProgressFile)
}

// JournalPath returns the SQLite database location.
func (c *Config) JournalPath() string {
	return c.inDataDir(c.Storage.JournalDB)
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	return c.inDataDir(c.Logging.File)
}

// NeedsDatabase reports whether the SQLite database must be opened.
func (c *Config) NeedsDatabase() bool {
	return c.Storage.Journal || c.Storage.Backend == BackendSQLite
}

func (c *Config) inDataDir(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Storage.DataDir, p)
}
