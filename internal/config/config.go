package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store types.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// DefaultDebounceMillis is the quiet period the watcher waits for before organizing.
const DefaultDebounceMillis = 2000

// Config represents the main configuration for desksort.
type Config struct {
	DesktopDir       string           `toml:"desktop_dir"`
	SharedDesktopDir string           `toml:"shared_desktop_dir,omitempty"`
	OrganizedDirName string           `toml:"organized_dir_name"`
	BaseDir          string           `toml:"base_dir"`
	LogDir           string           `toml:"log_dir"`
	Store            StoreConfig      `toml:"store"`
	Filesystem       FilesystemConfig `toml:"filesystem"`
	Watch            WatchConfig      `toml:"watch"`
}

// StoreConfig selects where settings and history are persisted.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type    string `toml:"type"`               // "sqlite", "file" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // unused for type=memory
}

// FilesystemConfig holds scan-related settings.
type FilesystemConfig struct {
	// Ignore lists extra glob patterns skipped by scans, on top of hidden files and desktop.ini.
	Ignore []string `toml:"ignore"`
}

// WatchConfig tunes the auto-organize watcher.
type WatchConfig struct {
	DebounceMillis int `toml:"debounce_ms"`
	// IntervalMinutes also organizes on a fixed schedule. Zero disables it.
	IntervalMinutes int `toml:"interval_minutes"`
}

// NewConfig creates a Config with defaults derived from the base and desktop directories.
func NewConfig(baseDir, desktopDir string) *Config {
	return &Config{
		DesktopDir:       desktopDir,
		OrganizedDirName: "DesktopSort",
		BaseDir:          baseDir,
		LogDir:           filepath.Join(baseDir, "log"),
		Store: StoreConfig{
			Type:    StoreSQLite,
			DataDir: filepath.Join(baseDir, "data"),
		},
		Watch: WatchConfig{DebounceMillis: DefaultDebounceMillis},
	}
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DesktopDir, validation.Required),
		validation.Field(&c.OrganizedDirName, validation.Required, validation.By(plainName)),
		validation.Field(&c.LogDir, validation.Required),
		validation.Field(&c.Store),
		validation.Field(&c.Watch),
	)
}

func (s StoreConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Type, validation.Required, validation.In(StoreSQLite, StoreFile, StoreMemory)),
		validation.Field(&s.DataDir, validation.When(s.Type != StoreMemory, validation.Required)),
	)
}

func (w WatchConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.DebounceMillis, validation.Min(0)),
		validation.Field(&w.IntervalMinutes, validation.Min(0)),
	)
}

func plainName(value any) error {
	name, _ := value.(string)
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.New("must be a single folder name")
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config file at path, decoding it over defaults so omitted
// keys keep their default values. A missing file yields defaults unchanged.
func Load(path string, defaults *Config) (*Config, error) {
	cfg := *defaults
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
