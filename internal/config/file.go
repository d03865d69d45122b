package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"
)

// Browser backends.
const (
	BackendStatic = "static"
	BackendRod    = "rod"
)

// DefaultActionTimeout bounds the implicit wait of element actions.
const DefaultActionTimeout = 5 * time.Second

// File is the configuration file of the rodtl command.
type File struct {
	Log     Log
	Library Delta
	Browser Browser
}

// Log configures logging.
type Log struct {
	Level slog.Level
	// Dev adds source locations to log records.
	Dev bool
}

// Browser configures the browser backend.
type Browser struct {
	// Backend is BackendStatic or BackendRod.
	Backend string
	// Bin is the browser executable; empty lets rod download one.
	Bin string
	// Headless hides the browser window.
	Headless bool
	// ActionTimeout bounds the implicit wait of element actions.
	ActionTimeout time.Duration
}

// DefaultPath is where the command looks for its configuration file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "rodtl.yaml")
}

// DefaultFile returns the file configuration with all default values
// populated.
func DefaultFile() *File {
	return &File{
		Log: Log{Level: slog.LevelInfo},
		Browser: Browser{
			Backend:       BackendStatic,
			Headless:      true,
			ActionTimeout: DefaultActionTimeout,
		},
	}
}

// Config resolves the query configuration of the file over the defaults.
func (f *File) Config() Config {
	return Default().Apply(f.Library)
}

// Validate checks the file against the configuration rules.
func (f *File) Validate() error {
	vars := f.Config().activation()
	vars["log_level"] = f.Log.Level.String()
	vars["backend"] = f.Browser.Backend
	vars["action_timeout"] = f.Browser.ActionTimeout.Milliseconds()
	return fileRules.validate(vars)
}

// fileYAML mirrors File with optional fields, so that absent keys keep their
// defaults.
type fileYAML struct {
	Log struct {
		Level *string `yaml:"level"`
		Dev   *bool   `yaml:"dev"`
	} `yaml:"log"`
	Library struct {
		TestIDAttribute        *string `yaml:"test_id_attribute"`
		AsyncUtilTimeout       *int64  `yaml:"async_util_timeout"`
		AsyncUtilExpectedState *string `yaml:"async_util_expected_state"`
		SerializationDepth     *int64  `yaml:"serialization_depth"`
	} `yaml:"library"`
	Browser struct {
		Backend       *string `yaml:"backend"`
		Bin           *string `yaml:"bin"`
		Headless      *bool   `yaml:"headless"`
		ActionTimeout *int64  `yaml:"action_timeout"`
	} `yaml:"browser"`
}

// Load loads a YAML configuration file from a path, merges it with defaults,
// and validates it.
func Load(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	raw := fileYAML{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}

	cfg := DefaultFile()
	if err = raw.mergeInto(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (raw fileYAML) mergeInto(cfg *File) error {
	if raw.Log.Level != nil {
		if err := cfg.Log.Level.UnmarshalText([]byte(*raw.Log.Level)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	if raw.Log.Dev != nil {
		cfg.Log.Dev = *raw.Log.Dev
	}
	cfg.Library = Delta{
		TestIDAttribute:        null.StringFromPtr(raw.Library.TestIDAttribute),
		AsyncUtilTimeout:       null.IntFromPtr(raw.Library.AsyncUtilTimeout),
		AsyncUtilExpectedState: null.StringFromPtr(raw.Library.AsyncUtilExpectedState),
		SerializationDepth:     null.IntFromPtr(raw.Library.SerializationDepth),
	}
	if raw.Browser.Backend != nil {
		cfg.Browser.Backend = *raw.Browser.Backend
	}
	if raw.Browser.Bin != nil {
		cfg.Browser.Bin = *raw.Browser.Bin
	}
	if raw.Browser.Headless != nil {
		cfg.Browser.Headless = *raw.Browser.Headless
	}
	if raw.Browser.ActionTimeout != nil {
		cfg.Browser.ActionTimeout = time.Duration(*raw.Browser.ActionTimeout) * time.Millisecond
	}
	return nil
}

// Marshal renders f as YAML.
func (f *File) Marshal() ([]byte, error) {
	cfg := f.Config()
	raw := map[string]any{
		"log": map[string]any{
			"level": f.Log.Level.String(),
			"dev":   f.Log.Dev,
		},
		"library": map[string]any{
			"test_id_attribute":         cfg.TestIDAttribute,
			"async_util_timeout":        cfg.AsyncUtilTimeout.Milliseconds(),
			"async_util_expected_state": string(cfg.AsyncUtilExpectedState),
			"serialization_depth":       cfg.SerializationDepth,
		},
		"browser": map[string]any{
			"backend":        f.Browser.Backend,
			"bin":            f.Browser.Bin,
			"headless":       f.Browser.Headless,
			"action_timeout": f.Browser.ActionTimeout.Milliseconds(),
		},
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	return data, nil
}
