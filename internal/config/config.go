// Package config loads hsl.toml, the engine settings shared by the CLI
// commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hsl/internal/trace"
)

// FileName is the name Find looks for.
const FileName = "hsl.toml"

// Config mirrors hsl.toml.
type Config struct {
	Engine  Engine  `toml:"engine"`
	Trace   Trace   `toml:"trace"`
	Modules Modules `toml:"modules"`
}

type Engine struct {
	MaxSteps       int  `toml:"max_steps"`
	MaxCallDepth   int  `toml:"max_call_depth"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
	WarnShadowing  bool `toml:"warn_shadowing"`
}

type Trace struct {
	Level  string `toml:"level"`  // off|phase|detail|debug
	Output string `toml:"output"` // path, "-" for stderr
	Format string `toml:"format"` // auto|text|ndjson
}

// Modules selects the bundled modules; an empty list enables all of them.
type Modules struct {
	Enabled []string `toml:"enabled"`
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Engine: Engine{MaxDiagnostics: 100},
		Trace:  Trace{Level: "off", Output: "-", Format: "auto"},
	}
}

// Load decodes path on top of Default. Unknown keys are an error so typos
// do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that TOML typing cannot.
func (c Config) Validate() error {
	var errs []error
	if c.Engine.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("engine.max_steps must not be negative"))
	}
	if c.Engine.MaxCallDepth < 0 {
		errs = append(errs, fmt.Errorf("engine.max_call_depth must not be negative"))
	}
	if c.Engine.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("engine.max_diagnostics must not be negative"))
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Find walks up from startDir to locate hsl.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads explicit when set, otherwise the nearest hsl.toml above
// startDir, otherwise Default. It returns the path it loaded, if any.
func Discover(explicit, startDir string) (Config, string, error) {
	path := explicit
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return Config{}, "", err
		}
		if !ok {
			return Default(), "", nil
		}
		path = found
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}
