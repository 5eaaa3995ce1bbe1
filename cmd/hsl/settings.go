package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hsl/internal/config"
	"hsl/internal/driver"
	"hsl/internal/stdlib"
)

// settings is the effective configuration of one invocation: hsl.toml
// overridden by flags.
type settings struct {
	cfg        config.Config
	configPath string
	color      bool
	timings    bool
	opts       driver.Options
}

var (
	current  settings
	cleanups []func()
)

func setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	explicit, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, path, err := config.Discover(explicit, "")
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := resolveColor(colorFlag, os.Stderr)
	if err != nil {
		return err
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	reg, err := stdlib.Registry(cfg.Modules.Enabled...)
	if err != nil {
		return err
	}

	current = settings{
		cfg:        cfg,
		configPath: path,
		color:      useColor,
		timings:    timings,
		opts: driver.Options{
			MaxDiagnostics: cfg.Engine.MaxDiagnostics,
			MaxSteps:       cfg.Engine.MaxSteps,
			MaxCallDepth:   cfg.Engine.MaxCallDepth,
			WarnShadowing:  cfg.Engine.WarnShadowing,
			Registry:       reg,
			Stdout:         cmd.OutOrStdout(),
			Timings:        timings,
		},
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProfiling)

	stopTracing, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopTracing)
	return nil
}

// teardown runs cleanups in reverse order; calling it twice is harmless.
func teardown() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("max-diagnostics") {
		n, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		cfg.Engine.MaxDiagnostics = n
	}
	if flags.Changed("modules") {
		mods, err := flags.GetStringSlice("modules")
		if err != nil {
			return fmt.Errorf("failed to get modules flag: %w", err)
		}
		cfg.Modules.Enabled = mods
	}
	for flag, dst := range map[string]*string{
		"trace":        &cfg.Trace.Output,
		"trace-level":  &cfg.Trace.Level,
		"trace-format": &cfg.Trace.Format,
	} {
		if !flags.Changed(flag) {
			continue
		}
		v, err := flags.GetString(flag)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		*dst = v
	}
	// --trace без уровня включает фазы
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
	}
	return nil
}

func resolveColor(value string, f *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}
