// Package config holds the wrapper's configuration. The original tooling
// sourced a shell vars file before parsing arguments; here defaults are an
// explicit struct, optionally overridden by a YAML file and then by
// VPPTEST_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"vpptest/pkg/log"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is where Load looks when no --config is given.
	DefaultFile = "vpptest.yaml"

	// HistoryDisabled turns off run recording when set as the history value.
	HistoryDisabled = "disabled"

	// DefaultTimeout is forwarded to the harness, which enforces it.
	DefaultTimeout = 20 * time.Minute
)

// Duration lets YAML files spell durations as "20m" instead of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Config carries the default flag values plus the harness invocation knobs.
type Config struct {
	// Default values for the run flags. Arguments on the command line
	// override these per invocation.
	Persist     bool   `yaml:"persist"`
	Debug       bool   `yaml:"debug"`
	Verbose     bool   `yaml:"verbose"`
	Unconfigure bool   `yaml:"unconfigure"`
	Cpus        string `yaml:"cpus"`
	Test        string `yaml:"test"`

	// SuiteDir is the directory containing the go test suite.
	SuiteDir string `yaml:"suite-dir"`
	// Timeout is passed to the harness as -timeout; the harness enforces it.
	Timeout Duration `yaml:"timeout"`
	// History is the run-history database path, or "disabled".
	History string `yaml:"history"`
}

// Default returns the documented defaults: no flags active, full suite,
// suite in the current directory, 20 minute harness timeout.
func Default() Config {
	return Config{
		Test:     "all",
		SuiteDir: ".",
		Timeout:  Duration(DefaultTimeout),
		History:  "~/.vpptest/history.db",
	}
}

// Load builds the effective configuration. The default config file is
// optional, the defaults simply stand when it is absent; a file the user
// asked for by name must exist, a typo there may not silently fall back.
// Environment variables win over the file.
func Load(fs afero.Fs, path string, logger log.Logger) (Config, error) {
	cfg := Default()

	raw, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		logger.Debug("loaded config file", "path", path)
	case os.IsNotExist(err):
		if path != DefaultFile {
			return Config{}, fmt.Errorf("config file %s does not exist", path)
		}
		logger.Debug("no config file, using defaults", "path", path)
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays VPPTEST_* environment variables onto cfg.
func applyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix("vpptest")
	v.AutomaticEnv()
	keys := []string{
		"persist", "debug", "verbose", "unconfigure", "cpus", "test",
		"suite_dir", "timeout", "history",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if v.IsSet("persist") {
		cfg.Persist = v.GetBool("persist")
	}
	if v.IsSet("debug") {
		cfg.Debug = v.GetBool("debug")
	}
	if v.IsSet("verbose") {
		cfg.Verbose = v.GetBool("verbose")
	}
	if v.IsSet("unconfigure") {
		cfg.Unconfigure = v.GetBool("unconfigure")
	}
	if v.IsSet("cpus") {
		cfg.Cpus = v.GetString("cpus")
	}
	if v.IsSet("test") {
		cfg.Test = v.GetString("test")
	}
	if v.IsSet("suite_dir") {
		cfg.SuiteDir = v.GetString("suite_dir")
	}
	if v.IsSet("timeout") {
		d := v.GetDuration("timeout")
		if d <= 0 {
			return fmt.Errorf("invalid VPPTEST_TIMEOUT value %q", v.GetString("timeout"))
		}
		cfg.Timeout = Duration(d)
	}
	if v.IsSet("history") {
		cfg.History = v.GetString("history")
	}
	return nil
}

// Validate checks the invocation knobs. Flag defaults need no checking here;
// flag combinations are validated per run by the dispatcher.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Test == "" {
		return fmt.Errorf("test must not be empty; use \"all\" for the full suite")
	}
	if c.SuiteDir == "" {
		return fmt.Errorf("suite-dir must not be empty")
	}
	return nil
}
