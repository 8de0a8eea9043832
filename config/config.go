// Package config loads generator and CLI settings with viper. Sources, from
// lowest to highest precedence: built-in defaults, a charskema.toml or
// charskema.yaml file, CHARSKEMA_* environment variables and command flags
// bound by the caller.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/discover"
)

// EnvPrefix is the prefix of environment overrides:
// CHARSKEMA_GENERATE_OUT_DIR overrides generate.out_dir.
const EnvPrefix = "CHARSKEMA"

// FileName is the base name of the project config file.
const FileName = "charskema"

// Config is the complete tool configuration.
type Config struct {
	Generate GenerateConfig `mapstructure:"generate"`
	Input    InputConfig    `mapstructure:"input"`
	Export   ExportConfig   `mapstructure:"export"`
}

// GenerateConfig drives the declaration generator.
type GenerateConfig struct {
	SourceDir string `mapstructure:"source_dir"`
	OutDir    string `mapstructure:"out_dir"`
	// ImportPath of SourceDir; empty derives it from go.mod.
	ImportPath  string   `mapstructure:"import_path"`
	Exclude     []string `mapstructure:"exclude"`
	Header      []string `mapstructure:"header"`
	ProbeCustom bool     `mapstructure:"probe_custom"`
}

// InputConfig controls how character files are read.
type InputConfig struct {
	// Format is "auto", "json" or "yaml". Auto picks by file extension.
	Format        string `mapstructure:"format"`
	MaxDepth      int    `mapstructure:"max_depth"`
	MaxBytes      int64  `mapstructure:"max_bytes"`
	DuplicateKeys string `mapstructure:"duplicate_keys"`
	FailFast      bool   `mapstructure:"fail_fast"`
}

// ExportConfig controls export blobs.
type ExportConfig struct {
	// Level is the zstd level name.
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key with its default. Keys without a default
// are invisible to environment overrides.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generate.source_dir", "schema")
	v.SetDefault("generate.out_dir", "ts")
	v.SetDefault("generate.import_path", "")
	v.SetDefault("generate.exclude", discover.DefaultExclude)
	v.SetDefault("generate.header", []string{})
	v.SetDefault("generate.probe_custom", false)

	v.SetDefault("input.format", "auto")
	v.SetDefault("input.max_depth", 64)
	v.SetDefault("input.max_bytes", int64(16<<20))
	v.SetDefault("input.duplicate_keys", "error")
	v.SetDefault("input.fail_fast", false)

	v.SetDefault("export.level", "default")
}

// New returns a viper instance with defaults and environment binding. An
// empty file searches charskema.{toml,yaml,yml} in the working directory
// and tolerates its absence; an explicit file must exist.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
		return v, nil
	}
	v.SetConfigName(FileName)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}
	return v, nil
}

// Load reads the configuration from file, or from the default search path
// when file is empty.
func Load(file string) (*Config, error) {
	v, err := New(file)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper decodes and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Input.Format {
	case "auto", "json", "yaml":
	default:
		return errors.WithHint(errors.Newf("input.format: unknown format %q", c.Input.Format), "use auto, json or yaml")
	}
	if _, err := c.Input.severity(); err != nil {
		return err
	}
	if c.Input.MaxDepth < 0 {
		return errors.Newf("input.max_depth: must not be negative, got %d", c.Input.MaxDepth)
	}
	if c.Input.MaxBytes < 0 {
		return errors.Newf("input.max_bytes: must not be negative, got %d", c.Input.MaxBytes)
	}
	if c.Generate.SourceDir == "" {
		return errors.New("generate.source_dir: must be set")
	}
	return nil
}

func (c InputConfig) severity() (charskema.Severity, error) {
	switch strings.ToLower(c.DuplicateKeys) {
	case "error", "":
		return charskema.Error, nil
	case "warn":
		return charskema.Warn, nil
	case "ignore":
		return charskema.Ignore, nil
	}
	return 0, errors.WithHint(errors.Newf("input.duplicate_keys: unknown severity %q", c.DuplicateKeys), "use error, warn or ignore")
}

// ParseOpt converts the input settings to parse options.
func (c InputConfig) ParseOpt() (charskema.ParseOpt, error) {
	sev, err := c.severity()
	if err != nil {
		return charskema.ParseOpt{}, err
	}
	return charskema.ParseOpt{
		DuplicateKeys: sev,
		MaxDepth:      c.MaxDepth,
		MaxBytes:      c.MaxBytes,
		FailFast:      c.FailFast,
	}, nil
}
