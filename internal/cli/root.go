// Package cli implements the charskema command line.
package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/config"
	"github.com/reoring/charskema/internal/logger"
	// Linking the schema packages registers every generation for the
	// generator.
	_ "github.com/reoring/charskema/schema/common"
	_ "github.com/reoring/charskema/schema/v1"
)

type app struct {
	cfgFile string
	verbose bool
	jsonLog bool

	// bindings maps flag names to config keys, per command.
	bindings map[*cobra.Command]map[string]string

	v   *viper.Viper
	cfg *config.Config
	log *zap.SugaredLogger
}

// NewRootCmd builds the command tree. Every call returns independent state.
func NewRootCmd() *cobra.Command {
	a := &app{bindings: map[*cobra.Command]map[string]string{}}
	root := &cobra.Command{
		Use:   "charskema",
		Short: "Validate character files and generate their TypeScript declarations",
		Long: `charskema validates versioned character definitions and renders the
schema modules under the source directory as TypeScript declarations.

Configuration is read from charskema.toml or charskema.yaml in the working
directory and from CHARSKEMA_* environment variables; flags win over both.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "Config file (default: ./charskema.{toml,yaml})")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.jsonLog, "log-json", false, "Log as JSON")

	root.AddCommand(
		a.generateCmd(),
		a.checkCmd(),
		a.validateCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.initCmd(),
		a.jsonschemaCmd(),
	)
	return root
}

// bind ties a flag of cmd to a config key. Bound flags override the config
// only when set on the command line.
func (a *app) bind(cmd *cobra.Command, flag, key string) {
	if a.bindings[cmd] == nil {
		a.bindings[cmd] = map[string]string{}
	}
	a.bindings[cmd][flag] = key
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := logger.Initialize(a.verbose, a.jsonLog); err != nil {
		return errors.Wrap(err, "initialize logger")
	}
	a.log = logger.Named("cli")

	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	for flag, key := range a.bindings[cmd] {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "bind --%s", flag)
		}
	}
	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}
	a.v, a.cfg = v, cfg
	if used := v.ConfigFileUsed(); used != "" {
		a.log.Debugw("loaded config", "file", used)
	}
	return nil
}

func (a *app) parseOpt() (charskema.ParseOpt, error) {
	opt, err := a.cfg.Input.ParseOpt()
	if err != nil {
		return opt, err
	}
	opt.OnWarning = func(it charskema.Issue) {
		a.log.Warnw("input warning", "path", it.Path, "code", it.Code, "message", it.Message)
	}
	return opt, nil
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return b, errors.Wrap(err, "read stdin")
	}
	b, err := os.ReadFile(name)
	return b, errors.Wrapf(err, "read %s", name)
}

func isYAML(name, format string) bool {
	switch format {
	case "yaml":
		return true
	case "json":
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// source wraps raw input bytes in the decoder matching the format.
func source(name, format string, b []byte) charskema.Source {
	if isYAML(name, format) {
		return charskema.YAMLBytes(b)
	}
	return charskema.JSONBytes(b)
}

// encodeValue renders v as indented JSON, or YAML when name says so.
func encodeValue(name string, v any) ([]byte, error) {
	if isYAML(name, "auto") {
		b, err := yaml.Marshal(v)
		return b, errors.Wrap(err, "encode yaml")
	}
	// Compact marshal then indent: MarshalIndent does not terminate on the
	// recursive *jsonschema.Schema tree.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, errors.Wrap(err, "indent json")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// writeOutput writes data to name, or to the command output when name is
// empty or "-".
func writeOutput(cmd *cobra.Command, name string, data []byte) error {
	if name == "" || name == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return errors.Wrap(err, "write output")
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", name)
	}
	return errors.Wrapf(os.WriteFile(name, data, 0o644), "write %s", name)
}
