package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/schema"
)

// ErrInvalid is returned by validate when at least one file fails.
var ErrInvalid = errors.New("invalid character")

func (a *app) addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Input format: auto, json or yaml (config: input.format)")
	cmd.Flags().Bool("fail-fast", false, "Stop at the first issue")
	a.bind(cmd, "format", "input.format")
	a.bind(cmd, "fail-fast", "input.fail_fast")
}

// loadCharacter decodes and validates one character file.
func (a *app) loadCharacter(cmd *cobra.Command, name string) (map[string]any, schema.SpecVersion, error) {
	b, err := readInput(cmd, name)
	if err != nil {
		return nil, 0, err
	}
	opt, err := a.parseOpt()
	if err != nil {
		return nil, 0, err
	}
	return schema.ParseCharacterFrom(cmd.Context(), source(name, a.cfg.Input.Format, b), opt)
}

func (a *app) validateCmd() *cobra.Command {
	var printValue bool
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate character files",
		Long: `Validate checks JSON or YAML character files against the generation
named by their specVersion and reports every issue with its JSON pointer.
Use - to read stdin. With --print the normalized character, defaults
filled in, is written as JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, name := range args {
				v, ver, err := a.loadCharacter(cmd, name)
				iss, isIssues := charskema.AsIssues(err)
				switch {
				case isIssues:
					failed++
					for _, it := range iss {
						fmt.Fprintf(w, "%s: %s %s: %s\n", name, it.Path, it.Code, it.Message)
					}
					a.log.Debugw("validation failed", "file", name, "issues", len(iss))
					continue
				case err != nil:
					return err
				}
				if printValue {
					out, err := encodeValue("", v)
					if err != nil {
						return err
					}
					if _, err := w.Write(out); err != nil {
						return errors.Wrap(err, "write output")
					}
					continue
				}
				fmt.Fprintf(w, "%s: valid (%s)\n", name, ver)
			}
			if failed > 0 {
				return errors.Wrapf(ErrInvalid, "%d of %d files", failed, len(args))
			}
			return nil
		},
	}
	a.addInputFlags(cmd)
	cmd.Flags().BoolVarP(&printValue, "print", "p", false, "Print the normalized character")
	return cmd
}
