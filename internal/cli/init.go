package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reoring/charskema/schema"
)

// defaultTokenLimit is the lorebook budget of a fresh character.
const defaultTokenLimit = 2048

// newCharacter returns the minimal input of a valid character of the latest
// generation.
func newCharacter(name string) map[string]any {
	return map[string]any{
		schema.VersionKey: int64(schema.Latest),
		"id":              uuid.NewString(),
		"name":            name,
		"description":     "",
		"prompt": map[string]any{
			"description": "",
			"lorebook": map[string]any{
				"config": map[string]any{"tokenLimit": int64(defaultTokenLimit)},
			},
		},
	}
}

func (a *app) initCmd() *cobra.Command {
	var (
		name   string
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a minimal valid character",
		Long: `Init writes a character of the latest generation with a fresh id and
every default filled in, as JSON or as YAML when --output ends in .yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "" && output != "-" && !force {
				if _, err := os.Stat(output); err == nil {
					return errors.WithHint(errors.Newf("%s already exists", output), "pass --force to overwrite")
				}
			}
			character, _, err := schema.ParseCharacter(cmd.Context(), newCharacter(name))
			if err != nil {
				return errors.Wrap(err, "build character")
			}
			data, err := encodeValue(output, character)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "New Character", "Character name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
