package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/charskema/codec"
)

func (a *app) transport() (*codec.Transport, error) {
	return codec.Default(a.cfg.Export.Level)
}

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Pack a character into a compressed binary export",
		Long: `Export validates a character file, encodes it as deterministic CBOR and
compresses it with zstd. The blob is written to --output or stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			character, _, err := a.loadCharacter(cmd, args[0])
			if err != nil {
				return err
			}
			t, err := a.transport()
			if err != nil {
				return err
			}
			defer t.Close()
			blob, err := t.Encode(cmd.Context(), character)
			if err != nil {
				return err
			}
			a.log.Infow("exported character", "file", args[0], "bytes", len(blob))
			return writeOutput(cmd, output, blob)
		},
	}
	a.addInputFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().String("level", "", "zstd level: fastest, default, better or best (config: export.level)")
	a.bind(cmd, "level", "export.level")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import BLOB",
		Short: "Unpack and validate a binary export",
		Long: `Import decompresses and decodes an export produced by export, validates
the character and writes it as JSON, or YAML when --output ends in .yaml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			t, err := a.transport()
			if err != nil {
				return err
			}
			defer t.Close()
			character, err := t.Decode(cmd.Context(), blob)
			if err != nil {
				return errors.Wrapf(err, "import %s", args[0])
			}
			data, err := encodeValue(output, character)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
