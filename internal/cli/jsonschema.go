package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	js "github.com/reoring/charskema/jsonschema"
	"github.com/reoring/charskema/schema"
)

func (a *app) jsonschemaCmd() *cobra.Command {
	var (
		version int
		output  string
	)
	cmd := &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the JSON Schema of a character generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := schema.SpecVersion(version)
			rule, ok := schema.Lookup(v)
			if !ok {
				return errors.WithHintf(errors.Newf("unknown spec version %d", version), "known versions: %v", schema.Versions())
			}
			doc, err := rule.JSONSchema()
			if err != nil {
				return errors.Wrapf(err, "project %s", v)
			}
			doc.Schema = js.Draft
			doc.Title = "Character " + v.String()
			data, err := encodeValue("", doc)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().IntVar(&version, "spec-version", int(schema.Latest), "Spec version")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
