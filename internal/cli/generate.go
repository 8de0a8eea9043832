package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/charskema/internal/gen"
	"github.com/reoring/charskema/internal/logger"
)

// ErrOutOfDate is returned by check when the output tree differs from a
// fresh generation.
var ErrOutOfDate = errors.New("generated declarations are out of date")

func (a *app) addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Schema source directory (config: generate.source_dir)")
	cmd.Flags().StringP("out", "o", "", "Output directory (config: generate.out_dir)")
	cmd.Flags().String("import-path", "", "Import path of the source directory (default: from go.mod)")
	cmd.Flags().Bool("probe-custom", false, "Resolve predicate-only custom rules by probing sample values")
	a.bind(cmd, "source", "generate.source_dir")
	a.bind(cmd, "out", "generate.out_dir")
	a.bind(cmd, "import-path", "generate.import_path")
	a.bind(cmd, "probe-custom", "generate.probe_custom")
}

func (a *app) genOptions() gen.Options {
	g := a.cfg.Generate
	return gen.Options{
		SourceDir:   g.SourceDir,
		ImportPath:  g.ImportPath,
		Exclude:     g.Exclude,
		Header:      g.Header,
		ProbeCustom: g.ProbeCustom,
		Logger:      logger.Named("gen"),
	}
}

func (a *app) generateCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate TypeScript declarations from the schema modules",
		Long: `Generate writes one declaration file per schema module, a barrel per
directory and the root version table into the output directory. Generated
files that are no longer produced are removed; hand-written files are kept.

With --watch the declarations are regenerated whenever a Go file below the
source directory changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.generate(cmd); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			a.log.Infow("watching for changes", "dir", a.cfg.Generate.SourceDir)
			return gen.Watch(ctx, a.cfg.Generate.SourceDir, gen.DefaultDebounce, a.log, func() error {
				return a.generate(cmd)
			})
		},
	}
	a.addGenerateFlags(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate on source changes")
	return cmd
}

func (a *app) generate(cmd *cobra.Command) error {
	out, err := gen.Generate(cmd.Context(), a.genOptions())
	if err != nil {
		return err
	}
	dir := a.cfg.Generate.OutDir
	if err := out.Write(dir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated %d files in %s\n", len(out.Files), dir)
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that the generated declarations are up to date",
		Long: `Check regenerates the declarations in memory and compares them with the
output directory without modifying it. It fails when a file is missing,
differs, or is a stale generated file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := gen.Generate(cmd.Context(), a.genOptions())
			if err != nil {
				return err
			}
			res, err := out.Check(a.cfg.Generate.OutDir)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res.UpToDate() {
				fmt.Fprintf(w, "%d files up to date\n", len(out.Files))
				return nil
			}
			for _, p := range res.Missing {
				fmt.Fprintf(w, "missing  %s\n", p)
			}
			for _, p := range res.Changed {
				fmt.Fprintf(w, "changed  %s\n", p)
			}
			for _, p := range res.Stale {
				fmt.Fprintf(w, "stale    %s\n", p)
			}
			return errors.WithHint(ErrOutOfDate, "run charskema generate")
		},
	}
	a.addGenerateFlags(cmd)
	return cmd
}
