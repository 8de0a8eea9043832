// Package gen renders TypeScript declaration files from the schema modules
// of a Go source tree. Modules are found by the discover scanner and their
// rule values are read from the registry populated by the schema packages'
// init functions.
package gen

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/reoring/charskema/dsl/irconv"
	"github.com/reoring/charskema/internal/discover"
	"github.com/reoring/charskema/internal/ir"
	"github.com/reoring/charskema/internal/logger"
	"github.com/reoring/charskema/registry"
)

// GeneratedLine opens every generated file. Files starting with it are owned
// by the generator and removed when stale.
const GeneratedLine = "// Code generated by charskema. DO NOT EDIT."

// Options configures a generation run.
type Options struct {
	// SourceDir is the root of the schema source tree.
	SourceDir string
	// ImportPath of SourceDir; derived from go.mod when empty.
	ImportPath string
	// Exclude overrides discover.DefaultExclude.
	Exclude []string
	// Header lines are added below the generated marker of every file.
	Header []string
	// ProbeCustom resolves predicate-only custom rules by calling the
	// predicate on sample values.
	ProbeCustom bool
	// Registry defaults to registry.Default().
	Registry *registry.Registry
	// Logger defaults to the package logger.
	Logger *zap.SugaredLogger
}

type commentSource interface {
	Comment(pos ir.Pos) (string, bool)
}

type generator struct {
	opt      Options
	log      *zap.SugaredLogger
	reg      *registry.Registry
	comments commentSource
	// index maps rule origins to the exported declaration describing them.
	index map[any]ref
}

// Generate scans opt.SourceDir and renders one declaration file per schema
// module, plus barrel files. Nothing is written to disk.
func Generate(ctx context.Context, opt Options) (*Output, error) {
	res, err := discover.Scan(opt.SourceDir, discover.Options{Exclude: opt.Exclude, ImportPath: opt.ImportPath})
	if err != nil {
		return nil, err
	}
	return generate(ctx, opt, res, res)
}

func generate(ctx context.Context, opt Options, res *discover.Result, comments commentSource) (*Output, error) {
	g := &generator{
		opt:      opt,
		log:      opt.Logger,
		reg:      opt.Registry,
		comments: comments,
		index:    map[any]ref{},
	}
	if g.log == nil {
		g.log = logger.Named("gen")
	}
	if g.reg == nil {
		g.reg = registry.Default()
	}

	mods, err := g.load(res)
	if err != nil {
		return nil, err
	}
	out := &Output{Files: map[string][]byte{}}
	decls := 0
	for _, md := range mods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := newModuleRenderer(g, md).render()
		if err != nil {
			return nil, err
		}
		out.Files[modulePath(md.mod)+".ts"] = []byte(text)
		decls += len(md.exports)
	}
	if err := g.barrels(mods, out); err != nil {
		return nil, err
	}
	g.log.Infow("generated declarations", "root", res.Root, "modules", len(mods), "declarations", decls, "files", len(out.Files))
	return out, nil
}

// load resolves every Schema export to its rule and derives declaration
// names. Modules without exports are dropped.
func (g *generator) load(res *discover.Result) ([]*moduleDecls, error) {
	var mods []*moduleDecls
	dirNames := map[string]map[string]string{}
	for _, mod := range res.Modules {
		if len(mod.Exports) == 0 {
			g.log.Debugw("skipping module without exports", "module", mod.Path)
			continue
		}
		md := &moduleDecls{mod: mod}
		names := dirNames[mod.Dir()]
		if names == nil {
			names = map[string]string{}
			dirNames[mod.Dir()] = names
		}
		for _, e := range mod.Exports {
			v, ok := g.reg.Lookup(mod.ImportPath, e.Name)
			if !ok {
				return nil, &Error{Module: mod.Path, Export: e.Name, Err: errors.WithHintf(
					errors.Wrapf(ErrUnregistered, "%s.%s", mod.ImportPath, e.Name),
					"call registry.Register(%q, %q, %s) from an init function and link the package into the generator", mod.ImportPath, e.Name, e.Name)}
			}
			name, ok := DeriveName(e.Name)
			if !ok {
				return nil, fail(mod.Path, e.Name, ErrInvalidName, "cannot derive a declaration name from %q", e.Name)
			}
			if prev, dup := names[name]; dup {
				return nil, fail(mod.Path, e.Name, ErrDuplicateName, "%s is also declared by %s", name, prev)
			}
			names[name] = mod.Path + ":" + e.Name
			node, err := irconv.FromSchema(v)
			switch {
			case errors.Is(err, irconv.ErrNotRule):
				return nil, fail(mod.Path, e.Name, ErrNotSchema, "value of type %T is not a schema rule", v)
			case err != nil:
				return nil, fail(mod.Path, e.Name, ErrNotSchema, "%v", err)
			}
			md.exports = append(md.exports, exportDecl{export: e, name: name, node: node})
		}
		mods = append(mods, md)
	}
	for _, md := range mods {
		for _, e := range md.exports {
			o := e.node.Origin()
			if o == nil {
				continue
			}
			if _, taken := g.index[o]; !taken {
				g.index[o] = ref{module: md.mod, name: e.name}
			}
		}
	}
	return mods, nil
}

// header renders the generated marker, the configured header lines and
// extra lines as line comments.
func (g *generator) header(extra ...string) string {
	var b strings.Builder
	b.WriteString(GeneratedLine + "\n")
	for _, l := range append(append([]string(nil), g.opt.Header...), extra...) {
		b.WriteString(strings.TrimRight("// "+l, " ") + "\n")
	}
	return b.String()
}

// Output holds generated files keyed by slash separated relative path.
type Output struct {
	Files map[string][]byte
}

// Paths returns the file paths in sorted order.
func (o *Output) Paths() []string {
	paths := make([]string, 0, len(o.Files))
	for p := range o.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Write stores every file below dir and removes generated files that are no
// longer produced. Hand-written files are never touched.
func (o *Output) Write(dir string) error {
	for _, p := range o.Paths() {
		dst := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return errors.Wrapf(err, "create directory for %s", p)
		}
		if err := os.WriteFile(dst, o.Files[p], 0o644); err != nil {
			return errors.Wrapf(err, "write %s", p)
		}
	}
	stale, err := o.stale(dir)
	if err != nil {
		return err
	}
	for _, p := range stale {
		if err := os.Remove(filepath.Join(dir, filepath.FromSlash(p))); err != nil {
			return errors.Wrapf(err, "remove stale %s", p)
		}
	}
	return nil
}
