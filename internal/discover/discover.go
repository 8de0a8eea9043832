// Package discover scans a Go source tree for schema modules: files that
// declare exported bindings named with the Schema suffix.
package discover

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/modfile"

	"github.com/reoring/charskema/internal/ir"
)

// Suffix marks an exported binding as a schema.
const Suffix = "Schema"

// DefaultExclude lists the file names never treated as schema modules.
var DefaultExclude = []string{"*_test.go", "doc.go", "register.go", "index.go"}

// Options tunes a scan.
type Options struct {
	// Exclude holds glob patterns matched against file base names. Nil
	// means DefaultExclude.
	Exclude []string
	// ImportPath is the import path of the scanned root. Empty means it is
	// derived from the nearest go.mod.
	ImportPath string
}

// Export is one exported Schema-suffixed binding.
type Export struct {
	Name string
	Line int
}

// Module is one scanned source file.
type Module struct {
	// Path is the slash separated path relative to the scanned root.
	Path string
	// File is the absolute file path.
	File string
	// ImportPath is the import path of the package declaring the module.
	ImportPath string
	Package    string
	// Exports are sorted by name.
	Exports []Export

	comments map[int]string
}

// Dir returns the slash separated directory of the module, "" at the root.
func (m *Module) Dir() string {
	d := path.Dir(m.Path)
	if d == "." {
		return ""
	}
	return d
}

// CommentEndingAt returns the text of a comment group that starts its own
// line and ends on line.
func (m *Module) CommentEndingAt(line int) (string, bool) {
	c, ok := m.comments[line]
	return c, ok
}

// Result is the outcome of a scan.
type Result struct {
	Root       string
	ImportPath string
	// Modules are sorted by Path.
	Modules []*Module

	byFile map[string]*Module
}

// Comment returns the hand-written comment directly above the source line
// at pos. Positions recorded with -trimpath (import path form) match too.
func (r *Result) Comment(pos ir.Pos) (string, bool) {
	if pos.File == "" || pos.Line <= 1 {
		return "", false
	}
	m, ok := r.byFile[filepath.ToSlash(pos.File)]
	if !ok {
		return "", false
	}
	return m.CommentEndingAt(pos.Line - 1)
}

// Scan walks root and parses every non-excluded Go file. Files without
// Schema exports are kept so callers see the full module list.
func Scan(root string, opt Options) (*Result, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(err, "scan source tree")
	}
	if !info.IsDir() {
		return nil, errors.Newf("source %s is not a directory", root)
	}
	importPath := opt.ImportPath
	if importPath == "" {
		importPath, err = ImportPathOf(abs)
		if err != nil {
			return nil, err
		}
	}
	exclude := opt.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	for _, pat := range exclude {
		if _, err := path.Match(pat, ""); err != nil {
			return nil, errors.Wrapf(err, "exclude pattern %q", pat)
		}
	}

	res := &Result{Root: abs, ImportPath: importPath, byFile: map[string]*Module{}}
	fset := token.NewFileSet()
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != abs && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".go" || excluded(name, exclude) {
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		m, err := parseModule(fset, p, filepath.ToSlash(rel), importPath)
		if err != nil {
			return err
		}
		res.Modules = append(res.Modules, m)
		res.byFile[filepath.ToSlash(p)] = m
		res.byFile[path.Join(m.ImportPath, path.Base(m.Path))] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(res.Modules, func(i, j int) bool { return res.Modules[i].Path < res.Modules[j].Path })
	return res, nil
}

func excluded(name string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := path.Match(pat, name); ok {
			return true
		}
	}
	return false
}

func parseModule(fset *token.FileSet, file, rel, rootImport string) (*Module, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", rel)
	}
	f, err := parser.ParseFile(fset, file, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", rel)
	}
	m := &Module{
		Path:       rel,
		File:       filepath.ToSlash(file),
		ImportPath: rootImport,
		Package:    f.Name.Name,
		comments:   map[int]string{},
	}
	if d := path.Dir(rel); d != "." {
		m.ImportPath = path.Join(rootImport, d)
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.VAR && d.Tok != token.CONST {
				continue
			}
			for _, spec := range d.Specs {
				for _, id := range spec.(*ast.ValueSpec).Names {
					m.addExport(fset, id)
				}
			}
		case *ast.FuncDecl:
			if d.Recv == nil {
				m.addExport(fset, d.Name)
			}
		}
	}
	sort.Slice(m.Exports, func(i, j int) bool { return m.Exports[i].Name < m.Exports[j].Name })

	tf := fset.File(f.Pos())
	for _, cg := range f.Comments {
		start := tf.Offset(cg.Pos())
		lineStart := bytes.LastIndexByte(src[:start], '\n') + 1
		if len(bytes.TrimSpace(src[lineStart:start])) != 0 {
			continue
		}
		m.comments[fset.Position(cg.End()).Line] = strings.TrimSpace(cg.Text())
	}
	return m, nil
}

func (m *Module) addExport(fset *token.FileSet, id *ast.Ident) {
	if !id.IsExported() || !strings.HasSuffix(id.Name, Suffix) {
		return
	}
	m.Exports = append(m.Exports, Export{Name: id.Name, Line: fset.Position(id.Pos()).Line})
}

// ImportPathOf derives the import path of dir from the nearest go.mod.
func ImportPathOf(dir string) (string, error) {
	cur := dir
	for {
		data, err := os.ReadFile(filepath.Join(cur, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return "", errors.Newf("%s/go.mod has no module directive", cur)
			}
			rel, err := filepath.Rel(cur, dir)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return mod, nil
			}
			return path.Join(mod, filepath.ToSlash(rel)), nil
		}
		if !os.IsNotExist(err) {
			return "", errors.Wrap(err, "read go.mod")
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", errors.WithHint(errors.Newf("no go.mod above %s", dir), "set the import path explicitly")
		}
		cur = parent
	}
}
