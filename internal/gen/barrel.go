package gen

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/charskema/internal/ir"
)

const (
	versionedExport = "CharacterSchema"
	versionField    = "specVersion"
)

// barrels adds an index.ts per directory re-exporting its modules and
// subdirectories, a sibling <dir>.ts re-exporting each non-root index, and
// the version table in the root index.
func (g *generator) barrels(mods []*moduleDecls, out *Output) error {
	if len(mods) == 0 {
		return nil
	}
	files := map[string][]string{"": nil}
	children := map[string]map[string]bool{}
	for _, md := range mods {
		dir := md.mod.Dir()
		files[dir] = append(files[dir], path.Base(modulePath(md.mod)))
		for d := dir; d != ""; d = parentDir(d) {
			p := parentDir(d)
			if children[p] == nil {
				children[p] = map[string]bool{}
			}
			children[p][path.Base(d)] = true
			if _, ok := files[p]; !ok {
				files[p] = nil
			}
		}
		if _, ok := files[dir]; !ok {
			files[dir] = nil
		}
	}
	dirs := make([]string, 0, len(files))
	for d := range files {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	versions, err := g.versions(mods)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		var b strings.Builder
		b.WriteString(g.header())
		if dir == "" && len(versions) > 0 {
			b.WriteString("\n")
			for _, v := range versions {
				b.WriteString("import type { " + v.name + " as " + v.alias + " } from " + quote(relImport("", v.path)) + ";\n")
			}
		}
		b.WriteString("\n")
		names := append([]string(nil), files[dir]...)
		sort.Strings(names)
		for _, n := range names {
			b.WriteString("export * from " + quote("./"+n) + ";\n")
		}
		subs := make([]string, 0, len(children[dir]))
		for s := range children[dir] {
			subs = append(subs, s)
		}
		sort.Strings(subs)
		for _, s := range subs {
			if !validIdent(s) {
				return fail(path.Join(dir, s), "", ErrInvalidName, "directory %q cannot be re-exported as a namespace", s)
			}
			b.WriteString("export * as " + s + " from " + quote("./"+s) + ";\n")
		}
		if dir == "" && len(versions) > 0 {
			writeVersionTable(&b, versions)
		}

		index := path.Join(dir, "index.ts")
		if _, clash := out.Files[index]; clash {
			return fail(index, "", ErrDuplicateName, "barrel collides with a generated module")
		}
		out.Files[index] = []byte(b.String())
		if dir == "" {
			continue
		}
		sibling := dir + ".ts"
		if _, clash := out.Files[sibling]; clash {
			return fail(sibling, "", ErrDuplicateName, "directory barrel collides with a generated module")
		}
		out.Files[sibling] = []byte(g.header() + "\nexport * from " + quote("./"+path.Base(dir)+"/index") + ";\n")
	}
	return nil
}

func parentDir(d string) string {
	p := path.Dir(d)
	if p == "." {
		return ""
	}
	return p
}

type versionEntry struct {
	key    string // rendered literal
	name   string
	alias  string
	path   string
	schema string
}

// versions collects the Character exports pinned to a specVersion literal.
func (g *generator) versions(mods []*moduleDecls) ([]versionEntry, error) {
	var out []versionEntry
	seen := map[string]string{}
	for _, md := range mods {
		for _, e := range md.exports {
			if e.export.Name != versionedExport {
				continue
			}
			obj, ok := e.node.(*ir.Object)
			if !ok {
				continue
			}
			f, ok := obj.Field(versionField)
			if !ok {
				continue
			}
			lit, ok := f.Node.(*ir.Literal)
			if !ok {
				continue
			}
			key := literal(lit.Value)
			if prev, dup := seen[key]; dup {
				return nil, fail(md.mod.Path, e.export.Name, ErrDuplicateName, "specVersion %s is also declared by %s", key, prev)
			}
			seen[key] = md.mod.Path
			out = append(out, versionEntry{
				key:    key,
				name:   e.name,
				alias:  "CharacterV" + pascal(strings.Trim(key, `"`)),
				path:   modulePath(md.mod),
				schema: md.mod.ImportPath + "." + e.export.Name,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.ParseFloat(out[i].key, 64)
		b, errB := strconv.ParseFloat(out[j].key, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return out[i].key < out[j].key
	})
	return out, nil
}

func writeVersionTable(b *strings.Builder, versions []versionEntry) {
	b.WriteString("\n/** Character declarations keyed by specVersion. */\n")
	b.WriteString("export interface CharacterSpecVersions {\n")
	for _, v := range versions {
		b.WriteString(indent(1) + v.key + ": { value: " + v.alias + "; schema: " + quote(v.schema) + " };\n")
	}
	b.WriteString("}\n\n")
	b.WriteString("export type SpecVersion = keyof CharacterSpecVersions;\n\n")
	b.WriteString("export const LatestSpecVersion = " + versions[len(versions)-1].key + ";\n\n")
	b.WriteString("export type LatestCharacter = CharacterSpecVersions[typeof LatestSpecVersion][\"value\"];\n\n")
	b.WriteString("export type { LatestCharacter as default };\n")
}
