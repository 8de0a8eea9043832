package gen

import (
	"path"
	"sort"
	"strings"

	"github.com/reoring/charskema/internal/discover"
	"github.com/reoring/charskema/internal/ir"
)

// ref points at an exported declaration.
type ref struct {
	module *discover.Module
	name   string
}

type exportDecl struct {
	export discover.Export
	name   string
	node   ir.Node
}

type moduleDecls struct {
	mod     *discover.Module
	exports []exportDecl
}

type auxDecl struct {
	name string
	doc  []string
	body string
}

type importName struct {
	name  string
	alias string
}

// moduleRenderer renders the declarations of one module. Nodes are
// identified by their origin: references to exported rules become type
// references, shared and recursive nodes become auxiliary declarations.
type moduleRenderer struct {
	g  *generator
	md *moduleDecls

	export  string
	counts  map[any]int
	aux     map[any]string
	auxDecl []auxDecl
	bodies  map[string]string
	taken   map[string]bool
	imports map[*discover.Module][]importName
}

func newModuleRenderer(g *generator, md *moduleDecls) *moduleRenderer {
	r := &moduleRenderer{
		g:       g,
		md:      md,
		counts:  map[any]int{},
		aux:     map[any]string{},
		bodies:  map[string]string{},
		taken:   map[string]bool{},
		imports: map[*discover.Module][]importName{},
	}
	for _, e := range md.exports {
		r.taken[e.name] = true
	}
	return r
}

func (r *moduleRenderer) render() (string, error) {
	for _, e := range r.md.exports {
		r.count(e.node, e.node.Origin(), map[any]bool{})
	}
	var decls strings.Builder
	for i, e := range r.md.exports {
		r.export = e.export.Name
		body, err := r.root(e.node, e.name)
		if err != nil {
			return "", err
		}
		doc := docLines(*e.node.Annotations(), nil, false)
		if len(doc) == 0 {
			if c, ok := r.md.mod.CommentEndingAt(e.export.Line - 1); ok {
				doc = strings.Split(c, "\n")
			}
		}
		if i > 0 {
			decls.WriteString("\n")
		}
		writeDoc(&decls, "", doc)
		decls.WriteString("export type " + e.name + " = " + body + ";\n")
		r.g.log.Debugw("rendered declaration", "module", r.md.mod.Path, "export", e.export.Name, "name", e.name)
	}
	sort.Slice(r.auxDecl, func(i, j int) bool { return r.auxDecl[i].name < r.auxDecl[j].name })
	for _, a := range r.auxDecl {
		decls.WriteString("\n")
		writeDoc(&decls, "", a.doc)
		decls.WriteString("type " + a.name + " = " + a.body + ";\n")
	}

	var b strings.Builder
	b.WriteString(r.g.header("Source: " + r.md.mod.Path))
	if imp := r.renderImports(); imp != "" {
		b.WriteString("\n" + imp)
	}
	b.WriteString("\n" + decls.String())
	return b.String(), nil
}

// count records how often each composite node is reached from the module's
// exports, stopping at references to other exported rules.
func (r *moduleRenderer) count(n ir.Node, current any, lazies map[any]bool) {
	if n == nil {
		return
	}
	o := n.Origin()
	if o != nil && o != current {
		if _, exported := r.g.index[o]; exported {
			return
		}
	}
	switch n.(type) {
	case *ir.Object, *ir.Union, *ir.Intersection:
		if o != nil {
			r.counts[o]++
			if r.counts[o] > 1 {
				return
			}
		}
	}
	switch t := n.(type) {
	case *ir.Array:
		r.count(t.Item, current, lazies)
	case *ir.Object:
		for _, f := range t.Fields {
			r.count(f.Node, current, lazies)
		}
	case *ir.Union:
		for _, v := range t.Variants {
			r.count(v.Node, current, lazies)
		}
	case *ir.Intersection:
		for _, p := range t.Parts {
			r.count(p, current, lazies)
		}
	case *ir.Custom:
		r.count(t.Refines, current, lazies)
	case *ir.Lazy:
		if !lazies[o] {
			lazies[o] = true
			r.count(t.Resolve(), current, lazies)
		}
	}
}

// root renders the body of an exported declaration. Nested references to
// the export itself resolve to its name through the index.
func (r *moduleRenderer) root(n ir.Node, name string) (string, error) {
	if ov := n.Annotations().TypeOverride; ov != "" {
		return ov, nil
	}
	return r.inline(n, 0, name)
}

func (r *moduleRenderer) typeExpr(n ir.Node, level int, hint string) (string, error) {
	if n == nil {
		return "", fail(r.md.mod.Path, r.export, ErrNotSchema, "rule at %s cannot describe itself", hint)
	}
	if ov := n.Annotations().TypeOverride; ov != "" {
		return ov, nil
	}
	o := n.Origin()
	if o == nil {
		return r.inline(n, level, hint)
	}
	if target, ok := r.g.index[o]; ok {
		return r.use(target)
	}
	if name, ok := r.aux[o]; ok {
		return name, nil
	}
	if lz, ok := n.(*ir.Lazy); ok {
		return r.hoistLazy(lz, hint)
	}
	if r.shouldHoist(n) {
		return r.hoist(n, hint)
	}
	return r.inline(n, level, hint)
}

func (r *moduleRenderer) shouldHoist(n ir.Node) bool {
	if n.Annotations().Name != "" {
		return true
	}
	switch n.(type) {
	case *ir.Object, *ir.Union, *ir.Intersection:
		return r.counts[n.Origin()] > 1
	}
	return false
}

func (r *moduleRenderer) hoist(n ir.Node, hint string) (string, error) {
	m := n.Annotations()
	body, err := r.inline(n, 0, hint)
	if err != nil {
		return "", err
	}
	if name, ok := r.bodies[body]; ok && m.Name == "" {
		r.aux[n.Origin()] = name
		return name, nil
	}
	name, err := r.claim(m.Name, hint)
	if err != nil {
		return "", err
	}
	r.aux[n.Origin()] = name
	r.bodies[body] = name
	r.auxDecl = append(r.auxDecl, auxDecl{name: name, doc: docLines(*m, nil, false), body: body})
	return name, nil
}

func (r *moduleRenderer) hoistLazy(lz *ir.Lazy, hint string) (string, error) {
	res := lz.Resolve()
	if res == nil {
		return "", fail(r.md.mod.Path, r.export, ErrNotSchema, "lazy rule %s resolves to an opaque rule", lz.Name)
	}
	if target, ok := r.g.index[res.Origin()]; ok && res.Origin() != nil {
		return r.use(target)
	}
	name, err := r.claim(lz.Name, hint)
	if err != nil {
		return "", err
	}
	r.aux[lz.Origin()] = name
	if o := res.Origin(); o != nil {
		r.aux[o] = name
	}
	body, err := r.root(res, name)
	if err != nil {
		return "", err
	}
	r.bodies[body] = name
	doc := docLines(lz.Meta, nil, false)
	if len(doc) == 0 {
		doc = docLines(*res.Annotations(), nil, false)
	}
	r.auxDecl = append(r.auxDecl, auxDecl{name: name, doc: doc, body: body})
	return name, nil
}

// claim reserves an auxiliary declaration name. Explicit names must be free;
// derived names get a numeric suffix on collision.
func (r *moduleRenderer) claim(explicit, hint string) (string, error) {
	if explicit != "" {
		name := explicit
		if !validIdent(name) {
			name = pascal(name)
		}
		if !validIdent(name) {
			return "", fail(r.md.mod.Path, r.export, ErrInvalidName, "auxiliary name %q is not an identifier", explicit)
		}
		if reserved[name] {
			name += "Type"
		}
		if r.taken[name] {
			return "", fail(r.md.mod.Path, r.export, ErrDuplicateName, "auxiliary declaration %s is declared twice", name)
		}
		r.taken[name] = true
		return name, nil
	}
	base := hint
	if !validIdent(base) {
		base = pascal(base)
	}
	if reserved[base] {
		base += "Type"
	}
	name := base
	for i := 2; r.taken[name]; i++ {
		name = base + itoa(i)
	}
	r.taken[name] = true
	return name, nil
}

// use returns the local name of an exported declaration, importing it when
// it lives in another module.
func (r *moduleRenderer) use(target ref) (string, error) {
	if target.module == r.md.mod {
		return target.name, nil
	}
	for _, in := range r.imports[target.module] {
		if in.name == target.name {
			return in.alias, nil
		}
	}
	alias := target.name
	if r.taken[alias] {
		alias = pascal(path.Base(target.module.Dir())) + target.name
		if r.taken[alias] {
			return "", fail(r.md.mod.Path, r.export, ErrDuplicateName, "imported %s from %s collides with a local declaration", target.name, target.module.Path)
		}
	}
	r.taken[alias] = true
	r.imports[target.module] = append(r.imports[target.module], importName{name: target.name, alias: alias})
	return alias, nil
}

func (r *moduleRenderer) renderImports() string {
	mods := make([]*discover.Module, 0, len(r.imports))
	for m := range r.imports {
		mods = append(mods, m)
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Path < mods[j].Path })
	var b strings.Builder
	for _, m := range mods {
		names := append([]importName(nil), r.imports[m]...)
		sort.Slice(names, func(i, j int) bool { return names[i].name < names[j].name })
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = n.name
			if n.alias != n.name {
				parts[i] += " as " + n.alias
			}
		}
		b.WriteString("import type { " + strings.Join(parts, ", ") + " } from " + quote(relImport(r.md.mod.Dir(), modulePath(m))) + ";\n")
	}
	return b.String()
}

func (r *moduleRenderer) inline(n ir.Node, level int, hint string) (string, error) {
	switch t := n.(type) {
	case *ir.Primitive:
		switch t.Name {
		case "string", "boolean", "null":
			return t.Name, nil
		case "number", "integer":
			return "number", nil
		}
		return "unknown", nil
	case *ir.Literal:
		return literal(t.Value), nil
	case *ir.Enum:
		if len(t.Values) == 0 {
			return "never", nil
		}
		parts := make([]string, len(t.Values))
		for i, v := range t.Values {
			parts[i] = quote(v)
		}
		return strings.Join(parts, " | "), nil
	case *ir.Array:
		item, err := r.typeExpr(t.Item, level, hint+"Item")
		if err != nil {
			return "", err
		}
		if hasTopLevelOp(item) {
			return "(" + item + ")[]", nil
		}
		return item + "[]", nil
	case *ir.Object:
		return r.object(t, level, hint)
	case *ir.Union:
		parts := make([]string, 0, len(t.Variants))
		for i, v := range t.Variants {
			label := v.Tag
			if label == "" {
				label = itoa(i + 1)
			}
			s, err := r.typeExpr(v.Node, level, hint+pascal(label))
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " | "), nil
	case *ir.Intersection:
		parts := make([]string, 0, len(t.Parts))
		for i, p := range t.Parts {
			s, err := r.typeExpr(p, level, hint+"Part"+itoa(i+1))
			if err != nil {
				return "", err
			}
			if hasTopLevelOp(s) {
				s = "(" + s + ")"
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " & "), nil
	case *ir.Custom:
		ts, ok, err := r.customType(t, level, hint)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", &Error{Module: r.md.mod.Path, Export: r.export, Err: withHint(ErrUnresolvedCustom, hint)}
		}
		return ts, nil
	case *ir.Lazy:
		res := t.Resolve()
		if res == nil {
			return "", fail(r.md.mod.Path, r.export, ErrNotSchema, "lazy rule %s resolves to an opaque rule", t.Name)
		}
		return r.typeExpr(res, level, hint)
	}
	return "", fail(r.md.mod.Path, r.export, ErrNotSchema, "unsupported node kind %s", n.Kind())
}

func (r *moduleRenderer) object(o *ir.Object, level int, hint string) (string, error) {
	if len(o.Fields) == 0 {
		if o.Strict {
			return "Record<string, never>", nil
		}
		return "Record<string, unknown>", nil
	}
	pad := indent(level + 1)
	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range o.Fields {
		ts, err := r.typeExpr(f.Node, level+1, hint+pascal(f.Name))
		if err != nil {
			return "", err
		}
		if text, ok := r.g.comments.Comment(f.Pos); ok {
			writeDoc(&b, pad, strings.Split(text, "\n"))
		} else {
			writeDoc(&b, pad, docLines(r.fieldMeta(f), f.Default, f.HasDefault))
		}
		mark := ""
		if f.Optional {
			mark = "?"
		}
		b.WriteString(pad + propertyKey(f.Name) + mark + ": " + ts + ";\n")
	}
	b.WriteString(indent(level) + "}")
	return b.String(), nil
}

// fieldMeta is the documentation of f, falling back to the documentation of
// its rule when the rule is rendered inline.
func (r *moduleRenderer) fieldMeta(f ir.Field) ir.Meta {
	if !f.Meta.Empty() || f.Node == nil {
		return f.Meta
	}
	if o := f.Node.Origin(); o != nil {
		if _, exported := r.g.index[o]; exported {
			return f.Meta
		}
		if _, hoisted := r.aux[o]; hoisted {
			return f.Meta
		}
	}
	m := *f.Node.Annotations()
	m.TypeOverride, m.Name = "", ""
	return m
}

// hasTopLevelOp reports whether a type expression has a union or
// intersection operator outside of any brackets.
func hasTopLevelOp(s string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{' || c == '(' || c == '[' || c == '<':
			depth++
		case c == '}' || c == ')' || c == ']' || c == '>':
			depth--
		case depth == 0 && (c == '|' || c == '&'):
			return true
		}
	}
	return false
}

// relImport is the relative module specifier of target seen from fromDir.
func relImport(fromDir, target string) string {
	var from []string
	if fromDir != "" {
		from = strings.Split(fromDir, "/")
	}
	to := strings.Split(target, "/")
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	parts := make([]string, 0, len(from)-i+len(to)-i)
	for n := len(from) - i; n > 0; n-- {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	if len(from)-i == 0 {
		return "./" + strings.Join(parts, "/")
	}
	return strings.Join(parts, "/")
}

// modulePath is the output path of a module without extension.
func modulePath(m *discover.Module) string { return strings.TrimSuffix(m.Path, ".go") }
