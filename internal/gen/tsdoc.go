package gen

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/reoring/charskema/internal/ir"
)

// literal renders a JSON-compatible value as TypeScript source.
func literal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "undefined"
	}
	return string(b)
}

func quote(s string) string { return literal(s) }

// docLines builds the TSDoc body of m. def is the static default of a field,
// used when m documents none.
func docLines(m ir.Meta, def any, hasDef bool) []string {
	var lines []string
	if d := strings.TrimSpace(m.Description); d != "" {
		lines = append(lines, strings.Split(d, "\n")...)
	}
	var tags []string
	if m.Deprecated {
		tags = append(tags, strings.TrimSpace("@deprecated "+m.DeprecationNote))
	}
	if m.Since != "" {
		tags = append(tags, "@since "+m.Since)
	}
	switch {
	case m.Default != nil:
		tags = append(tags, "@default "+literal(m.Default))
	case hasDef && def != nil:
		tags = append(tags, "@default "+literal(def))
	}
	for _, ex := range m.Examples {
		tags = append(tags, "@example "+literal(ex))
	}
	for _, s := range m.See {
		tags = append(tags, "@see "+s)
	}
	if len(lines) > 0 && len(tags) > 0 {
		lines = append(lines, "")
	}
	return append(lines, tags...)
}

// writeDoc writes lines as a TSDoc block indented by pad.
func writeDoc(b *strings.Builder, pad string, lines []string) {
	switch len(lines) {
	case 0:
		return
	case 1:
		b.WriteString(pad + "/** " + escapeDoc(lines[0]) + " */\n")
		return
	}
	b.WriteString(pad + "/**\n")
	for _, l := range lines {
		if l == "" {
			b.WriteString(pad + " *\n")
			continue
		}
		b.WriteString(pad + " * " + escapeDoc(l) + "\n")
	}
	b.WriteString(pad + " */\n")
}

func escapeDoc(s string) string { return strings.ReplaceAll(s, "*/", "*\\/") }

func indent(level int) string { return strings.Repeat("  ", level) }
