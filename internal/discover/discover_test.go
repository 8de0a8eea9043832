package discover_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/charskema/internal/discover"
	"github.com/reoring/charskema/internal/ir"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

const entities = `package entities

// UserSchema describes a user.
var UserSchema = build()

var (
	OrderSchema, helperSchema = build(), build()
	Other                     = 1
)

const ConstSchema = "not a rule"

func FuncSchema() any { return nil }

func (r recv) MethodSchema() {}

var shape = object().
	// Display name.
	Field("name").
	Field("age") // trailing comment
`

func TestScan(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod":                 "module example.com/app\n\ngo 1.22\n",
		"schema/entities.go":     entities,
		"schema/entities_test.go": "package entities\n\nvar TestSchema = 1\n",
		"schema/doc.go":          "package entities\n",
		"schema/register.go":     "package entities\n\nvar RegisterSchema = 1\n",
		"schema/v1/chat.go":      "package v1\n\nvar ChatSchema = 1\n",
		"schema/_drafts/x.go":    "package drafts\n\nvar XSchema = 1\n",
		"schema/notes.txt":       "ignored",
	})

	res, err := discover.Scan(filepath.Join(root, "schema"), discover.Options{})
	require.NoError(t, err)
	assert.Equal(t, "example.com/app/schema", res.ImportPath)
	require.Len(t, res.Modules, 2)

	m := res.Modules[0]
	assert.Equal(t, "entities.go", m.Path)
	assert.Equal(t, "", m.Dir())
	assert.Equal(t, "entities", m.Package)
	assert.Equal(t, "example.com/app/schema", m.ImportPath)
	var names []string
	for _, e := range m.Exports {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"ConstSchema", "FuncSchema", "OrderSchema", "UserSchema"}, names)
	assert.Equal(t, 4, m.Exports[3].Line)

	v1 := res.Modules[1]
	assert.Equal(t, "v1/chat.go", v1.Path)
	assert.Equal(t, "v1", v1.Dir())
	assert.Equal(t, "example.com/app/schema/v1", v1.ImportPath)

	c, ok := m.CommentEndingAt(3)
	require.True(t, ok)
	assert.Equal(t, "UserSchema describes a user.", c)

	// Field("name") sits on line 19, the comment on line 18.
	c, ok = res.Comment(ir.Pos{File: filepath.Join(root, "schema", "entities.go"), Line: 19})
	require.True(t, ok)
	assert.Equal(t, "Display name.", c)
	_, ok = res.Comment(ir.Pos{File: filepath.Join(root, "schema", "entities.go"), Line: 21})
	assert.False(t, ok, "trailing comments are not hand-written field docs")

	c, ok = res.Comment(ir.Pos{File: "example.com/app/schema/entities.go", Line: 19})
	require.True(t, ok, "trimmed paths resolve through the import path")
	assert.Equal(t, "Display name.", c)
}

func TestScan_ExplicitImportPathAndExclude(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.go":     "package a\n\nvar ASchema = 1\n",
		"index.go": "package a\n\nvar IndexSchema = 1\n",
	})
	res, err := discover.Scan(root, discover.Options{ImportPath: "x.test/a", Exclude: []string{"a.go"}})
	require.NoError(t, err)
	require.Len(t, res.Modules, 1)
	assert.Equal(t, "index.go", res.Modules[0].Path)
	assert.Equal(t, "x.test/a", res.Modules[0].ImportPath)

	_, err = discover.Scan(root, discover.Options{ImportPath: "x.test/a", Exclude: []string{"["}})
	require.Error(t, err)
}

func TestScan_Errors(t *testing.T) {
	root := writeTree(t, map[string]string{"broken.go": "package broken\n\nvar = \n"})
	_, err := discover.Scan(root, discover.Options{ImportPath: "x.test/b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse broken.go")

	_, err = discover.Scan(filepath.Join(root, "missing"), discover.Options{ImportPath: "x"})
	require.Error(t, err)
}

func TestImportPathOf(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod":       "module example.com/m\n",
		"deep/dir/x.go": "package dir\n",
	})
	p, err := discover.ImportPathOf(filepath.Join(root, "deep", "dir"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/m/deep/dir", p)

	p, err = discover.ImportPathOf(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/m", p)
}
