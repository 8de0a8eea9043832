package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/reoring/charskema/schema/v1"
)

// execute runs the CLI in dir and returns its standard output.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	chdir(t, dir)
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeJSON(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(b, &v))
	return v
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "init", "--name", "Ada")
	require.NoError(t, err)

	c := decodeJSON(t, []byte(out))
	assert.EqualValues(t, 1, c["specVersion"])
	assert.Equal(t, "Ada", c["name"])
	_, err = uuid.Parse(c["id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"license": "ARR"}, c["metadata"])
	assert.Equal(t, map[string]any{"assets": []any{}}, c["assets"])
}

func TestInitFileAndValidate(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "init", "-o", "ada.yaml")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "ada.yaml"))

	_, err = execute(t, dir, "init", "-o", "ada.yaml")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--force")
	_, err = execute(t, dir, "init", "-o", "ada.yaml", "--force")
	require.NoError(t, err)

	out, err := execute(t, dir, "validate", "ada.yaml")
	require.NoError(t, err)
	assert.Equal(t, "ada.yaml: valid (v1)\n", out)
}

func TestValidateReportsIssues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"specVersion": 1, "name": 3}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "future.json"), []byte(`{"specVersion": 9}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.json"), []byte(`{"specVersion": 1, "specVersion": 1}`), 0o644))

	out, err := execute(t, dir, "validate", "bad.json", "future.json", "dup.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "3 of 3 files")
	assert.Contains(t, out, "bad.json: /id required")
	assert.Contains(t, out, "bad.json: /name invalid_type")
	assert.Contains(t, out, "future.json: /specVersion discriminator_unknown")
	assert.Contains(t, out, "dup.json: /specVersion duplicate_key")
}

func TestValidatePrint(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "init", "-o", "c.json")
	require.NoError(t, err)
	out, err := execute(t, dir, "validate", "--print", "c.json")
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(dir, "c.json"))
	require.NoError(t, err)
	assert.Equal(t, decodeJSON(t, written), decodeJSON(t, []byte(out)))
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "init", "-o", "c.json", "--name", "Round Trip")
	require.NoError(t, err)
	_, err = execute(t, dir, "export", "c.json", "-o", "c.bin", "--level", "best")
	require.NoError(t, err)
	out, err := execute(t, dir, "import", "c.bin")
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(dir, "c.json"))
	require.NoError(t, err)
	assert.Equal(t, decodeJSON(t, written), decodeJSON(t, []byte(out)))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.bin"), []byte("junk"), 0o644))
	_, err = execute(t, dir, "import", "junk.bin")
	require.Error(t, err)
}

func TestJSONSchema(t *testing.T) {
	out, err := execute(t, t.TempDir(), "jsonschema")
	require.NoError(t, err)
	doc := decodeJSON(t, []byte(out))
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", doc["$schema"])
	assert.Contains(t, doc["properties"], "specVersion")

	_, err = execute(t, t.TempDir(), "jsonschema", "--spec-version", "7")
	require.Error(t, err)
}

func TestEncodeValueSchemaTree(t *testing.T) {
	doc, err := v1.CharacterSchema.JSONSchema()
	require.NoError(t, err)
	compact, err := json.Marshal(doc)
	require.NoError(t, err)

	out, err := encodeValue("", doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "{\n  \""), "not indented: %.40s", out)
	assert.True(t, strings.HasSuffix(string(out), "}\n"))

	var again bytes.Buffer
	require.NoError(t, json.Compact(&again, out))
	assert.Equal(t, string(compact), again.String())
}

func TestGenerateAndCheck(t *testing.T) {
	source, err := filepath.Abs(filepath.Join("..", "..", "schema"))
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "charskema.toml"), []byte(`
[generate]
out_dir = "web/types"
`), 0o644))

	out, err := execute(t, dir, "generate", "--source", source)
	require.NoError(t, err)
	assert.Contains(t, out, "in web/types\n")
	assert.FileExists(t, filepath.Join(dir, "web", "types", "v1", "character.ts"))

	out, err = execute(t, dir, "check", "--source", source)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	target := filepath.Join(dir, "web", "types", "v1", "chat.ts")
	require.NoError(t, os.WriteFile(target, []byte("// edited\n"), 0o644))
	out, err = execute(t, dir, "check", "--source", source)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfDate))
	assert.Contains(t, out, "changed  v1/chat.ts\n")
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "charskema.yaml"), []byte("input:\n  format: xml\n"), 0o644))
	_, err := execute(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.format")
}

// chdir changes the working directory to dir for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
