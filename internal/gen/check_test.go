package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndWrite(t *testing.T) {
	out := &Output{Files: map[string][]byte{
		"a.ts":     []byte(GeneratedLine + "\nexport type A = string;\n"),
		"sub/b.ts": []byte(GeneratedLine + "\nexport type B = number;\n"),
		"sub/c.ts": []byte(GeneratedLine + "\nexport type C = boolean;\n"),
		"index.ts": []byte(GeneratedLine + "\n"),
		"sub.ts":   []byte(GeneratedLine + "\n"),
	}}

	t.Run("missing directory", func(t *testing.T) {
		res, err := out.Check(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Equal(t, out.Paths(), res.Missing)
		assert.False(t, res.UpToDate())
	})

	dir := t.TempDir()
	require.NoError(t, out.Write(dir))
	res, err := out.Check(dir)
	require.NoError(t, err)
	assert.True(t, res.UpToDate())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("edited\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "sub", "c.ts")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.ts"), []byte(GeneratedLine+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hand.ts"), []byte("export const x = 1;\n"), 0o644))

	res, err = out.Check(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts"}, res.Changed)
	assert.Equal(t, []string{"sub/c.ts"}, res.Missing)
	assert.Equal(t, []string{"old.ts"}, res.Stale)

	require.NoError(t, out.Write(dir))
	res, err = out.Check(dir)
	require.NoError(t, err)
	assert.True(t, res.UpToDate())
	assert.NoFileExists(t, filepath.Join(dir, "old.ts"))
	assert.FileExists(t, filepath.Join(dir, "hand.ts"))
}
