package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	base := t.TempDir()

	dir, err := EnsureDir(filepath.Join(base, "a", "b"))
	require.NoError(t, err)

	st, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, st.IsDir())

	again, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, again)
}

func TestEnsureDir_RelativeToWorkingDir(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)

	dir, err := EnsureDir("exports")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(wd, "exports"))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := WriteFile(dir, "data.json", []byte(`{"a":1}`))
	require.NoError(t, err)
	require.Equal(t, "data.json", filepath.Base(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestEnsureDir_FailsWhenPathIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	_, err := EnsureDir(filepath.Join(f, "sub"))
	require.Error(t, err)
}

func TestWriteFile_RejectsPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	for _, name := range []string{"", ".", "..", "../out.json", "a/b.json", `a\b.json`} {
		t.Run(name, func(t *testing.T) {
			_, err := WriteFile(dir, name, []byte("x"))
			require.ErrorIs(t, err, ErrInvalidName)
		})
	}

	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err), "nothing is created for a rejected name")
}
