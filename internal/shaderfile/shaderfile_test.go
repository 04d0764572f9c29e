package shaderfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/irfansharif/glow/internal/native"
	"github.com/irfansharif/glow/internal/shader"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.frag")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}\n"), 0o644))

	s, err := Open(native.FRAGMENT_SHADER, path)
	require.NoError(t, err)
	require.Equal(t, "void main() {}\n", s.Source())
	require.Equal(t, native.Enum(native.FRAGMENT_SHADER), s.Type())

	_, err = Open(native.FRAGMENT_SHADER, filepath.Join(t.TempDir(), "missing.frag"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.vert")
	require.NoError(t, os.WriteFile(path, []byte("// first\n"), 0o644))

	s := shader.Vertex("")
	w, err := Watch(path, s)
	require.NoError(t, err)
	defer func() { require.NoError(t, w.Close()) }()
	require.Equal(t, "// first\n", s.Source())
	require.Equal(t, path, w.Path())
	require.Same(t, s, w.Shader())

	require.NoError(t, os.WriteFile(path, []byte("// second\n"), 0o644))
	require.Eventually(t, func() bool {
		return s.Source() == "// second\n"
	}, 5*time.Second, 10*time.Millisecond)

	// Files in the same directory are none of our business.
	before := w.Reloads()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.vert"), []byte("// other\n"), 0o644))

	// Saving by replacing the file is picked up too.
	tmp := filepath.Join(dir, "quad.vert.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("// third\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	require.Eventually(t, func() bool {
		return s.Source() == "// third\n"
	}, 5*time.Second, 10*time.Millisecond)
	require.Greater(t, w.Reloads(), before)
}

func TestWatchStopsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.vert")
	require.NoError(t, os.WriteFile(path, []byte("// first\n"), 0o644))

	s := shader.Vertex("")
	w, err := Watch(path, s)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	require.NoError(t, os.WriteFile(path, []byte("// second\n"), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, "// first\n", s.Source())
	require.Zero(t, w.Reloads())
}

func TestWatchMissingFile(t *testing.T) {
	s := shader.Vertex("// kept\n")
	_, err := Watch(filepath.Join(t.TempDir(), "missing.vert"), s)
	require.Error(t, err)
	require.Equal(t, "// kept\n", s.Source())
}
