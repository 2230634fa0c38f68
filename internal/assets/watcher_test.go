package assets_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/notanengine/internal/assets"
)

func TestShaderWatcherReportsChangedProgram(t *testing.T) {
	dir := t.TempDir()
	w, err := assets.NewShaderWatcher(nil, dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic.frag"), []byte("void main() {}"), 0644))

	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Drain()...)
		return len(got) > 0
	}, 2*time.Second, 10*time.Millisecond)

	for _, name := range got {
		assert.Equal(t, "basic", name)
	}
}

func TestShaderWatcherDrainIsNonBlocking(t *testing.T) {
	w, err := assets.NewShaderWatcher(nil)
	require.NoError(t, err)
	defer w.Close()

	assert.Empty(t, w.Drain())
}

func TestShaderWatcherRejectsMissingDir(t *testing.T) {
	_, err := assets.NewShaderWatcher(nil, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestReloadChanged(t *testing.T) {
	e := newEnv(t)
	shaders := filepath.Join(e.root, "shaders")
	writeFile(t, filepath.Join(shaders, "basic.vert"), []byte("v1"))
	writeFile(t, filepath.Join(shaders, "basic.frag"), []byte("f1"))

	p, err := e.m.LoadShader("basic")
	require.NoError(t, err)
	old := p.ID

	w, err := e.m.WatchShaders()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(shaders, "basic.frag"), []byte("f2"), 0644))

	var reloaded []string
	require.Eventually(t, func() bool {
		reloaded = append(reloaded, e.m.ReloadChanged(w)...)
		return len(reloaded) > 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "basic", reloaded[0])
	assert.NotEqual(t, old, p.ID)
}
