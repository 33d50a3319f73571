package config_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrain-sample/config"
)

func TestParsePathList(t *testing.T) {
	assert.Equal(t, []string{".", ".."}, config.ParsePathList(".;.."))
	assert.Equal(t, []string{"Data", "CoreData"}, config.ParsePathList(" Data ; ;CoreData;"))
	assert.Nil(t, config.ParsePathList(""))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), p)

	p, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), p)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window_width: 800
window_height: 600
fullscreen: false
resource_prefix_paths: [".", ".."]
log_level: debug
`), 0o644))

	p, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, p.WindowWidth)
	assert.Equal(t, 600, p.WindowHeight)
	assert.Equal(t, []string{".", ".."}, p.ResourcePrefixPaths)
	assert.Equal(t, "debug", p.LogLevel)
	assert.Equal(t, []string{"Data", "CoreData"}, p.ResourcePaths, "unset keys keep defaults")
	assert.Equal(t, float32(0.25), p.MaxTimeStep)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("window_width: [1, 2"), 0o644))
	_, err := config.Load(bad)
	assert.Error(t, err)

	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("window_height: 0"), 0o644))
	_, err = config.Load(zero)
	assert.ErrorContains(t, err, "invalid window size")
}

func TestBindFlags(t *testing.T) {
	p := config.Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	p.BindFlags(fs)

	require.NoError(t, fs.Parse([]string{"-width", "800", "-fullscreen", "-prefix", ".;..", "-log-level", "warn"}))
	assert.Equal(t, 800, p.WindowWidth)
	assert.True(t, p.FullScreen)
	assert.Equal(t, []string{".", ".."}, p.ResourcePrefixPaths)
	assert.Equal(t, "warn", p.LogLevel)
	assert.NoError(t, p.Validate())
}

func TestLoadFileKeepsEarlierSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vsync: false\n"), 0o644))

	p := config.Default()
	p.WindowWidth, p.WindowHeight = 800, 600
	require.NoError(t, p.LoadFile(path))
	assert.False(t, p.VSync)
	assert.Equal(t, 800, p.WindowWidth, "keys absent from the file are left alone")
	assert.NoError(t, p.LoadFile(filepath.Join(t.TempDir(), "none.yaml")))
}
