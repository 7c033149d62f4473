package env_config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("NS_SAVE_PATH", "tmp/save.json")
	t.Setenv("NS_SEED", "42")
	t.Setenv("NS_CHUNK_SIZE", "1500")
	t.Setenv("NS_RENDER_DISTANCE", "2")
	t.Setenv("NS_SPECTATE_ADDR", ":9090")

	s := Load()
	assert.Equal(t, "tmp/save.json", s.SavePath)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 1500.0, s.ChunkSize)
	assert.Equal(t, 2, s.RenderDistance)
	assert.Equal(t, ":9090", s.SpectateAddr)
}

func TestLoadKeepsDefaultsOnGarbage(t *testing.T) {
	t.Setenv("NS_SEED", "not-a-number")
	t.Setenv("NS_CHUNK_SIZE", "huge")

	s := Load()
	def := Defaults()
	assert.Equal(t, def.Seed, s.Seed)
	assert.Equal(t, def.ChunkSize, s.ChunkSize)
	assert.Equal(t, def.SavePath, s.SavePath)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("NS_TEST_DOTENV_KEY=from-file\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("NS_TEST_DOTENV_KEY") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("NS_TEST_DOTENV_KEY"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
