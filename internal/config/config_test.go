package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "Nodes", cfg.Source.NodesSheet)
	assert.Equal(t, "Adjacency", cfg.Source.MatrixSheet)
	assert.Equal(t, 3, cfg.Source.NodesSkipRows)
	assert.Equal(t, 1, cfg.Source.MatrixHeaderRow)
	assert.Equal(t, 2, cfg.Source.MatrixLabelCols)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "0 9 * * *", cfg.Schedule.Cron)
	assert.Equal(t, "America/Mexico_City", cfg.Schedule.Timezone)
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphfeed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  path: /data/adjacency.xlsx
  nodes_sheet: Actors
  matrix_sheet: Matrix
database:
  driver: sqlite
  dsn_env: TEST_DSN
schedule:
  cron: "30 6 * * *"
`), 0644))

	cfg, loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded)
	assert.Equal(t, "/data/adjacency.xlsx", cfg.Source.Path)
	assert.Equal(t, "Actors", cfg.Source.NodesSheet)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "30 6 * * *", cfg.Schedule.Cron)

	// Unset values fall back to defaults.
	assert.Equal(t, 3, cfg.Source.NodesSkipRows)
	assert.Equal(t, "America/Mexico_City", cfg.Schedule.Timezone)
}

func TestLoadFromPathBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphfeed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [not a mapping"), 0644))

	_, _, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Path = "/data/adjacency.xlsx"
	assert.NoError(t, cfg.Validate())

	missing := DefaultConfig()
	assert.ErrorIs(t, missing.Validate(), ErrConfiguration)

	badDriver := DefaultConfig()
	badDriver.Source.Path = "/data/adjacency.xlsx"
	badDriver.Database.Driver = "oracle"
	assert.ErrorIs(t, badDriver.Validate(), ErrConfiguration)
}

func TestResolveDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.DSNEnv = "GRAPHFEED_TEST_DSN"

	t.Setenv("GRAPHFEED_TEST_DSN", "user:pass@tcp(db:3306)/graph")
	dsn, err := cfg.ResolveDSN()
	require.NoError(t, err)
	assert.Equal(t, "user:pass@tcp(db:3306)/graph", dsn)
}

func TestResolveDSNUnset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.DSNEnv = "GRAPHFEED_UNSET_DSN"

	_, err := cfg.ResolveDSN()
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Path = "/data/adjacency.xlsx"

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, cfg.Save(path))

	reloaded, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}
