package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tag-atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
inventory_path: testdata/inventory.csv
server:
  host: 0.0.0.0
  port: "9090"
tag_fields:
  - Department
  - Owner
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testdata/inventory.csv", cfg.InventoryPath)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"Department", "Owner"}, cfg.TagFields)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "inventory_path: inv.csv\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.TagFields)
}

func TestLoad_RequiresInventoryPath(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "inventory_path")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
