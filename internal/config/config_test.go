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

	assert.Equal(t, DefaultHeapName, cfg.Heap.Name)
	assert.Equal(t, KindHeap, cfg.Heap.Kind)
	assert.Equal(t, SortQuick, cfg.Workload.Sort)
	assert.Positive(t, cfg.Array.Increment)
	require.NoError(t, cfg.Validate())
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
heap:
  kind: arena
  limit: 4096
workload:
  sort: insertion
  elements: 50
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, KindArena, cfg.Heap.Kind)
	assert.Equal(t, 4096, cfg.Heap.Limit)
	assert.Equal(t, DefaultHeapName, cfg.Heap.Name)
	assert.Equal(t, DefaultChunkSize, cfg.Heap.ChunkSize)
	assert.Equal(t, SortInsertion, cfg.Workload.Sort)
	assert.Equal(t, 50, cfg.Workload.Elements)
	assert.Equal(t, DefaultEraseStep, cfg.Workload.EraseStep)
	assert.True(t, cfg.Workload.Cleanup)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Heap.Name = "ccm"
	cfg.Array.Increment = 16

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("heap: [not, a, map]\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown kind", func(c *Config) { c.Heap.Kind = "pool" }},
		{"unknown sort", func(c *Config) { c.Workload.Sort = "bubble" }},
		{"negative limit", func(c *Config) { c.Heap.Limit = -1 }},
		{"zero increment", func(c *Config) { c.Array.Increment = 0 }},
		{"negative capacity", func(c *Config) { c.Array.Capacity = -4 }},
		{"negative elements", func(c *Config) { c.Workload.Elements = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
