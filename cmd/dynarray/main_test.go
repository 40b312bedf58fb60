package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/dynarray"
	"github.com/pavanmanishd/dynarray/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSortCommand(t *testing.T) {
	out, err := execute(t, "sort", "5", "3", "4", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 4 5\n", out)

	out, err = execute(t, "sort", "--stable", "--", "-1", "10", "-7")
	require.NoError(t, err)
	assert.Equal(t, "-7 -1 10\n", out)

	_, err = execute(t, "sort", "3", "x")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, *config.DefaultConfig(), cfg)
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte(`
heap:
  kind: arena
  limit: 65536
  chunk_size: 64
workload:
  elements: 20
  erase_step: 5
  resize_to: 5
  sort: insertion
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	out, err := execute(t, "run", "--config", path, "--metrics")
	require.NoError(t, err)

	assert.Regexp(t, `capacity after push\s+20\n`, out)
	assert.Regexp(t, `erased\s+4\n`, out)
	assert.Regexp(t, `length\s+5\n`, out)
	assert.Regexp(t, `cleanup calls\s+15\n`, out)
	assert.Regexp(t, `heap failures\s+0\n`, out)
	assert.Contains(t, out, `dynarray_heap_limit_bytes{heap="sram"} 65536`)
}

func TestRunCommandHeapExhausted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	data := []byte(`
heap:
  limit: 64
workload:
  elements: 100
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err := execute(t, "run", "--config", path)
	assert.True(t, errors.Is(err, dynarray.ErrAllocation))
	assert.True(t, errors.Is(err, dynarray.ErrOutOfMemory))
}
