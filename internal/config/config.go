package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHeapName  = "sram"
	DefaultHeapLimit = 64 << 10
	DefaultChunkSize = 4096
	DefaultElements  = 1000
	DefaultEraseStep = 7
	DefaultCapacity  = 4
	DefaultIncrement = 4
	DefaultSeed      = 1
)

// Allocator kinds.
const (
	KindHeap  = "heap"
	KindArena = "arena"
)

// Sort algorithms.
const (
	SortQuick     = "quick"
	SortInsertion = "insertion"
)

type Config struct {
	Heap     HeapConfig     `yaml:"heap"`
	Array    ArrayConfig    `yaml:"array"`
	Workload WorkloadConfig `yaml:"workload"`
}

type HeapConfig struct {
	Name      string `yaml:"name"`
	Limit     int    `yaml:"limit"`
	Kind      string `yaml:"kind"`
	ChunkSize int    `yaml:"chunk_size"`
}

type ArrayConfig struct {
	Capacity  int `yaml:"capacity"`
	Increment int `yaml:"increment"`
}

type WorkloadConfig struct {
	Elements  int    `yaml:"elements"`
	EraseStep int    `yaml:"erase_step"`
	Sort      string `yaml:"sort"`
	ResizeTo  int    `yaml:"resize_to"`
	Seed      int64  `yaml:"seed"`
	Cleanup   bool   `yaml:"cleanup"`
}

func DefaultConfig() *Config {
	return &Config{
		Heap: HeapConfig{
			Name:      DefaultHeapName,
			Limit:     DefaultHeapLimit,
			Kind:      KindHeap,
			ChunkSize: DefaultChunkSize,
		},
		Array: ArrayConfig{
			Capacity:  DefaultCapacity,
			Increment: DefaultIncrement,
		},
		Workload: WorkloadConfig{
			Elements:  DefaultElements,
			EraseStep: DefaultEraseStep,
			Sort:      SortQuick,
			ResizeTo:  DefaultElements / 2,
			Seed:      DefaultSeed,
			Cleanup:   true,
		},
	}
}

// Load reads a YAML config from path. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validate %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Heap.Kind {
	case KindHeap, KindArena:
	default:
		return errors.Newf("unknown heap kind %q", c.Heap.Kind)
	}
	switch c.Workload.Sort {
	case SortQuick, SortInsertion:
	default:
		return errors.Newf("unknown sort %q", c.Workload.Sort)
	}
	if c.Heap.Limit < 0 {
		return errors.Newf("negative heap limit %d", c.Heap.Limit)
	}
	if c.Array.Capacity < 0 || c.Array.Increment <= 0 {
		return errors.Newf("invalid array sizing: capacity %d, increment %d",
			c.Array.Capacity, c.Array.Increment)
	}
	if c.Workload.Elements < 0 || c.Workload.EraseStep < 0 || c.Workload.ResizeTo < 0 {
		return errors.New("workload sizes must not be negative")
	}
	return nil
}
