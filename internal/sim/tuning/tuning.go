package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	// ConfigDir holds blocks.json and multiblocks/.
	ConfigDir string `yaml:"config_dir"`
	// IndexDB is the sqlite load report path; empty disables it.
	IndexDB string `yaml:"index_db"`

	RotationCacheSize int  `yaml:"rotation_cache_size"`
	SchemaLint        bool `yaml:"schema_lint"`
}

func Defaults() Tuning {
	return Tuning{
		ConfigDir:         "./configs",
		RotationCacheSize: 256,
	}
}

// Load reads a settings file over the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if t.RotationCacheSize <= 0 {
		return t, fmt.Errorf("%s: rotation_cache_size must be positive", path)
	}
	return t, nil
}
