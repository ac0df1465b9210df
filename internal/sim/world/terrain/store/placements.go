package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"multiblock.ai/internal/sim/multiblock"
)

// Placement is one block in a placement file:
//
//	blocks:
//	  - {pos: [0, 64, 0], block: STONE}
type Placement struct {
	Pos   [3]int `yaml:"pos"`
	Block string `yaml:"block"`
}

type placementFile struct {
	Blocks []Placement `yaml:"blocks"`
}

func LoadPlacements(path string) ([]Placement, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f placementFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Blocks, nil
}

// Apply places every block, stopping at the first unknown block id.
func (s *ChunkStore) Apply(ps []Placement) error {
	for _, p := range ps {
		if err := s.Place(multiblock.Pos{X: p.Pos[0], Y: p.Pos[1], Z: p.Pos[2]}, p.Block); err != nil {
			return err
		}
	}
	return nil
}
