package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpawnEntry defines where and how many creatures to spawn.
type SpawnEntry struct {
	TemplateID int32   `yaml:"template_id"`
	Layer      int16   `yaml:"layer"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Count      int     `yaml:"count"`
	Scatter    float64 `yaml:"scatter"` // max random offset per axis
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn_list: %w", err)
	}
	return f.Spawns, nil
}
