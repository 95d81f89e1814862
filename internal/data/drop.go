package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DropEntry is one possible item drop for a creature template.
type DropEntry struct {
	ItemID int32   `yaml:"item_id"`
	Chance float64 `yaml:"chance"` // (0.0-1.0)
	Min    int32   `yaml:"min"`
	Max    int32   `yaml:"max"`
}

type dropListFile struct {
	Drops []struct {
		TemplateID int32       `yaml:"template_id"`
		Entries    []DropEntry `yaml:"entries"`
	} `yaml:"drops"`
}

// DropTable maps a creature template ID to its possible drops.
type DropTable struct {
	drops map[int32][]DropEntry
}

// LoadDropTable loads the drop table from a YAML file.
func LoadDropTable(path string) (*DropTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read drop_list: %w", err)
	}
	var f dropListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse drop_list: %w", err)
	}
	t := &DropTable{drops: make(map[int32][]DropEntry, len(f.Drops))}
	for _, d := range f.Drops {
		t.drops[d.TemplateID] = d.Entries
	}
	return t, nil
}

// Get returns the drop entries for a creature template, or nil.
func (t *DropTable) Get(templateID int32) []DropEntry {
	return t.drops[templateID]
}

// Count returns the number of templates with drops defined.
func (t *DropTable) Count() int {
	return len(t.drops)
}
