package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CreatureTemplate holds static data for a creature type loaded from
// YAML. Parsing of category/behavior/hostility strings into the closed
// enums is the world package's job.
type CreatureTemplate struct {
	TemplateID       int32    `yaml:"template_id"`
	Name             string   `yaml:"name"`
	Category         string   `yaml:"category"` // mob, combatant, carrier, wildlife
	Behavior         string   `yaml:"behavior"` // passive, defensive, aggressive, territorial
	Hostile          []string `yaml:"hostile"`  // categories this creature attacks
	CanAttack        bool     `yaml:"can_attack"`
	MaxHP            int32    `yaml:"max_hp"`
	Damage           int32    `yaml:"damage"`
	Defense          int32    `yaml:"defense"`
	ScanRange        float64  `yaml:"scan_range"`
	TerritorialRange float64  `yaml:"territorial_range"`
	AttackRange      float64  `yaml:"attack_range"`
	ChaseBreakRange  float64  `yaml:"chase_break_range"`
	AttackIntervalMs int      `yaml:"attack_interval_ms"`
	MoveSpeed        float64  `yaml:"move_speed"`
	TargetCapacity   int      `yaml:"target_capacity"` // 0 = manager default
	RespawnDelaySec  int      `yaml:"respawn_delay_s"` // 0 = no respawn
}

type creatureListFile struct {
	Creatures []CreatureTemplate `yaml:"creatures"`
}

// CreatureTable holds all creature templates indexed by TemplateID.
type CreatureTable struct {
	templates map[int32]*CreatureTemplate
}

// LoadCreatureTable loads creature templates from a YAML file.
func LoadCreatureTable(path string) (*CreatureTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read creature_list: %w", err)
	}
	var f creatureListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse creature_list: %w", err)
	}
	t := &CreatureTable{templates: make(map[int32]*CreatureTemplate, len(f.Creatures))}
	for i := range f.Creatures {
		c := &f.Creatures[i]
		t.templates[c.TemplateID] = c
	}
	return t, nil
}

// Get returns a creature template by ID, or nil if not found.
func (t *CreatureTable) Get(templateID int32) *CreatureTemplate {
	return t.templates[templateID]
}

// Count returns the number of loaded templates.
func (t *CreatureTable) Count() int {
	return len(t.templates)
}
