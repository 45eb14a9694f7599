package factory

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// ActorTemplate describes the player or a monster kind.
type ActorTemplate struct {
	Name      string `yaml:"name"`
	Glyph     string `yaml:"glyph"`
	FG        string `yaml:"fg"`
	MaxHP     int    `yaml:"max_hp"`
	Defense   int    `yaml:"defense"`
	Power     int    `yaml:"power"`
	ViewRange int    `yaml:"view_range"`
	MinDelay  uint64 `yaml:"min_delay"`
	Weight    int    `yaml:"weight"`
}

// ItemTemplate describes an item kind. Effects compose freely.
type ItemTemplate struct {
	Name       string `yaml:"name"`
	Glyph      string `yaml:"glyph"`
	FG         string `yaml:"fg"`
	Consumable bool   `yaml:"consumable"`
	Healing    int    `yaml:"healing"`
	Damage     int    `yaml:"damage"`
	Range      int    `yaml:"range"`
	Weight     int    `yaml:"weight"`
}

// Templates is the full spawn table.
type Templates struct {
	Player   ActorTemplate   `yaml:"player"`
	Monsters []ActorTemplate `yaml:"monsters"`
	Items    []ItemTemplate  `yaml:"items"`
}

// DefaultTemplates returns the embedded spawn table.
func DefaultTemplates() *Templates {
	t, err := ParseTemplates(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("factory: embedded templates: %v", err))
	}
	return t
}

// LoadTemplates reads a spawn table from a YAML file. An empty path yields
// the embedded defaults.
func LoadTemplates(path string) (*Templates, error) {
	if path == "" {
		return DefaultTemplates(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes and validates a YAML spawn table.
func ParseTemplates(data []byte) (*Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if t.Player.Name == "" || t.Player.MaxHP <= 0 {
		return nil, fmt.Errorf("parse templates: player needs a name and max_hp")
	}
	if len(t.Monsters) == 0 {
		return nil, fmt.Errorf("parse templates: no monsters")
	}
	for i := range t.Monsters {
		if t.Monsters[i].Weight <= 0 {
			t.Monsters[i].Weight = 1
		}
	}
	for i := range t.Items {
		if t.Items[i].Weight <= 0 {
			t.Items[i].Weight = 1
		}
	}
	return &t, nil
}

// color maps a template colour name to a tcell colour.
func color(name string) tcell.Color {
	if name == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(name)
}
