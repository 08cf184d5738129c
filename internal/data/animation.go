package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/citysim/citysim/internal/anim"
	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

type animationEntry struct {
	Sprite      string         `yaml:"sprite"`
	Frames      int            `yaml:"frames"`
	FrameWidth  int            `yaml:"frame_width"`
	FrameHeight int            `yaml:"frame_height"`
	Step        float64        `yaml:"step"` // seconds per frame
	Rows        map[string]int `yaml:"rows"`
}

// AnimationTable holds animation definitions per entity type and name.
type AnimationTable struct {
	byType map[ecs.EntityType]map[string]*anim.Animation
}

// LoadAnimations loads animation definitions from a YAML file with one
// section per entity type, each a map of animation name to definition.
func LoadAnimations(path string) (*AnimationTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read animations: %w", err)
	}
	var f map[string]map[string]animationEntry
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse animations: %w", err)
	}

	t := &AnimationTable{byType: make(map[ecs.EntityType]map[string]*anim.Animation, len(f))}
	for section, entries := range f {
		typ, ok := ecs.ParseEntityType(section)
		if !ok {
			return nil, fmt.Errorf("animations: unknown entity type %q", section)
		}
		m := make(map[string]*anim.Animation, len(entries))
		for name, e := range entries {
			a, err := e.build(name)
			if err != nil {
				return nil, fmt.Errorf("animations %s/%s: %w", section, name, err)
			}
			m[name] = a
		}
		t.byType[typ] = m
	}
	return t, nil
}

func (e animationEntry) build(name string) (*anim.Animation, error) {
	if e.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", e.Frames)
	}
	if e.Step < 0 {
		return nil, fmt.Errorf("step must not be negative, got %v", e.Step)
	}
	a := &anim.Animation{
		Name:        name,
		Sprite:      e.Sprite,
		FrameCount:  e.Frames,
		FrameWidth:  e.FrameWidth,
		FrameHeight: e.FrameHeight,
		DefaultStep: e.Step,
		Rows:        make(map[physics.Direction]int, len(e.Rows)),
	}
	for dir, row := range e.Rows {
		d, ok := physics.ParseDirection(dir)
		if !ok {
			return nil, fmt.Errorf("unknown direction %q", dir)
		}
		a.Rows[d] = row
	}
	return a, nil
}

// Animation returns an animation by entity type and name.
func (t *AnimationTable) Animation(typ ecs.EntityType, name string) (*anim.Animation, bool) {
	a, ok := t.byType[typ][name]
	return a, ok
}

// Count returns the number of loaded animations.
func (t *AnimationTable) Count() int {
	n := 0
	for _, m := range t.byType {
		n += len(m)
	}
	return n
}
