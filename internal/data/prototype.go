package data

import (
	"fmt"
	"maps"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/citysim/citysim/internal/anim"
	"github.com/citysim/citysim/internal/core/ecs"
)

// Prototype is a flat attribute map describing one kind of entity.
type Prototype map[string]string

// Name returns the prototype name.
func (p Prototype) Name() string { return p["name"] }

// String returns an attribute, or def when absent.
func (p Prototype) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Float returns a numeric attribute, or def when absent. A malformed value
// is an error.
func (p Prototype) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("prototype %q attribute %s: %w", p.Name(), key, err)
	}
	return f, nil
}

// PrototypeTable holds the loaded prototypes per entity type.
type PrototypeTable struct {
	byType map[ecs.EntityType]map[string]Prototype
	order  map[ecs.EntityType][]string
}

// LoadPrototypes loads entity prototypes from a YAML file with one section
// per entity type, each a list of attribute maps. Entries without a name,
// or whose prototype has not been declared earlier in the same section, are
// skipped with a warning. A child inherits every attribute it does not set
// itself. anims may be nil; when set, entries whose sprite has no matching
// animation are warned about and kept.
func LoadPrototypes(path string, anims anim.Provider, log *zap.Logger) (*PrototypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prototypes: %w", err)
	}
	var f map[string][]map[string]string
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prototypes: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	t := &PrototypeTable{
		byType: make(map[ecs.EntityType]map[string]Prototype),
		order:  make(map[ecs.EntityType][]string),
	}
	for section := range f {
		if _, ok := ecs.ParseEntityType(section); !ok {
			log.Warn("unknown entity section, skipping", zap.String("section", section))
		}
	}
	for _, typ := range ecs.EntityTypes() {
		t.loadSection(typ, f[typ.String()], anims, log)
	}
	return t, nil
}

func (t *PrototypeTable) loadSection(typ ecs.EntityType, entries []map[string]string, anims anim.Provider, log *zap.Logger) {
	all := make(map[string]Prototype, len(entries))
	for _, entry := range entries {
		name, ok := entry["name"]
		if !ok || name == "" {
			log.Warn("no name found for entity, skipping", zap.Stringer("type", typ))
			continue
		}
		p := Prototype(maps.Clone(entry))

		if parentName, ok := p["prototype"]; ok {
			parent, ok := all[parentName]
			if !ok {
				log.Warn("entity prototype not found, skipping entity",
					zap.String("prototype", parentName), zap.String("entity", name))
				continue
			}
			for k, v := range parent {
				if _, set := p[k]; !set {
					p[k] = v
				}
			}
		}

		if _, dup := all[name]; dup {
			log.Warn("duplicate entity name, keeping the first", zap.Stringer("type", typ), zap.String("entity", name))
			continue
		}
		all[name] = p
		t.order[typ] = append(t.order[typ], name)
	}

	if anims != nil {
		for _, name := range t.order[typ] {
			p := all[name]
			sprite, ok := p["sprite"]
			if !ok {
				continue
			}
			animName := p.String("animation", sprite)
			if _, ok := anims.Animation(typ, animName); !ok {
				log.Warn("unresolved sprite animation",
					zap.Stringer("type", typ), zap.String("entity", name), zap.String("animation", animName))
			}
		}
	}
	t.byType[typ] = all
}

// Prototype returns a prototype by type and name.
func (t *PrototypeTable) Prototype(typ ecs.EntityType, name string) (Prototype, bool) {
	p, ok := t.byType[typ][name]
	return p, ok
}

// Names returns the prototype names of a type in declaration order.
func (t *PrototypeTable) Names(typ ecs.EntityType) []string {
	return t.order[typ]
}

// Count returns the number of loaded prototypes across all types.
func (t *PrototypeTable) Count() int {
	n := 0
	for _, names := range t.order {
		n += len(names)
	}
	return n
}
