package ecs

import (
	"fmt"
	"strings"
)

// EntityID is a slot index into the fixed-capacity entity table. It is unique
// while the entity is alive and reused after it dies.
type EntityID int32

const (
	// Invalid denotes "no entity".
	Invalid EntityID = -1
	// CameraEntity is a non-entity handle used by input and camera code to
	// address the free-roaming camera.
	CameraEntity EntityID = -2
)

// EntityType drives data lookups (prototypes, animations) and never changes
// for the lifetime of an entity.
type EntityType uint8

const (
	TypeUnknown EntityType = iota
	TypeHuman
	TypeVehicle
)

var entityTypeNames = [...]string{
	TypeUnknown: "unknown",
	TypeHuman:   "human",
	TypeVehicle: "vehicle",
}

func (t EntityType) String() string {
	if int(t) < len(entityTypeNames) {
		return entityTypeNames[t]
	}
	return fmt.Sprintf("EntityType(%d)", uint8(t))
}

// EntityTypes lists every loadable entity type, in section order.
func EntityTypes() []EntityType {
	return []EntityType{TypeHuman, TypeVehicle}
}

// ParseEntityType maps a section name ("human", "vehicle") to its type.
func ParseEntityType(s string) (EntityType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range entityTypeNames {
		if i != int(TypeUnknown) && name == s {
			return EntityType(i), true
		}
	}
	return TypeUnknown, false
}

// Identifier is the lightweight descriptor handed out at creation time.
type Identifier struct {
	ID   EntityID
	Type EntityType
}

// NoIdentifier is the identifier of no entity.
var NoIdentifier = Identifier{ID: Invalid, Type: TypeUnknown}

func (i Identifier) String() string {
	return fmt.Sprintf("%s#%d", i.Type, i.ID)
}

// Ref pairs a slot with the generation it had when the ref was taken, so
// holders can detect that the slot has since died and been reused.
type Ref struct {
	ID  EntityID
	Gen uint32
}

// NoRef never validates.
var NoRef = Ref{ID: Invalid}
