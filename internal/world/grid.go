package world

import "github.com/citysim/citysim/internal/core/ecs"

// cellSize is in tiles.
const cellSize = 8

type cellKey struct {
	cx, cy int
}

func toCellCoord(v int) int {
	if v < 0 {
		return (v - cellSize + 1) / cellSize
	}
	return v / cellSize
}

// Grid is a cell-based spatial index of entities by tile. A 3x3
// neighbourhood of cells covers every query radius up to cellSize tiles.
// Accessed only from the game loop goroutine, no locks.
type Grid struct {
	cells map[cellKey][]ecs.EntityID
}

func NewGrid() *Grid {
	return &Grid{cells: make(map[cellKey][]ecs.EntityID)}
}

func (g *Grid) key(x, y int) cellKey {
	return cellKey{cx: toCellCoord(x), cy: toCellCoord(y)}
}

// Clear empties the grid, keeping cell storage for the next rebuild.
func (g *Grid) Clear() {
	for k, ids := range g.cells {
		g.cells[k] = ids[:0]
	}
}

// Add places an entity at a tile.
func (g *Grid) Add(id ecs.EntityID, x, y int) {
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], id)
}

// Nearby appends to dst every entity in the 3x3 neighbourhood of cells
// around the tile. Callers do fine-grained distance filtering.
func (g *Grid) Nearby(dst []ecs.EntityID, x, y int) []ecs.EntityID {
	cx, cy := toCellCoord(x), toCellCoord(y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			dst = append(dst, g.cells[cellKey{cx: cx + dx, cy: cy + dy}]...)
		}
	}
	return dst
}

// Len returns the number of indexed entities.
func (g *Grid) Len() int {
	n := 0
	for _, ids := range g.cells {
		n += len(ids)
	}
	return n
}
