package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(w, h)
	t.Cleanup(ss.Fini)
	return ss
}

func TestTerminalSurfaceDrawsAtTile(t *testing.T) {
	ss := newTestScreen(t, 20, 10)
	glyphs := map[ecs.EntityType]Glyph{
		ecs.TypeUnknown: {Text: "?"},
		ecs.TypeHuman:   {Text: "@"},
	}
	s := NewTerminalSurface(ss, 32, glyphs)
	s.Begin(physics.Vec2{X: 5, Y: 5}, 1)

	s.DrawSprite(Sprite{
		Entity:    ecs.Identifier{ID: 0, Type: ecs.TypeHuman},
		Direction: physics.East,
		X:         5 * 32,
		Y:         5 * 32,
	})
	s.DrawSprite(Sprite{
		Entity: ecs.Identifier{ID: 1, Type: ecs.TypeHuman},
		X:      100 * 32,
		Y:      5 * 32,
	})

	if s.Drawn() != 1 {
		t.Fatalf("drawn = %d, want 1 (second sprite is off screen)", s.Drawn())
	}
	if r, _, _, _ := ss.GetContent(10, 5); r != '@' {
		t.Fatalf("cell (10,5) = %q, want '@'", r)
	}
	if r, _, _, _ := ss.GetContent(11, 5); r != '>' {
		t.Fatalf("cell (11,5) = %q, want facing marker '>'", r)
	}
}

func TestTerminalSurfaceUnknownTypeFallsBack(t *testing.T) {
	ss := newTestScreen(t, 20, 10)
	s := NewTerminalSurface(ss, 32, map[ecs.EntityType]Glyph{ecs.TypeUnknown: {Text: "?"}})
	s.Begin(physics.Vec2{}, 1)
	s.DrawSprite(Sprite{Entity: ecs.Identifier{ID: 0, Type: ecs.TypeVehicle}})
	if r, _, _, _ := ss.GetContent(10, 5); r != '?' {
		t.Fatalf("cell (10,5) = %q, want '?'", r)
	}
}

func TestTileToCellZoom(t *testing.T) {
	ss := newTestScreen(t, 40, 20)
	s := NewTerminalSurface(ss, 32, nil)
	s.Begin(physics.Vec2{X: 0, Y: 0}, 2)

	tests := []struct {
		tile     physics.Vec2
		col, row int
	}{
		{physics.Vec2{X: 0, Y: 0}, 20, 10},
		{physics.Vec2{X: 1, Y: 0}, 24, 10},
		{physics.Vec2{X: -1, Y: 2}, 16, 14},
		{physics.Vec2{X: 0.4, Y: 0.4}, 20, 10},
	}
	for _, tt := range tests {
		col, row := s.TileToCell(tt.tile)
		if col != tt.col || row != tt.row {
			t.Errorf("TileToCell(%v) = (%d,%d), want (%d,%d)", tt.tile, col, row, tt.col, tt.row)
		}
	}
}

func TestViewProject(t *testing.T) {
	v := View{Center: physics.Vec2{X: 2, Y: 3}, Width: 100, Height: 80, Zoom: 2}
	sx, sy := v.Project(2*32+10, 3*32, 32, 1)
	if sx != 70 || sy != 40 {
		t.Fatalf("Project = (%v,%v), want (70,40)", sx, sy)
	}
	if !v.Visible(sx, sy) || v.Visible(-1, 0) || v.Visible(0, 80) {
		t.Fatal("Visible bounds wrong")
	}
}
