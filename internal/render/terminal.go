package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

// Glyph is how one entity type looks on a terminal.
type Glyph struct {
	Text  string
	Style tcell.Style
}

// DefaultGlyphs maps entity types to their terminal look.
func DefaultGlyphs() map[ecs.EntityType]Glyph {
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	return map[ecs.EntityType]Glyph{
		ecs.TypeUnknown: {Text: "?", Style: base.Foreground(tcell.ColorGray)},
		ecs.TypeHuman:   {Text: "🧍", Style: base.Foreground(tcell.ColorWhite)},
		ecs.TypeVehicle: {Text: "🚗", Style: base.Foreground(tcell.ColorRed)},
	}
}

// facing marks the direction of a sprite in the cell after its glyph when
// the glyph itself is one column wide.
var facing = map[physics.Direction]rune{
	physics.South: 'v',
	physics.West:  '<',
	physics.East:  '>',
	physics.North: '^',
}

// TerminalSurface draws sprites on a tcell screen, one tile per two
// columns so emoji glyphs line up with ASCII ones.
type TerminalSurface struct {
	screen     tcell.Screen
	glyphs     map[ecs.EntityType]Glyph
	tilePixels float64
	view       View
	drawn      int
}

func NewTerminalSurface(screen tcell.Screen, tilePixels float64, glyphs map[ecs.EntityType]Glyph) *TerminalSurface {
	if glyphs == nil {
		glyphs = DefaultGlyphs()
	}
	if tilePixels <= 0 {
		tilePixels = 32
	}
	return &TerminalSurface{screen: screen, glyphs: glyphs, tilePixels: tilePixels}
}

// Begin clears the screen and fixes the view for the coming sprites. The
// view size is taken from the screen.
func (s *TerminalSurface) Begin(center physics.Vec2, zoom float64) {
	w, h := s.screen.Size()
	s.view = View{Center: center, Width: w, Height: h, Zoom: zoom}
	s.drawn = 0
	s.screen.Clear()
}

// End flushes the frame to the terminal.
func (s *TerminalSurface) End() { s.screen.Show() }

// Drawn returns how many sprites landed on screen since Begin.
func (s *TerminalSurface) Drawn() int { return s.drawn }

// View returns the view fixed by the last Begin.
func (s *TerminalSurface) View() View { return s.view }

// TileToCell maps a tile position to the screen cell of its left column.
func (s *TerminalSurface) TileToCell(tile physics.Vec2) (col, row int) {
	zoom := s.view.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	col = int(math.Floor((tile.X-s.view.Center.X)*zoom))*2 + s.view.Width/2
	row = int(math.Floor((tile.Y-s.view.Center.Y)*zoom)) + s.view.Height/2
	return col, row
}

func (s *TerminalSurface) DrawSprite(sp Sprite) {
	tile := physics.Vec2{X: sp.X / s.tilePixels, Y: sp.Y / s.tilePixels}
	col, row := s.TileToCell(tile)
	if !s.view.Visible(float64(col), float64(row)) {
		return
	}
	g, ok := s.glyphs[sp.Entity.Type]
	if !ok {
		g = s.glyphs[ecs.TypeUnknown]
	}
	s.put(col, row, g.Text, g.Style)
	if runewidth.StringWidth(g.Text) < 2 {
		s.screen.SetContent(col+1, row, facing[sp.Direction], nil, g.Style)
	}
	s.drawn++
}

// put draws a possibly multi-rune glyph and pads wide glyphs so the second
// column does not keep stale content.
func (s *TerminalSurface) put(x, y int, text string, style tcell.Style) {
	runes := []rune(text)
	if len(runes) == 0 {
		return
	}
	var comb []rune
	if len(runes) > 1 {
		comb = runes[1:]
	}
	s.screen.SetContent(x, y, runes[0], comb, style)
	if runewidth.StringWidth(text) == 2 {
		s.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

// DrawText writes a status line at row y.
func (s *TerminalSurface) DrawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
