// Package render defines the drawing boundary between the entity pipeline
// and the frontends. Systems emit Sprites; a Surface decides how they look.
package render

import (
	"math"

	"github.com/citysim/citysim/internal/anim"
	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

// Sprite is one entity frame to draw. X and Y are world pixels of the
// entity origin.
type Sprite struct {
	Entity    ecs.Identifier
	Animation *anim.Animation
	Frame     int
	Direction physics.Direction
	X, Y      float64
}

// Surface receives the sprites of one render pass.
type Surface interface {
	DrawSprite(Sprite)
}

// View is the visible region: a center in tiles, a screen size in surface
// units (pixels or cells) and a zoom factor.
type View struct {
	Center        physics.Vec2
	Width, Height int
	Zoom          float64
}

// Project maps a world position in pixels to screen units, given how many
// screen units one world pixel is worth at zoom 1.
func (v View) Project(worldX, worldY, tilePixels, unitsPerPixel float64) (sx, sy float64) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	scale := zoom * unitsPerPixel
	sx = (worldX-v.Center.X*tilePixels)*scale + float64(v.Width)/2
	sy = (worldY-v.Center.Y*tilePixels)*scale + float64(v.Height)/2
	return sx, sy
}

// Visible reports whether a screen point falls inside the view.
func (v View) Visible(sx, sy float64) bool {
	return sx >= 0 && sy >= 0 && sx < float64(v.Width) && sy < float64(v.Height)
}

// Cell truncates a projected point to integer screen coordinates.
func Cell(sx, sy float64) (int, int) {
	return int(math.Floor(sx)), int(math.Floor(sy))
}
