package window

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/render"
)

// typeColors fill the placeholder rectangle of sprites without a sheet.
var typeColors = map[ecs.EntityType]color.RGBA{
	ecs.TypeUnknown: {0x80, 0x80, 0x80, 0xff},
	ecs.TypeHuman:   {0xf0, 0xd0, 0xa0, 0xff},
	ecs.TypeVehicle: {0xd0, 0x30, 0x30, 0xff},
}

var facingColor = color.RGBA{0x20, 0x20, 0x20, 0xff}

// Surface draws sprites onto an ebiten image. Sprite sheets are loaded on
// first use; a sheet that fails to load is drawn as a coloured rectangle.
type Surface struct {
	dst        *ebiten.Image
	view       render.View
	tilePixels float64
	sheets     map[string]*ebiten.Image
	drawn      int
	log        *zap.Logger
}

func NewSurface(tilePixels float64, log *zap.Logger) *Surface {
	return &Surface{
		tilePixels: tilePixels,
		sheets:     make(map[string]*ebiten.Image),
		log:        log,
	}
}

// Begin targets dst for the sprites of one frame.
func (s *Surface) Begin(dst *ebiten.Image, view render.View) {
	s.dst = dst
	s.view = view
	s.drawn = 0
}

func (s *Surface) Drawn() int { return s.drawn }

func (s *Surface) sheet(path string) *ebiten.Image {
	if img, ok := s.sheets[path]; ok {
		return img
	}
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		s.log.Warn("could not load sprite sheet", zap.String("path", path), zap.Error(err))
		img = nil
	}
	s.sheets[path] = img
	return img
}

func (s *Surface) DrawSprite(sp render.Sprite) {
	if s.dst == nil {
		return
	}
	zoom := s.view.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	size := s.tilePixels * zoom
	// Sprites are centered on their body origin.
	sx, sy := s.view.Project(sp.X, sp.Y, s.tilePixels, 1)
	x, y := sx-size/2, sy-size/2
	if x+size < 0 || y+size < 0 || x > float64(s.view.Width) || y > float64(s.view.Height) {
		return
	}
	s.drawn++

	if a := sp.Animation; a != nil && a.Sprite != "" {
		if img := s.sheet(a.Sprite); img != nil && a.FrameWidth > 0 && a.FrameHeight > 0 {
			fx := sp.Frame * a.FrameWidth
			fy := a.Row(sp.Direction) * a.FrameHeight
			rect := image.Rect(fx, fy, fx+a.FrameWidth, fy+a.FrameHeight)

			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(size/float64(a.FrameWidth), size/float64(a.FrameHeight))
			op.GeoM.Translate(x, y)
			s.dst.DrawImage(img.SubImage(rect).(*ebiten.Image), op)
			return
		}
	}

	clr, ok := typeColors[sp.Entity.Type]
	if !ok {
		clr = typeColors[ecs.TypeUnknown]
	}
	inset := size / 8
	vector.DrawFilledRect(s.dst, float32(x+inset), float32(y+inset), float32(size-2*inset), float32(size-2*inset), clr, false)

	// A small notch on the facing side.
	d := sp.Direction.Vector()
	notch := size / 6
	cx := x + size/2 + d.X*(size/2-inset-notch/2) - notch/2
	cy := y + size/2 + d.Y*(size/2-inset-notch/2) - notch/2
	vector.DrawFilledRect(s.dst, float32(cx), float32(cy), float32(notch), float32(notch), facingColor, false)
}
