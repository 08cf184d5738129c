// Package window runs the simulation in a desktop window with ebiten.
package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/config"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/game"
)

var keyMap = map[ebiten.Key]event.Key{
	ebiten.KeyW:          event.KeyW,
	ebiten.KeyA:          event.KeyA,
	ebiten.KeyS:          event.KeyS,
	ebiten.KeyD:          event.KeyD,
	ebiten.KeyArrowUp:    event.KeyUp,
	ebiten.KeyArrowLeft:  event.KeyLeft,
	ebiten.KeyArrowDown:  event.KeyDown,
	ebiten.KeyArrowRight: event.KeyRight,
	ebiten.KeyShift:      event.KeyShift,
	ebiten.KeyTab:        event.KeyTab,
	ebiten.KeyE:          event.KeyE,
}

var buttonMap = map[ebiten.MouseButton]event.Button{
	ebiten.MouseButtonLeft:   event.ButtonLeft,
	ebiten.MouseButtonRight:  event.ButtonRight,
	ebiten.MouseButtonMiddle: event.ButtonMiddle,
}

// App implements ebiten.Game on top of a game.Game.
type App struct {
	game    *game.Game
	surface *Surface
	cfg     config.DisplayConfig
	debug   config.DebugConfig
	err     error
	log     *zap.Logger
}

func New(g *game.Game, display config.DisplayConfig, debug config.DebugConfig, log *zap.Logger) *App {
	return &App{
		game:    g,
		surface: NewSurface(g.TilePixels(), log),
		cfg:     display,
		debug:   debug,
		log:     log,
	}
}

// Run opens the window and blocks until it is closed, Escape is pressed or
// a frame fails.
func (a *App) Run() error {
	ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height)
	ebiten.SetWindowTitle("citysim")
	ebiten.SetWindowDecorated(!a.cfg.Borderless)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(a.cfg.TPS)
	ebiten.SetVsyncEnabled(a.debug.LimitFPS)

	a.log.Info("window frontend started",
		zap.Int("width", a.cfg.Width), zap.Int("height", a.cfg.Height), zap.Int("tps", a.cfg.TPS))
	err := ebiten.RunGame(a)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (a *App) Update() error {
	if a.err != nil {
		return a.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for ek, k := range keyMap {
		if inpututil.IsKeyJustPressed(ek) {
			a.game.Publish(event.NewRawKey(k, true))
		} else if inpututil.IsKeyJustReleased(ek) {
			a.game.Publish(event.NewRawKey(k, false))
		}
	}
	x, y := ebiten.CursorPosition()
	for eb, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(eb) {
			a.game.Publish(event.NewRawClick(b, x, y, true))
		} else if inpututil.IsMouseButtonJustReleased(eb) {
			a.game.Publish(event.NewRawClick(b, x, y, false))
		}
	}
	return a.game.Step(time.Second / time.Duration(ebiten.TPS()))
}

func (a *App) Draw(screen *ebiten.Image) {
	a.surface.Begin(screen, a.game.View())
	if err := a.game.Draw(a.surface, 1); err != nil {
		a.err = err
		return
	}
	if a.debug.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f  entities: %d  drawn: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), a.game.Entities().Count(), a.surface.Drawn()))
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.game.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
