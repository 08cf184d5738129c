// Package term runs the simulation in a terminal with tcell.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/config"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/game"
	"github.com/citysim/citysim/internal/render"
)

// holdTimeout is how long a key counts as held after its last press or
// repeat. Terminals report no key releases, so they are synthesized.
const holdTimeout = 500 * time.Millisecond

var specialKeys = map[tcell.Key]event.Key{
	tcell.KeyUp:    event.KeyUp,
	tcell.KeyLeft:  event.KeyLeft,
	tcell.KeyDown:  event.KeyDown,
	tcell.KeyRight: event.KeyRight,
	tcell.KeyTab:   event.KeyTab,
}

var runeKeys = map[rune]event.Key{
	'w': event.KeyW,
	'a': event.KeyA,
	's': event.KeyS,
	'd': event.KeyD,
	'e': event.KeyE,
}

// oneShot keys are released right after they are pressed.
var oneShot = map[event.Key]bool{
	event.KeyTab: true,
	event.KeyE:   true,
}

type App struct {
	game    *game.Game
	screen  tcell.Screen
	surface *render.TerminalSurface
	held    map[event.Key]time.Time
	hold    time.Duration
	showFPS bool
	fps     fpsCounter
	log     *zap.Logger
}

// New draws g on screen. The screen must already be initialized.
func New(g *game.Game, screen tcell.Screen, debug config.DebugConfig, log *zap.Logger) *App {
	return &App{
		game:    g,
		screen:  screen,
		surface: render.NewTerminalSurface(screen, g.TilePixels(), nil),
		held:    make(map[event.Key]time.Time),
		hold:    holdTimeout,
		showFPS: debug.ShowFPS,
		log:     log,
	}
}

// Run steps and draws the game at its tick rate until ctx is cancelled,
// the user quits or a frame fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	dt := a.game.TickInterval()
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	w, h := a.screen.Size()
	a.game.Resize(w, h)
	a.log.Info("terminal frontend started", zap.Int("cols", w), zap.Int("rows", h))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if a.handle(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			a.releaseStale(now)
			if err := a.game.Step(dt); err != nil {
				return err
			}
			if err := a.draw(now); err != nil {
				return err
			}
		}
	}
}

// handle reacts to one terminal event and reports whether to quit.
func (a *App) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		w, h := ev.Size()
		a.game.Resize(w, h)
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			r := ev.Rune()
			if r == 'q' {
				return true
			}
			if k, ok := runeKeys[r]; ok {
				a.press(k, now)
			} else if k, ok := runeKeys[r+'a'-'A']; ok && r >= 'A' && r <= 'Z' {
				// Shifted letters sprint.
				a.press(event.KeyShift, now)
				a.press(k, now)
			}
		default:
			if k, ok := specialKeys[ev.Key()]; ok {
				a.press(k, now)
			}
		}
	}
	return false
}

func (a *App) press(k event.Key, now time.Time) {
	if oneShot[k] {
		a.game.Publish(event.NewRawKey(k, true))
		a.game.Publish(event.NewRawKey(k, false))
		return
	}
	if _, ok := a.held[k]; !ok {
		a.game.Publish(event.NewRawKey(k, true))
	}
	a.held[k] = now
}

// releaseStale publishes a release for every key not repeated within the
// hold timeout.
func (a *App) releaseStale(now time.Time) {
	for k, at := range a.held {
		if now.Sub(at) >= a.hold {
			delete(a.held, k)
			a.game.Publish(event.NewRawKey(k, false))
		}
	}
}

func (a *App) draw(now time.Time) error {
	view := a.game.View()
	a.surface.Begin(view.Center, view.Zoom)
	if err := a.game.Draw(a.surface, 1); err != nil {
		return err
	}
	if a.showFPS {
		fps := a.fps.tick(now)
		a.surface.DrawText(0, 0, fmt.Sprintf("FPS: %.1f  entities: %d  drawn: %d",
			fps, a.game.Entities().Count(), a.surface.Drawn()), tcell.StyleDefault.Reverse(true))
	}
	a.surface.End()
	return nil
}

// fpsCounter averages the frame rate over one-second windows.
type fpsCounter struct {
	start  time.Time
	frames int
	value  float64
}

func (c *fpsCounter) tick(now time.Time) float64 {
	if c.start.IsZero() {
		c.start = now
	}
	c.frames++
	if el := now.Sub(c.start); el >= time.Second {
		c.value = float64(c.frames) / el.Seconds()
		c.start = now
		c.frames = 0
	}
	return c.value
}
