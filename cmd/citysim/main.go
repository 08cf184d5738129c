package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/citysim/citysim/internal/config"
	"github.com/citysim/citysim/internal/data"
	"github.com/citysim/citysim/internal/frontend/term"
	"github.com/citysim/citysim/internal/frontend/window"
	"github.com/citysim/citysim/internal/game"
	"github.com/citysim/citysim/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := max(46-runewidth.StringWidth(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-runewidth.StringWidth(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main ──────────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// The terminal frontend owns stdout once it starts.
	verbose := cfg.Display.Backend == config.BackendWindow

	// 3. Load data
	anims, err := data.LoadAnimations(cfg.Entities.Animations)
	if err != nil {
		return fmt.Errorf("load animations: %w", err)
	}
	protos, err := data.LoadPrototypes(cfg.Entities.Prototypes, anims, log)
	if err != nil {
		return fmt.Errorf("load prototypes: %w", err)
	}

	// 4. Scripting
	engine, err := scripting.NewEngine(cfg.Entities.Scripts, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()

	if verbose {
		printSection("data")
		printStat("animations", anims.Count())
		printStat("prototypes", protos.Count())
		printOK(fmt.Sprintf("scripts loaded from %s", cfg.Entities.Scripts))
		fmt.Println()
	}

	// 5. World
	g := game.New(cfg, protos, anims, engine, log)
	defer g.Close()
	if err := g.Start(); err != nil {
		return fmt.Errorf("start world: %w", err)
	}
	if verbose {
		printSection("world")
		printStat("entities", g.Entities().Count())
		fmt.Println()
	}

	// 6. Frontend
	switch cfg.Display.Backend {
	case config.BackendTerminal:
		return runTerminal(g, cfg, log)
	default:
		return window.New(g, cfg.Display, cfg.Debug, log).Run()
	}
}

func runTerminal(g *game.Game, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	return term.New(g, screen, cfg.Debug, log).Run(ctx)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
		zapCfg.ErrorOutputPaths = []string{cfg.Output}
	}

	return zapCfg.Build()
}
