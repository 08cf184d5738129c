package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	// EnvPath names the environment variable holding the config file path.
	EnvPath = "CITYSIM_CONFIG"
	// DefaultPath is used when EnvPath is unset.
	DefaultPath = "config/citysim.toml"

	BackendWindow   = "window"
	BackendTerminal = "terminal"
)

type Config struct {
	Display  DisplayConfig  `toml:"display"`
	Debug    DebugConfig    `toml:"debug"`
	Entities EntitiesConfig `toml:"entities"`
	Events   EventsConfig   `toml:"events"`
	Physics  PhysicsConfig  `toml:"physics"`
	Movement MovementConfig `toml:"movement"`
	World    WorldConfig    `toml:"world"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DisplayConfig struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Borderless bool    `toml:"borderless"`
	Zoom       float64 `toml:"zoom"`
	Backend    string  `toml:"backend"` // "window" or "terminal"
	TPS        int     `toml:"tps"`     // simulation ticks per second
}

type DebugConfig struct {
	LimitFPS    bool    `toml:"limit_fps"`
	ShowFPS     bool    `toml:"show_fps"`
	CameraSpeed float64 `toml:"camera_speed"` // tiles per second
}

type EntitiesConfig struct {
	Capacity   int    `toml:"capacity"`
	Prototypes string `toml:"prototypes"`
	Animations string `toml:"animations"`
	Scripts    string `toml:"scripts"`
}

type EventsConfig struct {
	MaxPerDrain int `toml:"max_per_drain"` // 0 = whole pending snapshot
}

type PhysicsConfig struct {
	VelocityIterations int     `toml:"velocity_iterations"`
	PositionIterations int     `toml:"position_iterations"`
	TilePixels         float64 `toml:"tile_pixels"`
	EntityScale        float64 `toml:"entity_scale"`
}

type MovementConfig struct {
	WalkSpeed        float64 `toml:"walk_speed"` // tiles per second
	SprintMultiplier float64 `toml:"sprint_multiplier"`
	WanderInterval   float64 `toml:"wander_interval"` // seconds
}

// WorldConfig describes the population spawned at start.
type WorldConfig struct {
	PlayerPrototype string       `toml:"player_prototype"`
	PlayerSpawn     [2]int       `toml:"player_spawn"`
	Spawns          []SpawnEntry `toml:"spawns"`
}

type SpawnEntry struct {
	Type      string `toml:"type"`
	Prototype string `toml:"prototype"`
	X         int    `toml:"x"`
	Y         int    `toml:"y"`
	Count     int    `toml:"count"`
	Direction string `toml:"direction"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	Output string `toml:"output"` // file path; empty logs to stderr
}

// Path returns the config path from the environment, or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

func (c *Config) validate() error {
	switch c.Display.Backend {
	case BackendWindow, BackendTerminal:
	default:
		return fmt.Errorf("display.backend must be %q or %q, got %q", BackendWindow, BackendTerminal, c.Display.Backend)
	}
	if c.Entities.Capacity <= 0 {
		return fmt.Errorf("entities.capacity must be positive, got %d", c.Entities.Capacity)
	}
	if c.Display.TPS <= 0 {
		return fmt.Errorf("display.tps must be positive, got %d", c.Display.TPS)
	}
	if c.Events.MaxPerDrain < 0 {
		return fmt.Errorf("events.max_per_drain must not be negative, got %d", c.Events.MaxPerDrain)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:   1280,
			Height:  720,
			Zoom:    1,
			Backend: BackendWindow,
			TPS:     60,
		},
		Debug: DebugConfig{
			LimitFPS:    true,
			CameraSpeed: 12,
		},
		Entities: EntitiesConfig{
			Capacity:   1024,
			Prototypes: "data/yaml/entities.yaml",
			Animations: "data/yaml/animations.yaml",
			Scripts:    "scripts",
		},
		Physics: PhysicsConfig{
			VelocityIterations: 6,
			PositionIterations: 2,
			TilePixels:         32,
			EntityScale:        1,
		},
		Movement: MovementConfig{
			WalkSpeed:        4,
			SprintMultiplier: 2,
			WanderInterval:   2,
		},
		World: WorldConfig{
			PlayerPrototype: "player",
			PlayerSpawn:     [2]int{10, 10},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
