package game

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/zucenko/tiltmaze/ball"
	"github.com/zucenko/tiltmaze/input"
	"github.com/zucenko/tiltmaze/model"
)

var ErrInvalidConfig = errors.New("invalid config")

type MazeConfig struct {
	Braid            float64 `yaml:"braid"`
	Prune            float64 `yaml:"prune"`
	PredefinedChance float64 `yaml:"predefined_chance"`
	// Seed 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type Config struct {
	Difficulty   string           `yaml:"difficulty"`
	TickHz       float64          `yaml:"tick_hz"`
	WinTolerance float64          `yaml:"win_tolerance"`
	Maze         MazeConfig       `yaml:"maze"`
	Ball         ball.Params      `yaml:"ball"`
	Tilt         input.TiltConfig `yaml:"tilt"`
	Drag         input.DragConfig `yaml:"drag"`
}

func DefaultConfig() Config {
	return Config{
		Difficulty:   model.Easy.Name(),
		TickHz:       60,
		WinTolerance: 0.5,
		Maze: MazeConfig{
			Braid:            model.DefaultBraid,
			Prune:            model.DefaultPrune,
			PredefinedChance: model.DefaultPredefinedChance,
		},
		Ball: ball.DefaultParams(),
		Tilt: input.DefaultTiltConfig(),
		Drag: input.DefaultDragConfig(),
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file is not an
// error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("config %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := model.ParseDifficulty(c.Difficulty); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !(c.TickHz > 0 && c.TickHz <= 1000) {
		return fmt.Errorf("%w: tick_hz %v", ErrInvalidConfig, c.TickHz)
	}
	if !(c.WinTolerance > 0) {
		return fmt.Errorf("%w: win_tolerance %v", ErrInvalidConfig, c.WinTolerance)
	}
	for name, p := range map[string]float64{
		"braid":             c.Maze.Braid,
		"prune":             c.Maze.Prune,
		"predefined_chance": c.Maze.PredefinedChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: maze %s %v not in [0, 1]", ErrInvalidConfig, name, p)
		}
	}
	if err := c.Ball.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// TickMs is the fixed tick length.
func (c Config) TickMs() float64 {
	return 1000 / c.TickHz
}

func (c Config) NewGenerator() *model.Generator {
	gen := model.NewGenerator(c.Maze.Seed)
	gen.Braid = c.Maze.Braid
	gen.Prune = c.Maze.Prune
	gen.PredefinedChance = c.Maze.PredefinedChance
	return gen
}
