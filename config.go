package gobatch3d

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/smasonuk/gobatch3d/versioning"
)

// Config holds the viewer settings and the scene it shows.
type Config struct {
	Version  []int          `toml:"version"`
	LogLevel string         `toml:"log_level"`
	Window   WindowConfig   `toml:"window"`
	Camera   CameraConfig   `toml:"camera"`
	Light    LightConfig    `toml:"light"`
	Haptics  HapticsConfig  `toml:"haptics"`
	Objects  []ObjectConfig `toml:"object"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	TPS    int    `toml:"tps"`
}

type CameraConfig struct {
	Position [3]float32 `toml:"position"`
	Target   [3]float32 `toml:"target"`
	FOV      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
	// radians per dragged pixel
	OrbitSpeed float32 `toml:"orbit_speed"`
	ZoomSpeed  float32 `toml:"zoom_speed"`
}

type LightConfig struct {
	Direction [3]float32 `toml:"direction"`
}

type HapticsConfig struct {
	Enabled    bool    `toml:"enabled"`
	Gamepad    int     `toml:"gamepad"`
	Strength   float64 `toml:"strength"`
	DurationMS int     `toml:"duration_ms"`
}

// ObjectConfig places one mesh. Shape is box, sphere, quad or ply; ply
// shapes are read from Path.
type ObjectConfig struct {
	Name     string     `toml:"name"`
	Shape    string     `toml:"shape"`
	Path     string     `toml:"path"`
	Position [3]float32 `toml:"position"`
	// euler angles in degrees
	Rotation [3]float32 `toml:"rotation"`
	Scale    [3]float32 `toml:"scale"`
	Color    [4]uint8   `toml:"color"`
	Batched  bool       `toml:"batched"`
}

func (o ObjectConfig) Transform() mgl32.Mat4 {
	rot := mgl32.Vec3{
		mgl32.DegToRad(o.Rotation[0]),
		mgl32.DegToRad(o.Rotation[1]),
		mgl32.DegToRad(o.Rotation[2]),
	}
	return ComposeTransform(o.Position, rot, o.Scale)
}

func (o ObjectConfig) RGBA() color.RGBA {
	return color.RGBA{R: o.Color[0], G: o.Color[1], B: o.Color[2], A: o.Color[3]}
}

func DefaultConfig() *Config {
	head := sceneLadder.Head()
	return &Config{
		Version:  []int{head.Major, head.Minor},
		LogLevel: "info",
		Window: WindowConfig{
			Width:  640,
			Height: 480,
			Title:  "gobatch3d",
			TPS:    60,
		},
		Camera: CameraConfig{
			Position:   [3]float32{0, 4, 12},
			FOV:        60,
			Near:       0.1,
			Far:        1000,
			OrbitSpeed: 0.005,
			ZoomSpeed:  1,
		},
		Light: LightConfig{Direction: [3]float32{-0.577, -0.577, -0.577}},
		Haptics: HapticsConfig{
			Strength:   0.6,
			DurationMS: 120,
		},
		Objects: []ObjectConfig{
			{Name: "box-1", Shape: "box", Position: [3]float32{-3, 0, 0}, Scale: [3]float32{1, 1, 1}, Color: [4]uint8{220, 60, 60, 255}, Batched: true},
			{Name: "box-2", Shape: "box", Position: [3]float32{0, 0, 0}, Rotation: [3]float32{0, 45, 0}, Scale: [3]float32{1, 2, 1}, Color: [4]uint8{60, 220, 60, 255}, Batched: true},
			{Name: "ball", Shape: "sphere", Position: [3]float32{3, 0, 0}, Scale: [3]float32{1, 1, 1}, Color: [4]uint8{60, 60, 220, 255}, Batched: true},
			{Name: "floor", Shape: "quad", Position: [3]float32{0, -1.5, 0}, Rotation: [3]float32{-90, 0, 0}, Scale: [3]float32{10, 10, 1}, Color: [4]uint8{200, 200, 200, 255}},
		},
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig upgrades an older document to the current layout, then decodes
// it over DefaultConfig. A document with its own [[object]] list replaces the
// default scene.
func ParseConfig(data []byte) (*Config, error) {
	doc := versioning.Document{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applied, err := sceneLadder.Migrate(doc)
	if err != nil {
		return nil, err
	}
	if len(applied) > 0 {
		slog.Info("upgraded config", "steps", strings.Join(applied, ","))
	}

	upgraded, err := toml.Marshal(map[string]any(doc))
	if err != nil {
		return nil, fmt.Errorf("encode upgraded config: %w", err)
	}

	cfg := DefaultConfig()
	if _, ok := doc["object"]; ok {
		cfg.Objects = nil
	}
	if err := toml.Unmarshal(upgraded, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, ErrInvalidConfig)
	}
	names := make(map[string]bool, len(c.Objects))
	for i := range c.Objects {
		o := &c.Objects[i]
		if o.Name == "" {
			o.Name = fmt.Sprintf("%s-%d", o.Shape, i)
		}
		if names[o.Name] {
			return fmt.Errorf("object %s: %w", o.Name, ErrDuplicateObject)
		}
		names[o.Name] = true
		switch o.Shape {
		case "box", "sphere", "quad":
		case "ply":
			if o.Path == "" {
				return fmt.Errorf("object %s has no path: %w", o.Name, ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("object %s shape %q: %w", o.Name, o.Shape, ErrInvalidConfig)
		}
		if o.Scale == [3]float32{} {
			o.Scale = [3]float32{1, 1, 1}
		}
		if o.Color == [4]uint8{} {
			o.Color = [4]uint8{200, 200, 200, 255}
		}
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) LightDirection() mgl32.Vec3 {
	return mgl32.Vec3(c.Light.Direction)
}
