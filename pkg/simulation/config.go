package simulation

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/jrbarnhart/quadtree-gravity/pkg/barneshut"
	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
	"github.com/jrbarnhart/quadtree-gravity/pkg/physics"
	"github.com/jrbarnhart/quadtree-gravity/pkg/quadtree"
)

// --- Environment configuration ---
type EnvironmentConfig struct {
	Name     string         `json:"name"`
	Universe UniverseConfig `json:"universe"`

	G        float64 `json:"g"`
	Theta    float64 `json:"theta"`
	VMax     float64 `json:"v_max"`
	Deadzone float64 `json:"deadzone"`

	MaxDepth int `json:"max_depth"`
	Capacity int `json:"capacity"`

	// Mode is accumulate, incremental or direct
	Mode string `json:"mode"`
	// Escape is remove, wrap or expand
	Escape string `json:"escape"`

	StepsPerFrame int `json:"steps_per_frame"`

	Bodies    []BodyConfig `json:"bodies"`
	AutoOrbit bool         `json:"auto_orbit,omitempty"`
	Spawn     SpawnConfig  `json:"spawn"`
}

// UniverseConfig is the root cell, given by its top-left corner
type UniverseConfig struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (u UniverseConfig) Rect() geom.Rect {
	return geom.NewRect(u.X+u.Width/2, u.Y+u.Height/2, u.Height, u.Width)
}

type BodyConfig struct {
	Mass   float64    `json:"mass"`
	Pos    [2]float64 `json:"pos"`
	Vel    [2]float64 `json:"vel"`
	Color  string     `json:"color"`
	Radius float64    `json:"radius"`
	Locked bool       `json:"locked,omitempty"`
}

// SpawnConfig drives random particle generation; Count == 0 spawns nothing
type SpawnConfig struct {
	Count     int     `json:"count"`
	Seed      uint64  `json:"seed"`
	MassMin   float64 `json:"mass_min"`
	MassMax   float64 `json:"mass_max"`
	RadiusMin float64 `json:"radius_min"`
	RadiusMax float64 `json:"radius_max"`
	Speed     float64 `json:"speed"`
}

const (
	ModeDirect = "direct"

	EscapeRemove = "remove"
	EscapeWrap   = "wrap"
	EscapeExpand = "expand"
)

// DefaultConfig returns a 1024x1024 universe with the reference tunables
func DefaultConfig() EnvironmentConfig {
	p := physics.DefaultParams()
	return EnvironmentConfig{
		Name:          "default",
		Universe:      UniverseConfig{Width: 1024, Height: 1024},
		G:             p.G,
		Theta:         barneshut.DefaultTheta,
		VMax:          p.VMax,
		Deadzone:      p.Deadzone,
		MaxDepth:      quadtree.DefaultMaxDepth,
		Capacity:      quadtree.DefaultCapacity,
		Mode:          barneshut.Accumulate.String(),
		Escape:        EscapeRemove,
		StepsPerFrame: 1,
		Spawn: SpawnConfig{
			MassMin:   1,
			MassMax:   1,
			RadiusMin: 1,
			RadiusMax: 20,
			Speed:     1,
		},
	}
}

// Validate rejects configurations the core would panic on
func (c EnvironmentConfig) Validate() error {
	if !(c.Universe.Width > 0 && c.Universe.Height > 0) {
		return errors.Errorf("universe must have positive size, got %vx%v", c.Universe.Width, c.Universe.Height)
	}
	if c.Theta < 0 || math.IsNaN(c.Theta) {
		return errors.Errorf("theta must be >= 0, got %v", c.Theta)
	}
	if c.MaxDepth < 1 {
		return errors.Errorf("max_depth must be >= 1, got %d", c.MaxDepth)
	}
	if c.Capacity < 1 {
		return errors.Errorf("capacity must be >= 1, got %d", c.Capacity)
	}
	if c.StepsPerFrame < 1 {
		return errors.Errorf("steps_per_frame must be >= 1, got %d", c.StepsPerFrame)
	}
	if c.Mode != ModeDirect {
		if _, err := barneshut.ParseMode(c.Mode); err != nil {
			return errors.Wrap(err, "mode")
		}
	}
	switch c.Escape {
	case EscapeRemove, EscapeWrap, EscapeExpand:
	default:
		return errors.Errorf("unknown escape policy %q", c.Escape)
	}
	for i, b := range c.Bodies {
		if !(b.Mass > 0) {
			return errors.Errorf("body %d: mass must be positive, got %v", i, b.Mass)
		}
	}
	s := c.Spawn
	if s.Count < 0 {
		return errors.Errorf("spawn count must be >= 0, got %d", s.Count)
	}
	if s.Count > 0 {
		if !(s.MassMin > 0) || s.MassMax < s.MassMin {
			return errors.Errorf("spawn mass range [%v, %v] invalid", s.MassMin, s.MassMax)
		}
		if s.RadiusMin < 0 || s.RadiusMax < s.RadiusMin {
			return errors.Errorf("spawn radius range [%v, %v] invalid", s.RadiusMin, s.RadiusMax)
		}
	}
	return nil
}

func (c EnvironmentConfig) Params() physics.Params {
	return physics.Params{G: c.G, VMax: c.VMax, Deadzone: c.Deadzone}
}

func (c EnvironmentConfig) TreeOptions() quadtree.Options {
	return quadtree.Options{MaxDepth: c.MaxDepth, Capacity: c.Capacity}
}

// SetOrbitalVelocities gives every resting body a circular orbit around the first body
func SetOrbitalVelocities(bodies []BodyConfig, g float64) {
	if len(bodies) == 0 {
		return
	}
	central := bodies[0]
	for i := 1; i < len(bodies); i++ {
		if bodies[i].Vel[0] != 0 || bodies[i].Vel[1] != 0 {
			continue
		}

		dx := bodies[i].Pos[0] - central.Pos[0]
		dy := bodies[i].Pos[1] - central.Pos[1]
		r := math.Hypot(dx, dy)
		if r == 0 {
			continue
		}
		v := math.Sqrt(g * central.Mass / r)
		// perpendicular to the radius vector
		bodies[i].Vel[0] = -dy / r * v
		bodies[i].Vel[1] = dx / r * v
	}
}

// ReadConfig loads an environment file over DefaultConfig, so absent keys keep their defaults
func ReadConfig(path string) (EnvironmentConfig, error) {
	env := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return env, errors.Wrap(err, "read environment")
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, errors.Wrapf(err, "parse environment %s", path)
	}
	if err := env.Validate(); err != nil {
		return env, errors.Wrapf(err, "invalid environment %s", path)
	}
	return env, nil
}

// --- Load an environment file and build its simulator ---
func LoadConfig(path string, opts ...Option) (*Simulator, error) {
	env, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewSimulator(env, opts...)
}

// --- HEX color parser ---
func parseColor(hex string) color.RGBA {
	var r, g, b uint8
	if len(hex) == 7 && hex[0] == '#' {
		n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
		if err == nil && n == 3 {
			return color.RGBA{r, g, b, 255}
		}
	}
	return color.RGBA{200, 200, 255, 255}
}
