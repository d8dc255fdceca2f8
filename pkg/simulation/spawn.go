package simulation

import (
	"image/color"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
	"github.com/jrbarnhart/quadtree-gravity/pkg/physics"
)

// Spawner produces random particles. A fixed seed gives a reproducible sequence.
type Spawner struct {
	cfg SpawnConfig
	rnd *rand.Rand
}

// NewSpawner seeds from cfg.Seed, or from the clock when the seed is zero
func NewSpawner(cfg SpawnConfig) *Spawner {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Spawner{cfg: cfg, rnd: rand.New(rand.NewSource(seed))}
}

// Spawn returns n particles placed uniformly inside bounds
func (sp *Spawner) Spawn(n int, bounds geom.Rect) []physics.Particle {
	ps := make([]physics.Particle, n)
	for i := range ps {
		ps[i] = physics.Particle{
			Pos: r2.Vec{
				X: bounds.Left + sp.rnd.Float64()*bounds.Width,
				Y: bounds.Top + sp.rnd.Float64()*bounds.Height,
			},
			Vel: r2.Vec{
				X: (sp.rnd.Float64()*2 - 1) * sp.cfg.Speed,
				Y: (sp.rnd.Float64()*2 - 1) * sp.cfg.Speed,
			},
			Mass:   sp.uniform(sp.cfg.MassMin, sp.cfg.MassMax),
			Radius: sp.uniform(sp.cfg.RadiusMin, sp.cfg.RadiusMax),
			Color: color.RGBA{
				R: uint8(sp.rnd.Intn(256)),
				G: uint8(sp.rnd.Intn(256)),
				B: uint8(sp.rnd.Intn(256)),
				A: 255,
			},
		}
	}
	return ps
}

// At returns a resting red particle at pos, the way a click adds one
func (sp *Spawner) At(pos r2.Vec) physics.Particle {
	mass := sp.cfg.MassMin
	if !(mass > 0) {
		mass = 1
	}
	return physics.Particle{
		Pos:    pos,
		Mass:   mass,
		Radius: math.Round(sp.uniform(sp.cfg.RadiusMin, sp.cfg.RadiusMax)),
		Color:  color.RGBA{255, 0, 0, 255},
	}
}

func (sp *Spawner) uniform(lo, hi float64) float64 {
	return lo + sp.rnd.Float64()*(hi-lo)
}
