package physics

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a point mass. The caller owns the slice; trees refer to particles by index
type Particle struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Mass   float64
	Radius float64
	Color  color.RGBA

	// Locked particles attract others but are never moved
	Locked bool
}

// Apply integrates a single force contribution: v = clamp(v + F/m), pos += v
func (p *Particle) Apply(force r2.Vec, vmax float64) {
	if p.Locked {
		p.Vel = r2.Vec{}
		return
	}
	p.Vel = ClampVelocity(p.Vel.Add(force.Scale(1/p.Mass)), vmax)
	p.Pos = p.Pos.Add(p.Vel)
}

// ClampVelocity clamps each component to [-vmax, vmax]. vmax <= 0 disables clamping
func ClampVelocity(v r2.Vec, vmax float64) r2.Vec {
	if vmax <= 0 {
		return v
	}
	return r2.Vec{
		X: math.Max(-vmax, math.Min(vmax, v.X)),
		Y: math.Max(-vmax, math.Min(vmax, v.Y)),
	}
}

// Speed ---
func (p Particle) Speed() float64 {
	return math.Hypot(p.Vel.X, p.Vel.Y)
}

// TotalMass sums the mass of ps
func TotalMass(ps []Particle) float64 {
	var m float64
	for i := range ps {
		m += ps[i].Mass
	}
	return m
}

// Positions copies the particle positions out, in slice order
func Positions(ps []Particle) []r2.Vec {
	out := make([]r2.Vec, len(ps))
	for i := range ps {
		out[i] = ps[i].Pos
	}
	return out
}
