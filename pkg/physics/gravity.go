package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Params carries the physical tunables through every force calculation
type Params struct {
	G float64
	// VMax clamps each velocity component after every applied force; <= 0 disables
	VMax float64
	// Deadzone suppresses attraction between points closer than this distance
	Deadzone float64
}

func DefaultParams() Params {
	return Params{G: 1, VMax: 0.1}
}

// Attraction returns the force on a mass at a exerted by a mass at b.
// The force points from a toward b with magnitude G*ma*mb/r².
// Coincident points and points inside the deadzone yield zero.
func Attraction(a, b r2.Vec, ma, mb float64, p Params) r2.Vec {
	dx := b.X - a.X
	dy := b.Y - a.Y
	distSq := dx*dx + dy*dy
	if distSq == 0 {
		return r2.Vec{}
	}
	dist := math.Sqrt(distSq)
	if dist <= p.Deadzone {
		return r2.Vec{}
	}
	f := p.G * ma * mb / distSq
	return r2.Vec{X: f * dx / dist, Y: f * dy / dist}
}

// DirectForces computes the exact net force on every particle in O(n²)
func DirectForces(ps []Particle, p Params) []r2.Vec {
	forces := make([]r2.Vec, len(ps))
	for i := range ps {
		for j := range ps {
			if i == j {
				continue
			}
			forces[i] = forces[i].Add(Attraction(ps[i].Pos, ps[j].Pos, ps[i].Mass, ps[j].Mass, p))
		}
	}
	return forces
}
