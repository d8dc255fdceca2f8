package physics

import "gonum.org/v1/gonum/spatial/r2"

// Integrate advances every particle one step with semi-implicit Euler (dt = 1):
// velocity first, clamped, then position from the new velocity
func Integrate(ps []Particle, forces []r2.Vec, vmax float64) {
	if len(forces) != len(ps) {
		panic("physics: force count does not match particle count")
	}
	for i := range ps {
		ps[i].Apply(forces[i], vmax)
	}
}

// StepDirect is the O(n²) reference step
func StepDirect(ps []Particle, p Params) {
	Integrate(ps, DirectForces(ps, p), p.VMax)
}
