// Package barneshut evaluates gravity over a quadtree with the Barnes-Hut
// approximation and advances the indexed particles by one step.
package barneshut

import (
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/physics"
	"github.com/jrbarnhart/quadtree-gravity/pkg/quadtree"
)

const DefaultTheta = 0.5

// Mode selects how forces are turned into motion
type Mode int

const (
	// Accumulate sums every particle's net force, then integrates once
	Accumulate Mode = iota
	// Incremental applies and clamps after every single interaction, in traversal order
	Incremental
)

func (m Mode) String() string {
	switch m {
	case Accumulate:
		return "accumulate"
	case Incremental:
		return "incremental"
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "accumulate":
		return Accumulate, nil
	case "incremental":
		return Incremental, nil
	}
	return 0, errors.Errorf("barneshut: unknown mode %q", s)
}

// Solver holds the evaluation tunables. The zero Theta is exact (every node is opened).
type Solver struct {
	Theta  float64
	Params physics.Params
	Mode   Mode
}

func NewSolver(theta float64, p physics.Params, mode Mode) *Solver {
	return &Solver{Theta: theta, Params: p, Mode: mode}
}

// Stats counts the work done by one evaluation
type Stats struct {
	Leaves         int // leaves processed by the driver
	Pairs          int // pairwise force evaluations, approximations included
	Approximations int // subtrees replaced by their center of mass
}

// Step evaluates gravity on the tree and moves its particles in place.
// Aggregates are computed first when the tree does not carry current ones.
func (s *Solver) Step(t *quadtree.Tree) Stats {
	if s.Mode == Incremental {
		e := s.evaluate(t, nil)
		return e.stats
	}
	forces, stats := s.Forces(t)
	if len(forces) > 0 {
		physics.Integrate(t.Particles(), forces, s.Params.VMax)
	}
	return stats
}

// Forces returns the approximate net force on every particle without moving anything
func (s *Solver) Forces(t *quadtree.Tree) ([]r2.Vec, Stats) {
	forces := make([]r2.Vec, len(t.Particles()))
	e := s.evaluate(t, forces)
	if e.stats.Leaves == 0 {
		return nil, e.stats
	}
	return forces, e.stats
}

func (s *Solver) evaluate(t *quadtree.Tree, forces []r2.Vec) *evaluation {
	if !t.HasMass() {
		t.ComputeMass()
	}
	e := &evaluation{
		solver:    s,
		tree:      t,
		particles: t.Particles(),
		forces:    forces,
		state:     make([]visitState, t.Arena()),
	}
	e.gravity()
	return e
}
