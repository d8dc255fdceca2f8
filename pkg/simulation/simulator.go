package simulation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/barneshut"
	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
	"github.com/jrbarnhart/quadtree-gravity/pkg/physics"
	"github.com/jrbarnhart/quadtree-gravity/pkg/quadtree"
)

// --- Simulation driver ---
// Simulator owns the particle slice. Each Step rebuilds the tree from scratch,
// so the slice may be changed freely between steps but never during one.
type Simulator struct {
	Name          string
	Universe      geom.Rect
	Particles     []physics.Particle
	StepsPerFrame int

	params  physics.Params
	opts    quadtree.Options
	solver  *barneshut.Solver
	direct  bool
	escape  string
	spawner *Spawner

	tree  *quadtree.Tree
	steps int
	log   *logrus.Entry
}

type Option func(*Simulator)

// WithLogger routes step and escape logs to l
func WithLogger(l *logrus.Entry) Option {
	return func(s *Simulator) {
		s.log = l
	}
}

// --- Build a simulator from a validated configuration ---
func NewSimulator(cfg EnvironmentConfig, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bodies := append([]BodyConfig(nil), cfg.Bodies...)
	if cfg.AutoOrbit {
		SetOrbitalVelocities(bodies, cfg.G)
	}

	s := &Simulator{
		Name:          cfg.Name,
		Universe:      cfg.Universe.Rect(),
		StepsPerFrame: cfg.StepsPerFrame,
		params:        cfg.Params(),
		opts:          cfg.TreeOptions(),
		direct:        cfg.Mode == ModeDirect,
		escape:        cfg.Escape,
		spawner:       NewSpawner(cfg.Spawn),
		log:           logrus.WithField("component", "simulation"),
	}
	for _, o := range opts {
		o(s)
	}
	if !s.direct {
		mode, _ := barneshut.ParseMode(cfg.Mode)
		s.solver = barneshut.NewSolver(cfg.Theta, s.params, mode)
	}

	s.Particles = make([]physics.Particle, 0, len(bodies)+cfg.Spawn.Count)
	for _, b := range bodies {
		s.Particles = append(s.Particles, physics.Particle{
			Mass:   b.Mass,
			Pos:    r2.Vec{X: b.Pos[0], Y: b.Pos[1]},
			Vel:    r2.Vec{X: b.Vel[0], Y: b.Vel[1]},
			Radius: b.Radius,
			Color:  parseColor(b.Color),
			Locked: b.Locked,
		})
	}
	if cfg.Spawn.Count > 0 {
		s.Particles = append(s.Particles, s.spawner.Spawn(cfg.Spawn.Count, s.Universe)...)
	}

	s.log.WithFields(logrus.Fields{
		"name":      s.Name,
		"particles": len(s.Particles),
		"mode":      cfg.Mode,
		"theta":     cfg.Theta,
		"escape":    s.escape,
	}).Info("simulation ready")
	return s, nil
}

// Step runs one full cycle: escape handling, build, aggregate, evaluate
func (s *Simulator) Step() StepStats {
	start := time.Now()
	stats := StepStats{Step: s.steps + 1}
	stats.Removed = s.applyEscape()

	bounds := s.Universe
	if s.escape == EscapeExpand {
		bounds = geom.Bounding(s.Universe, physics.Positions(s.Particles), 1)
	}

	if s.direct {
		physics.StepDirect(s.Particles, s.params)
		s.tree = nil
		stats.Pairs = len(s.Particles) * (len(s.Particles) - 1)
	} else {
		tree := quadtree.Build(bounds, s.Particles, s.opts)
		tree.ComputeMass()
		shape := tree.Stats()
		work := s.solver.Step(tree)

		s.tree = tree
		stats.Nodes = shape.Nodes
		stats.Leaves = shape.Leaves
		stats.Depth = shape.Depth
		stats.Overflow = shape.Overflow
		stats.Pairs = work.Pairs
		stats.Approximations = work.Approximations
	}

	s.steps++
	stats.Particles = len(s.Particles)
	stats.Duration = time.Since(start)
	s.log.WithFields(stats.Fields()).Debug("step")
	return stats
}

// Run steps n times, or forever when n <= 0, stopping early once ctx is done.
// Cancellation is only observed between steps. Every `every` steps the stats are logged at info.
func (s *Simulator) Run(ctx context.Context, n, every int) (StepStats, error) {
	var last StepStats
	for i := 0; n <= 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		last = s.Step()
		if every > 0 && last.Step%every == 0 {
			s.log.WithFields(last.Fields()).Info("progress")
		}
	}
	return last, nil
}

// AddParticles appends particles between steps
func (s *Simulator) AddParticles(ps ...physics.Particle) {
	s.Particles = append(s.Particles, ps...)
}

// Spawner returns the generator configured for this simulation
func (s *Simulator) Spawner() *Spawner {
	return s.spawner
}

// Tree returns the tree built by the last step, or nil in direct mode or before the first step.
// It refers to particle indices as they were during that step.
func (s *Simulator) Tree() *quadtree.Tree {
	return s.tree
}

// Steps reports how many steps have completed
func (s *Simulator) Steps() int {
	return s.steps
}

func (s *Simulator) Params() physics.Params {
	return s.params
}
