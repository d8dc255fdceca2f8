// Package quadtree implements the region quadtree used for Barnes-Hut force
// evaluation. Nodes are kept in an arena and addressed by NodeID; a tree is
// built from scratch for every simulation step and dropped afterwards.
package quadtree

import (
	"github.com/pkg/errors"

	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
	"github.com/jrbarnhart/quadtree-gravity/pkg/physics"
)

const (
	DefaultMaxDepth = 8
	DefaultCapacity = 1
)

// Options bounds subdivision
type Options struct {
	// MaxDepth is the deepest level a leaf may reach; leaves at this depth overflow instead of splitting
	MaxDepth int
	// Capacity is the number of particles a leaf holds before it splits
	Capacity int
}

func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, Capacity: DefaultCapacity}
}

func (o Options) normalized() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	return o
}

// Tree is a quadtree over a caller-owned particle slice.
// The tree stores indices into the slice and never copies particles.
type Tree struct {
	nodes     []Node
	particles []physics.Particle
	opts      Options
	// massValid is set by ComputeMass and cleared by any insert
	massValid bool
}

// New returns a tree holding only an empty root leaf
func New(boundary geom.Rect, particles []physics.Particle, opts Options) *Tree {
	t := &Tree{
		nodes:     make([]Node, 0, 4*len(particles)+1),
		particles: particles,
		opts:      opts.normalized(),
	}
	t.nodes = append(t.nodes, newNode(boundary, NoNode, 0))
	return t
}

// Build inserts every particle in slice order, then prunes empty leaves.
// It panics if a particle lies outside boundary or has non-positive mass.
func Build(boundary geom.Rect, particles []physics.Particle, opts Options) *Tree {
	t := New(boundary, particles, opts)
	for i := range particles {
		t.Insert(i)
	}
	t.Prune()
	return t
}

// Root is always the first arena slot
func (t *Tree) Root() NodeID {
	return 0
}

// Node returns a read-only view of a live node.
// Asking for a node that Prune detached panics with ErrPruned.
func (t *Tree) Node(id NodeID) *Node {
	n := &t.nodes[id]
	if n.dead {
		panic(errors.Wrapf(ErrPruned, "node %d", id))
	}
	return n
}

func (t *Tree) Boundary() geom.Rect {
	return t.nodes[0].Boundary
}

func (t *Tree) Options() Options {
	return t.opts
}

// Particles returns the caller's slice the tree indexes into
func (t *Tree) Particles() []physics.Particle {
	return t.particles
}

func (t *Tree) Particle(i int) *physics.Particle {
	return &t.particles[i]
}

// HasMass reports whether node aggregates are current
func (t *Tree) HasMass() bool {
	return t.massValid
}

// Arena reports the number of allocated nodes, pruned ones included
func (t *Tree) Arena() int {
	return len(t.nodes)
}
