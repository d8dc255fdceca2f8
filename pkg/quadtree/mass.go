package quadtree

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// ComputeMass aggregates mass and center of mass bottom-up and stores them on every live node.
// It returns the root aggregate; an empty tree yields zero mass.
// The tree must be pruned: reaching an empty leaf panics with ErrNotPruned.
func (t *Tree) ComputeMass() (float64, r2.Vec) {
	if t.nodes[0].Empty() {
		t.nodes[0].Mass, t.nodes[0].Center = 0, r2.Vec{}
		t.massValid = true
		return 0, r2.Vec{}
	}
	mass, center := t.computeMass(t.Root())
	t.massValid = true
	return mass, center
}

func (t *Tree) computeMass(id NodeID) (float64, r2.Vec) {
	n := &t.nodes[id]

	var mass float64
	var moment r2.Vec
	if n.Kind == Leaf {
		if len(n.Particles) == 0 {
			panic(errors.Wrapf(ErrNotPruned, "node %d at depth %d", id, n.Depth))
		}
		if len(n.Particles) == 1 {
			p := &t.particles[n.Particles[0]]
			n.Mass, n.Center = p.Mass, p.Pos
			return p.Mass, p.Pos
		}
		// Overflow leaves collapse to their weighted centroid like any internal node
		for _, i := range n.Particles {
			p := &t.particles[i]
			mass += p.Mass
			moment = moment.Add(p.Pos.Scale(p.Mass))
		}
	} else {
		for _, c := range n.Children {
			if c == NoNode {
				continue
			}
			m, center := t.computeMass(c)
			mass += m
			moment = moment.Add(center.Scale(m))
		}
	}

	center := r2.Vec{X: moment.X / mass, Y: moment.Y / mass}
	n.Mass, n.Center = mass, center
	return mass, center
}
