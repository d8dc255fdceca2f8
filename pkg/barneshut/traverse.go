package barneshut

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/physics"
	"github.com/jrbarnhart/quadtree-gravity/pkg/quadtree"
)

// visitState tracks a node through one evaluation: unvisited -> processing -> consumed
type visitState uint8

const (
	unvisited visitState = iota
	processing
	consumed
)

type evaluation struct {
	solver    *Solver
	tree      *quadtree.Tree
	particles []physics.Particle
	// forces is nil in incremental mode
	forces []r2.Vec
	state  []visitState
	// ancestors of the leaf being processed, root first
	ancestors []quadtree.NodeID
	stats     Stats
}

// gravity drains the tree leaf by leaf until no unvisited leaf remains
func (e *evaluation) gravity() {
	for {
		leaf := e.firstLeaf(e.tree.Root())
		if leaf == quadtree.NoNode {
			return
		}
		e.state[leaf] = processing
		e.processLeaf(leaf)
		e.state[leaf] = consumed
		e.stats.Leaves++
	}
}

// firstLeaf finds the first unvisited populated leaf in child order.
// Subtrees found to be fully consumed are marked so later scans skip them.
func (e *evaluation) firstLeaf(id quadtree.NodeID) quadtree.NodeID {
	if e.state[id] == consumed {
		return quadtree.NoNode
	}
	n := e.tree.Node(id)
	if n.IsLeaf() {
		if len(n.Particles) == 0 {
			e.state[id] = consumed
			return quadtree.NoNode
		}
		return id
	}
	for _, c := range n.Children {
		if c == quadtree.NoNode {
			continue
		}
		if leaf := e.firstLeaf(c); leaf != quadtree.NoNode {
			return leaf
		}
	}
	e.state[id] = consumed
	return quadtree.NoNode
}

// processLeaf applies exact gravity inside the leaf, then tree gravity from everything else
func (e *evaluation) processLeaf(leaf quadtree.NodeID) {
	e.ancestors = e.ancestors[:0]
	for id := e.tree.Node(leaf).Parent; id != quadtree.NoNode; id = e.tree.Node(id).Parent {
		e.ancestors = append(e.ancestors, id)
	}

	members := e.tree.Node(leaf).Particles
	for _, i := range members {
		for _, j := range members {
			if i != j {
				e.pair(i, e.particles[j].Pos, e.particles[j].Mass)
			}
		}
	}
	for _, i := range members {
		e.treeForce(i, leaf, e.tree.Root())
	}
}

// treeForce accumulates the pull of node id on particle i.
// Leaves are summed exactly; internal nodes collapse to their center of mass when s/r < theta.
// Ancestors of the home leaf are always opened so a particle never attracts itself.
func (e *evaluation) treeForce(i int, home, id quadtree.NodeID) {
	n := e.tree.Node(id)
	if n.IsLeaf() {
		if id == home {
			return
		}
		for _, j := range n.Particles {
			e.pair(i, e.particles[j].Pos, e.particles[j].Mass)
		}
		return
	}

	if !e.isAncestor(id) {
		p := e.particles[i].Pos
		r := math.Hypot(n.Center.X-p.X, n.Center.Y-p.Y)
		if r > 0 && n.Boundary.Size()/r < e.solver.Theta {
			e.pair(i, n.Center, n.Mass)
			e.stats.Approximations++
			return
		}
	}

	for _, c := range n.Children {
		if c != quadtree.NoNode {
			e.treeForce(i, home, c)
		}
	}
}

func (e *evaluation) isAncestor(id quadtree.NodeID) bool {
	for _, a := range e.ancestors {
		if a == id {
			return true
		}
	}
	return false
}

// pair applies the attraction of a point mass at pos on particle i
func (e *evaluation) pair(i int, pos r2.Vec, mass float64) {
	p := &e.particles[i]
	f := physics.Attraction(p.Pos, pos, p.Mass, mass, e.solver.Params)
	e.stats.Pairs++
	if e.forces != nil {
		e.forces[i] = e.forces[i].Add(f)
		return
	}
	p.Apply(f, e.solver.Params.VMax)
}
