package quadtree

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
)

// Invariant violations. Build panics with these wrapped; they indicate a driver bug.
var (
	ErrOutOfBounds = errors.New("quadtree: particle outside root boundary")
	ErrBadMass     = errors.New("quadtree: particle mass must be positive")
	ErrNotPruned   = errors.New("quadtree: empty leaf reached, tree not pruned")
	ErrPruned      = errors.New("quadtree: node was detached by Prune")
)

// QuadrantOf picks the child cell of r that owns p.
// x <= centerX is west and y <= centerY is north, so center ties go to NW.
func QuadrantOf(r geom.Rect, p r2.Vec) geom.Quadrant {
	if p.X <= r.CenterX {
		if p.Y <= r.CenterY {
			return geom.NW
		}
		return geom.SW
	}
	if p.Y <= r.CenterY {
		return geom.NE
	}
	return geom.SE
}

// ChildFor returns the child of id whose quadrant owns p. It is NoNode on leaves and pruned slots.
func (t *Tree) ChildFor(id NodeID, p r2.Vec) NodeID {
	n := &t.nodes[id]
	return n.Children[QuadrantOf(n.Boundary, p)]
}

// Insert adds particle i of the indexed slice
func (t *Tree) Insert(i int) {
	p := &t.particles[i]
	if !(p.Mass > 0) {
		panic(errors.Wrapf(ErrBadMass, "particle %d has mass %v", i, p.Mass))
	}
	if !t.nodes[0].Boundary.Contains(p.Pos) {
		panic(errors.Wrapf(ErrOutOfBounds, "particle %d at (%v, %v)", i, p.Pos.X, p.Pos.Y))
	}
	t.massValid = false
	t.insert(t.Root(), i)
}

func (t *Tree) insert(id NodeID, i int) {
	pos := t.particles[i].Pos
	for {
		n := &t.nodes[id]

		if n.Kind == Internal {
			id = t.childOrRevive(id, pos)
			continue
		}

		// Room left, or splitting is no longer allowed: overflow bucket
		if len(n.Particles) < t.opts.Capacity || n.Depth >= t.opts.MaxDepth {
			n.Particles = append(n.Particles, i)
			return
		}

		residents := n.Particles
		n.Particles = nil
		t.subdivide(id)
		for _, r := range residents {
			t.insert(t.ChildFor(id, t.particles[r].Pos), r)
		}
		id = t.ChildFor(id, pos)
	}
}

// childOrRevive returns the owning child, recreating it when it was pruned by an earlier Prune
func (t *Tree) childOrRevive(id NodeID, p r2.Vec) NodeID {
	q := QuadrantOf(t.nodes[id].Boundary, p)
	if c := t.nodes[id].Children[q]; c != NoNode {
		return c
	}
	c := t.alloc(t.nodes[id].Boundary.Quadrant(q), id, t.nodes[id].Depth+1)
	t.nodes[id].Children[q] = c
	return c
}

// subdivide turns a leaf into an internal node with four empty children. No-op on internal nodes.
func (t *Tree) subdivide(id NodeID) {
	if t.nodes[id].Kind == Internal {
		return
	}
	boundary, depth := t.nodes[id].Boundary, t.nodes[id].Depth
	var children [4]NodeID
	for q := geom.NW; q <= geom.SW; q++ {
		children[q] = t.alloc(boundary.Quadrant(q), id, depth+1)
	}
	// alloc may move the arena
	n := &t.nodes[id]
	n.Kind = Internal
	n.Children = children
}

func (t *Tree) alloc(boundary geom.Rect, parent NodeID, depth int) NodeID {
	t.nodes = append(t.nodes, newNode(boundary, parent, depth))
	return NodeID(len(t.nodes) - 1)
}

// Prune detaches every empty leaf below the root, breadth first.
// The root itself is never detached, so an empty tree keeps an empty root leaf.
func (t *Tree) Prune() {
	queue := []NodeID{t.Root()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n := &t.nodes[id]
		if n.Empty() && n.Parent != NoNode {
			t.detach(id)
			continue
		}
		for _, c := range n.Children {
			if c != NoNode {
				queue = append(queue, c)
			}
		}
	}
}

func (t *Tree) detach(id NodeID) {
	n := &t.nodes[id]
	parent := &t.nodes[n.Parent]
	for q, c := range parent.Children {
		if c == id {
			parent.Children[q] = NoNode
		}
	}
	n.dead = true
}
