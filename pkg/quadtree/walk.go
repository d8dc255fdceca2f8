package quadtree

import "github.com/jrbarnhart/quadtree-gravity/pkg/geom"

// Walk visits live nodes depth first in child order (NW, NE, SE, SW).
// Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(id NodeID, n *Node) bool) {
	t.walk(t.Root(), fn)
}

func (t *Tree) walk(id NodeID, fn func(NodeID, *Node) bool) {
	n := &t.nodes[id]
	if !fn(id, n) {
		return
	}
	for _, c := range n.Children {
		if c != NoNode {
			t.walk(c, fn)
		}
	}
}

// Leaves returns the live leaves that hold particles, in walk order
func (t *Tree) Leaves() []NodeID {
	var out []NodeID
	t.Walk(func(id NodeID, n *Node) bool {
		if n.IsLeaf() && len(n.Particles) > 0 {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Len counts live nodes
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(NodeID, *Node) bool {
		count++
		return true
	})
	return count
}

// Depth is the depth of the deepest live node; a lone root is depth 0
func (t *Tree) Depth() int {
	depth := 0
	t.Walk(func(_ NodeID, n *Node) bool {
		if n.Depth > depth {
			depth = n.Depth
		}
		return true
	})
	return depth
}

// LeafOf returns the live leaf holding particle i, or NoNode
func (t *Tree) LeafOf(i int) NodeID {
	id := t.Root()
	pos := t.particles[i].Pos
	for id != NoNode {
		n := &t.nodes[id]
		if n.IsLeaf() {
			for _, j := range n.Particles {
				if j == i {
					return id
				}
			}
			return NoNode
		}
		id = t.ChildFor(id, pos)
	}
	return NoNode
}

// Query returns the indices of particles inside r
func (t *Tree) Query(r geom.Rect) []int {
	var out []int
	t.Walk(func(_ NodeID, n *Node) bool {
		if !n.Boundary.Intersects(r) {
			return false
		}
		for _, i := range n.Particles {
			if r.Contains(t.particles[i].Pos) {
				out = append(out, i)
			}
		}
		return true
	})
	return out
}

// Stats summarises the shape of a built tree
type Stats struct {
	Nodes     int
	Leaves    int
	Depth     int
	Overflow  int // leaves holding more than Capacity particles
	Particles int
}

func (t *Tree) Stats() Stats {
	var s Stats
	t.Walk(func(_ NodeID, n *Node) bool {
		s.Nodes++
		if n.Depth > s.Depth {
			s.Depth = n.Depth
		}
		if n.IsLeaf() && len(n.Particles) > 0 {
			s.Leaves++
			s.Particles += len(n.Particles)
			if len(n.Particles) > t.opts.Capacity {
				s.Overflow++
			}
		}
		return true
	})
	return s
}
