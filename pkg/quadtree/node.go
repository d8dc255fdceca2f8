package quadtree

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
)

// NodeID addresses a node inside its tree's arena
type NodeID int32

// NoNode marks an absent or pruned child slot, and the root's parent
const NoNode NodeID = -1

// Kind tags a node as leaf or internal
type Kind uint8

const (
	Leaf Kind = iota
	Internal
)

func (k Kind) String() string {
	if k == Internal {
		return "internal"
	}
	return "leaf"
}

// Node is one cell of the tree.
// Leaves hold particle indices; internal nodes hold none and carry their
// subtree only through Mass and Center once ComputeMass has run.
type Node struct {
	Boundary geom.Rect
	Kind     Kind
	Parent   NodeID
	// Children is indexed by geom.Quadrant; slots are NoNode on leaves and after pruning
	Children  [4]NodeID
	Particles []int
	Depth     int

	Mass   float64
	Center r2.Vec

	// dead is set when Prune detaches the node; its arena slot stays allocated
	dead bool
}

func newNode(boundary geom.Rect, parent NodeID, depth int) Node {
	return Node{
		Boundary: boundary,
		Kind:     Leaf,
		Parent:   parent,
		Children: [4]NodeID{NoNode, NoNode, NoNode, NoNode},
		Depth:    depth,
	}
}

func (n *Node) IsLeaf() bool {
	return n.Kind == Leaf
}

// Empty reports whether the node is a leaf without particles
func (n *Node) Empty() bool {
	return n.Kind == Leaf && len(n.Particles) == 0
}
