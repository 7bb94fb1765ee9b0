package dc

import (
	"github.com/archform/dctree/region"
	"github.com/soypat/glgl/math/ms3"
)

// DCNeighbors3 answers neighbor queries against a fixed, already-built
// octree (§4.5). The spec describes an ascend/descend bit-walk driven by
// parent back-pointers; this implementation instead re-descends from the
// root toward a target point, without needing a (weak) parent pointer on
// every node — see DESIGN.md for the tradeoff. Unlike the bit-walk, the
// descent does not stop at the query cell's level: it returns whichever
// Leaf or Terminal contains the target point, which may be finer.
type DCNeighbors3 struct {
	root    *DCTree3
	rootBox region.Box3
}

// NewNeighbors3 wraps a built tree for neighbor lookups.
func NewNeighbors3(root *DCTree3, rootBox region.Box3) *DCNeighbors3 {
	return &DCNeighbors3{root: root, rootBox: rootBox}
}

// Neighbor returns the leaf/terminal cell adjacent to box across axis
// (0=x,1=y,2=z) in direction dir (-1 or +1): the Leaf or Terminal that
// contains the point one box width from box's center along that axis,
// which may be coarser, equal or finer than box. ok is false if the neighbor would lie outside the meshing region.
func (n *DCNeighbors3) Neighbor(box region.Box3, axis int, dir int) (cell *DCTree3, cellBox region.Box3, ok bool) {
	size := box.Size()
	var step float32
	switch axis {
	case 0:
		step = size.X
	case 1:
		step = size.Y
	default:
		step = size.Z
	}
	target := box.Center()
	delta := float32(dir) * step
	switch axis {
	case 0:
		target.X += delta
	case 1:
		target.Y += delta
	default:
		target.Z += delta
	}
	if !n.rootBox.Contains(target) {
		return nil, region.Box3{}, false
	}
	return descendTo3(n.root, n.rootBox, target)
}

func descendTo3(node *DCTree3, box region.Box3, p ms3.Vec) (*DCTree3, region.Box3, bool) {
	for node.Kind == KindBranch {
		children := box.Subdivide()
		idx := 0
		for i, c := range children {
			if c.Contains(p) {
				idx = i
				box = c
				break
			}
		}
		node = node.Children[idx]
	}
	return node, box, true
}
