package dc

import (
	"github.com/archform/dctree/region"
	"github.com/soypat/glgl/math/ms2"
)

// DCNeighbors2 is the quadtree counterpart of DCNeighbors3: same
// root-re-descent strategy, same tradeoff (see DESIGN.md).
type DCNeighbors2 struct {
	root    *DCTree2
	rootBox region.Box2
}

func NewNeighbors2(root *DCTree2, rootBox region.Box2) *DCNeighbors2 {
	return &DCNeighbors2{root: root, rootBox: rootBox}
}

// Neighbor returns the cell adjacent to box across axis (0=x,1=y) in
// direction dir (-1 or +1): the Leaf or Terminal that contains the point
// one box width from box's center along that axis, which may be coarser,
// equal or finer than box.
func (n *DCNeighbors2) Neighbor(box region.Box2, axis int, dir int) (cell *DCTree2, cellBox region.Box2, ok bool) {
	size := box.Size()
	var step float32
	if axis == 0 {
		step = size.X
	} else {
		step = size.Y
	}
	target := box.Center()
	delta := float32(dir) * step
	if axis == 0 {
		target.X += delta
	} else {
		target.Y += delta
	}
	if !n.rootBox.Contains(target) {
		return nil, region.Box2{}, false
	}
	return descendTo2(n.root, n.rootBox, target)
}

func descendTo2(node *DCTree2, box region.Box2, p ms2.Vec) (*DCTree2, region.Box2, bool) {
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
