package dc

import "github.com/archform/dctree/region"

type leafEntry2 struct {
	node *DCTree2
	box  region.Box2
}

// collectLeaves2 is the quadtree counterpart of collectLeaves3.
func collectLeaves2(root *DCTree2, rootBox region.Box2) []leafEntry2 {
	var out []leafEntry2
	var walk func(node *DCTree2, box region.Box2)
	walk = func(node *DCTree2, box region.Box2) {
		if node == nil {
			return
		}
		switch node.Kind {
		case KindBranch:
			children := box.Subdivide()
			for i, c := range *node.Children {
				walk(c, children[i])
			}
		case KindLeaf:
			out = append(out, leafEntry2{node: node, box: box})
		}
	}
	walk(root, rootBox)
	return out
}

func perpAxis2(axis int) int {
	if axis == 0 {
		return 1
	}
	return 0
}

// walkDual2 is the N=2 analogue of walkDual3 (§4.7): each sign-changing
// square edge is shared by exactly 2 cells along the perpendicular axis,
// so the dual primitive is a segment rather than a quad of triangles.
func walkDual2(leaves []leafEntry2, neighbors *DCNeighbors2, mesh *Mesh2) {
	for _, le := range leaves {
		l := le.node.Leaf
		for ei, edge := range squareEdges {
			if l.Intersections[ei] == nil {
				continue
			}
			u, v := edge[0], edge[1]
			axis := bitDiff2(u, v)
			perp := perpAxis2(axis)
			if (u >> uint(perp) & 1) != 0 {
				continue
			}
			emitEdgeSegment2(le, perp, u, neighbors, mesh)
		}
	}
}

func bitDiff2(u, v int) int {
	d := u ^ v
	if d&1 != 0 {
		return 0
	}
	return 1
}

// emitEdgeSegment2 resolves the (up to) 2 cells sharing the directed edge
// anchored at leaf le along the perpendicular axis and emits the segment
// joining their cell vertices. A missing neighbor (domain boundary)
// causes the segment to be skipped.
func emitEdgeSegment2(le leafEntry2, perp, cornerU int, neighbors *DCNeighbors2, mesh *Mesh2) {
	dir := axisDir(cornerU, perp)

	c0 := le.node
	box0 := le.box
	c1, _, ok := neighbors.Neighbor(box0, perp, dir)
	if !ok {
		return
	}

	l0, ok := leafOf2(c0)
	if !ok {
		return
	}
	l1, ok := leafOf2(c1)
	if !ok {
		return
	}

	i0 := mesh.indexOf(l0)
	i1 := mesh.indexOf(l1)
	mesh.addSegment(i0, i1)
}

func leafOf2(c *DCTree2) (*DCLeaf2, bool) {
	if c == nil || c.Kind != KindLeaf {
		return nil, false
	}
	return c.Leaf, true
}
