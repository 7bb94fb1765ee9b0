package dc

import "github.com/archform/dctree/region"

// collectLeaves3 flattens the tree into its Leaf nodes in traversal
// order, pairing each with its region.
func collectLeaves3(root *DCTree3, rootBox region.Box3) []leafEntry3 {
	var out []leafEntry3
	var walk func(node *DCTree3, box region.Box3)
	walk = func(node *DCTree3, box region.Box3) {
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
			out = append(out, leafEntry3{node: node, box: box})
		}
	}
	walk(root, rootBox)
	return out
}

type leafEntry3 struct {
	node *DCTree3
	box  region.Box3
}

// perpAxes returns the two axes other than axis, in increasing order.
func perpAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

// neighborResolver3 is satisfied by both DCNeighbors3 (root re-descent)
// and NeighborIndex (R-tree lookup): walkDual3 only ever needs "what's
// adjacent to this box", not how that answer is produced.
type neighborResolver3 interface {
	Neighbor(box region.Box3, axis int, dir int) (*DCTree3, region.Box3, bool)
}

// walkDual3 implements §4.7: for every sign-changing edge owned by its
// minimal-corner leaf, gather the (up to 4) cells sharing that directed
// edge and emit two triangles connecting their cell vertices.
func walkDual3(leaves []leafEntry3, neighbors neighborResolver3, mesh *Mesh3) {
	for _, le := range leaves {
		l := le.node.Leaf
		for ei, edge := range cubeEdges {
			if l.Intersections[ei] == nil {
				continue
			}
			u, v := edge[0], edge[1]
			axis := bitDiff(u, v)
			a0, a1 := perpAxes(axis)
			// Only the leaf owning the minimal corner on both
			// perpendicular axes emits this edge, so each physical edge
			// is processed once among same-size neighbors.
			if (u>>uint(a0))&1 != 0 || (u>>uint(a1))&1 != 0 {
				continue
			}
			emitEdgeQuad3(le, axis, a0, a1, u, neighbors, mesh)
		}
	}
}

func bitDiff(u, v int) int {
	d := u ^ v
	for i := 0; i < 3; i++ {
		if d&(1<<uint(i)) != 0 {
			return i
		}
	}
	return 0
}

// emitEdgeQuad3 resolves the (up to) 4 cells sharing the directed edge
// anchored at leaf le along axis, varying across perpendicular axes a0,
// a1, and emits the corresponding 2 triangles. Missing neighbors (domain
// boundary) cause the quad to be skipped.
func emitEdgeQuad3(le leafEntry3, axis, a0, a1, cornerU int, neighbors neighborResolver3, mesh *Mesh3) {
	dir0 := axisDir(cornerU, a0)
	dir1 := axisDir(cornerU, a1)

	c00 := le.node
	box00 := le.box

	c10, box10, ok10 := neighbors.Neighbor(box00, a0, dir0)
	c01, box01, ok01 := neighbors.Neighbor(box00, a1, dir1)
	if !ok10 || !ok01 {
		return
	}
	c11, _, ok11 := neighbors.Neighbor(box10, a1, dir1)
	if !ok11 {
		c11, _, ok11 = neighbors.Neighbor(box01, a0, dir0)
		if !ok11 {
			return
		}
	}

	l00, ok := leafOf3(c00)
	if !ok {
		return
	}
	l10, ok := leafOf3(c10)
	if !ok {
		return
	}
	l01, ok := leafOf3(c01)
	if !ok {
		return
	}
	l11, ok := leafOf3(c11)
	if !ok {
		return
	}

	i00 := mesh.indexOf(l00)
	i10 := mesh.indexOf(l10)
	i01 := mesh.indexOf(l01)
	i11 := mesh.indexOf(l11)

	// Winding: inside-to-outside along the edge's axis in the increasing
	// direction determines front-face orientation.
	insideAtU := (le.node.Leaf.CornerMask>>uint(cornerU))&1 != 0
	if insideAtU {
		mesh.addTriangle(i00, i10, i11)
		mesh.addTriangle(i00, i11, i01)
	} else {
		mesh.addTriangle(i00, i11, i10)
		mesh.addTriangle(i00, i01, i11)
	}
}

func axisDir(corner, axis int) int {
	if (corner>>uint(axis))&1 != 0 {
		return 1
	}
	return -1
}

// leafOf3 resolves a possibly-Terminal neighbor cell to the Leaf that
// should contribute a vertex: Terminal cells never carry a surface
// vertex, so a quad touching one is incomplete and skipped by the
// caller (ok=false).
func leafOf3(c *DCTree3) (*DCLeaf3, bool) {
	if c == nil || c.Kind != KindLeaf {
		return nil, false
	}
	return c.Leaf, true
}
