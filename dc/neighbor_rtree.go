package dc

import (
	"github.com/archform/dctree/region"
	"github.com/dhconnelly/rtreego"
)

// NeighborIndex answers the Dual walk's neighbor queries (§4.7) from an
// R-tree built once over the flattened leaf set, instead of re-descending
// from the tree root for every query; the walk itself is serial. It
// replaces the teacher's hand-rolled bounding-interval-hierarchy
// (helpers/sdfexp/bih.go) with the same spatial-index role.
type NeighborIndex struct {
	rt    *rtreego.Rtree
	cells map[*leafSpatial]*DCTree3
}

// leafSpatial adapts a leaf's cell box to rtreego.Spatial.
type leafSpatial struct {
	box region.Box3
}

func (s *leafSpatial) Bounds() rtreego.Rect {
	lengths := []float64{
		float64(s.box.Max.X - s.box.Min.X),
		float64(s.box.Max.Y - s.box.Min.Y),
		float64(s.box.Max.Z - s.box.Min.Z),
	}
	for i, l := range lengths {
		if l <= 0 {
			lengths[i] = 1e-6
		}
	}
	p := rtreego.Point{float64(s.box.Min.X), float64(s.box.Min.Y), float64(s.box.Min.Z)}
	r, err := rtreego.NewRect(p, lengths)
	if err != nil {
		panic("dc: degenerate leaf bounds: " + err.Error())
	}
	return r
}

// BuildNeighborIndex flattens every Leaf/Terminal cell of tree into an
// R-tree for position-based lookup.
func BuildNeighborIndex(root *DCTree3, rootBox region.Box3) *NeighborIndex {
	rt := rtreego.NewTree(3, 4, 16)
	idx := &NeighborIndex{rt: rt, cells: make(map[*leafSpatial]*DCTree3)}
	var walk func(node *DCTree3, box region.Box3)
	walk = func(node *DCTree3, box region.Box3) {
		if node == nil {
			return
		}
		if node.Kind == KindBranch {
			children := box.Subdivide()
			for i, c := range *node.Children {
				walk(c, children[i])
			}
			return
		}
		s := &leafSpatial{box: box}
		rt.Insert(s)
		idx.cells[s] = node
	}
	walk(root, rootBox)
	return idx
}

// At returns the cell whose box contains p, if any.
func (idx *NeighborIndex) At(p [3]float32) (*DCTree3, region.Box3, bool) {
	point := rtreego.Point{float64(p[0]), float64(p[1]), float64(p[2])}
	tiny, _ := rtreego.NewRect(point, []float64{1e-6, 1e-6, 1e-6})
	hits := idx.rt.SearchIntersect(tiny)
	for _, h := range hits {
		ls := h.(*leafSpatial)
		if node, ok := idx.cells[ls]; ok {
			return node, ls.box, true
		}
	}
	return nil, region.Box3{}, false
}

// Neighbor implements neighborResolver3 against the R-tree instead of
// DCNeighbors3's root re-descent: same target-point math as
// DCNeighbors3.Neighbor, resolved with a single At lookup.
func (idx *NeighborIndex) Neighbor(box region.Box3, axis int, dir int) (*DCTree3, region.Box3, bool) {
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
	return idx.At([3]float32{target.X, target.Y, target.Z})
}
