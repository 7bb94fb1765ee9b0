package dc

import (
	"github.com/archform/dctree/feature"
	"github.com/archform/dctree/qef"
	"github.com/archform/dctree/region"
	"github.com/soypat/glgl/math/ms2"
)

// edgeSample2 mirrors edgeSample for the 2D quadtree.
type edgeSample2 struct {
	Pos    ms2.Vec
	Normal ms2.Vec
	Value  float32
}

// DCLeaf2 is the 2D counterpart of DCLeaf3 (§3), single-vertex per leaf.
type DCLeaf2 struct {
	Vert       ms2.Vec
	Rank       int
	CornerMask uint8
	Manifold   bool
	Level      int
	Index      int32

	Intersections [4]*edgeSample2
	QEF           qef.QEF2
	Feature       feature.Feature

	region region.Box2
}

func newDCLeaf2() *DCLeaf2 {
	return &DCLeaf2{Index: -1}
}

func (l *DCLeaf2) reset() {
	*l = DCLeaf2{Index: -1}
}
