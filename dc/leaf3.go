package dc

import (
	"github.com/archform/dctree/feature"
	"github.com/archform/dctree/qef"
	"github.com/archform/dctree/region"
	"github.com/soypat/glgl/math/ms3"
)

// edgeSample is one zero-crossing sample accumulated along a cube edge
// (§3 "intersections[...]: per directed edge, ... small-vector of
// (pos, normal, value) samples").
type edgeSample struct {
	Pos    ms3.Vec
	Normal ms3.Vec
	Value  float32
}

// DCLeaf3 is an ambiguous, non-collapsed octree cell (§3 "DCLeaf<N>").
//
// This implementation places a single vertex per leaf: the verts array
// is sized for the general 2^(N-1)-vertex case the spec allows for
// topological correctness, but only verts[0] is ever populated
// (vertex_count is always 1). Splitting a leaf into multiple vertices
// when its sign-changing edges fall into disconnected patches is left
// undone here; see DESIGN.md for the resulting topology tradeoff.
type DCLeaf3 struct {
	Verts       [4]ms3.Vec
	VertexCount int
	Rank        int
	CornerMask  uint8
	Manifold    bool
	Level       int
	Index       [4]int32 // lazily assigned mesh-vertex indices, -1 until set

	Intersections [12]*edgeSample // nil where the edge does not change sign
	QEF           qef.QEF3
	Feature       feature.Feature

	region region.Box3
}

func newDCLeaf3() *DCLeaf3 {
	l := &DCLeaf3{}
	l.Index[0], l.Index[1], l.Index[2], l.Index[3] = -1, -1, -1, -1
	return l
}

func (l *DCLeaf3) reset() {
	*l = DCLeaf3{}
	l.Index[0], l.Index[1], l.Index[2], l.Index[3] = -1, -1, -1, -1
}

// vertex returns the leaf's single vertex position (§ see DCLeaf3 doc).
func (l *DCLeaf3) vertex() ms3.Vec { return l.Verts[0] }
