package dc

import (
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Mesh3 is the indexed triangle mesh produced by Render (§6 "Returns: an
// indexed triangle mesh (3D)"). Vertex indices are assigned during the
// Dual walk in walk order (§5 "deterministic per configuration, but not
// across thread counts").
type Mesh3 struct {
	Vertices  []ms3.Vec
	Triangles [][3]int32
}

// addTriangle appends one triangle by vertex index.
func (m *Mesh3) addTriangle(a, b, c int32) {
	if a == b || b == c || a == c {
		return // degenerate: two corners collapsed to the same vertex.
	}
	m.Triangles = append(m.Triangles, [3]int32{a, b, c})
}

// indexOf lazily assigns and returns a leaf's mesh-vertex index.
func (m *Mesh3) indexOf(l *DCLeaf3) int32 {
	if l.Index[0] >= 0 {
		return l.Index[0]
	}
	idx := int32(len(m.Vertices))
	m.Vertices = append(m.Vertices, l.vertex())
	l.Index[0] = idx
	return idx
}

// Mesh2 is the quadtree counterpart of Mesh3: a 2D polyline set rather
// than a triangle mesh, since the dual primitive on a shared square edge
// is a line segment (§4.7, N=2 case).
type Mesh2 struct {
	Vertices []ms2.Vec
	Segments [][2]int32
}

func (m *Mesh2) addSegment(a, b int32) {
	if a == b {
		return
	}
	m.Segments = append(m.Segments, [2]int32{a, b})
}

func (m *Mesh2) indexOf(l *DCLeaf2) int32 {
	if l.Index >= 0 {
		return l.Index
	}
	idx := int32(len(m.Vertices))
	m.Vertices = append(m.Vertices, l.Vert)
	l.Index = idx
	return idx
}
