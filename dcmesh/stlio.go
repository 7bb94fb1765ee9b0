package dcmesh

import (
	"io"
	"os"

	"github.com/archform/dctree/dc"
	"github.com/hschendel/stl"
	"github.com/soypat/glgl/math/ms3"
)

// WriteSTL writes mesh to path as a binary STL file. Per-triangle
// normals are derived from vertex winding (§6 does not specify a stored
// normal per face), matching the convention the teacher's own STL writer
// uses when no explicit normal is available.
func WriteSTL(path string, mesh *dc.Mesh3) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSTLTo(f, mesh)
}

// WriteSTLTo writes mesh as binary STL to an arbitrary writer.
func WriteSTLTo(w io.Writer, mesh *dc.Mesh3) error {
	solid := &stl.Solid{
		Name:      "dctree",
		Triangles: make([]stl.Triangle, 0, len(mesh.Triangles)),
	}
	for _, tri := range mesh.Triangles {
		a := mesh.Vertices[tri[0]]
		b := mesh.Vertices[tri[1]]
		c := mesh.Vertices[tri[2]]
		n := faceNormal(a, b, c)
		solid.Triangles = append(solid.Triangles, stl.Triangle{
			Normal: toSTLVec(n),
			Vertices: [3]stl.Vec3{
				toSTLVec(a),
				toSTLVec(b),
				toSTLVec(c),
			},
		})
	}
	return solid.WriteAll(w)
}

func faceNormal(a, b, c ms3.Vec) ms3.Vec {
	e1 := ms3.Sub(b, a)
	e2 := ms3.Sub(c, a)
	n := ms3.Cross(e1, e2)
	if ms3.Norm(n) < 1e-12 {
		return ms3.Vec{}
	}
	return ms3.Unit(n)
}

func toSTLVec(v ms3.Vec) stl.Vec3 {
	return stl.Vec3{v.X, v.Y, v.Z}
}
