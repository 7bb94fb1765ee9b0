package dcmesh

import (
	"github.com/archform/dctree/dc"
	"github.com/yofu/dxf"
)

// WriteDXF writes a 2D polyline mesh (dc.Render2D's output) to path as a
// DXF drawing, one Line entity per mesh segment.
func WriteDXF(path string, mesh *dc.Mesh2) error {
	d := dxf.NewDrawing()
	d.Layer("dctree", true)
	for _, seg := range mesh.Segments {
		a := mesh.Vertices[seg[0]]
		b := mesh.Vertices[seg[1]]
		d.Line(float64(a.X), float64(a.Y), 0, float64(b.X), float64(b.Y), 0)
	}
	return d.SaveAs(path)
}
