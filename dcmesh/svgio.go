package dcmesh

import (
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/archform/dctree/dc"
)

// WriteSVG renders a 2D polyline mesh as a quick-look SVG preview,
// scaled and flipped to fit a width x height pixel canvas. This is a
// debugging aid, not an interchange format (§0 Non-goals: no visualization
// pipeline is specified, but a 2D kernel without any way to eyeball its
// output is hard to trust during development).
func WriteSVG(w io.Writer, mesh *dc.Mesh2, width, height int) {
	canvas := svg.New(w)
	canvas.Start(width, height)
	defer canvas.End()

	if len(mesh.Vertices) == 0 {
		return
	}
	minX, minY := mesh.Vertices[0].X, mesh.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range mesh.Vertices[1:] {
		minX, maxX = minf(minX, v.X), maxf(maxX, v.X)
		minY, maxY = minf(minY, v.Y), maxf(maxY, v.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	margin := 0.05 * float32(width)
	scale := (float32(width) - 2*margin) / spanX
	if s := (float32(height) - 2*margin) / spanY; s < scale {
		scale = s
	}

	px := func(x, y float32) (int, int) {
		sx := margin + (x-minX)*scale
		sy := float32(height) - (margin + (y-minY)*scale)
		return int(sx), int(sy)
	}

	canvas.Rect(0, 0, width, height, "fill:white")
	for _, seg := range mesh.Segments {
		a, b := mesh.Vertices[seg[0]], mesh.Vertices[seg[1]]
		x1, y1 := px(a.X, a.Y)
		x2, y2 := px(b.X, b.Y)
		canvas.Line(x1, y1, x2, y2, "stroke:black;stroke-width:1")
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
