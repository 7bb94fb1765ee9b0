// Package dcmesh writes the meshes produced by the dc package (§6
// "Returns: an indexed triangle mesh" / polyline set) out to common
// interchange formats: binary STL for 3D triangle meshes, DXF for 2D
// polylines, and SVG as a quick-look preview of the same 2D output.
package dcmesh
