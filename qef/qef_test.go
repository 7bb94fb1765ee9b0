package qef

import (
	"testing"

	"github.com/archform/dctree/region"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

func closeF(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func closeVec3(a, b ms3.Vec, tol float32) bool {
	return closeF(a.X, b.X, tol) && closeF(a.Y, b.Y, tol) && closeF(a.Z, b.Z, tol)
}

// A single plane sampled at several points should converge to a rank-1
// solve: the vertex is underdetermined along the plane, so Solve should
// report the mass point projected onto the plane's normal direction with
// near-zero residual.
func TestQEF3PlanarRankOne(t *testing.T) {
	var q QEF3
	normal := ms3.Vec{X: 0, Y: 0, Z: 1}
	// Four samples on the z=0.5 plane, all sharing the same normal.
	q.Add(normal, ms3.Vec{X: 0, Y: 0, Z: 0.5})
	q.Add(normal, ms3.Vec{X: 1, Y: 0, Z: 0.5})
	q.Add(normal, ms3.Vec{X: 0, Y: 1, Z: 0.5})
	q.Add(normal, ms3.Vec{X: 1, Y: 1, Z: 0.5})

	cell := region.Box3{Min: ms3.Vec{X: 0, Y: 0, Z: 0}, Max: ms3.Vec{X: 1, Y: 1, Z: 1}}
	v, rank, residual := q.Solve(cell)
	if rank != 1 {
		t.Fatalf("rank = %d, want 1 (single plane)", rank)
	}
	if !closeF(v.Z, 0.5, 1e-3) {
		t.Fatalf("v.Z = %v, want ~0.5", v.Z)
	}
	if residual > 1e-3 {
		t.Fatalf("residual = %v, want ~0", residual)
	}
}

// Two perpendicular planes meeting at an edge along Z should converge to
// a rank-2 solve pinned at the edge's (x,y) location, free along z.
func TestQEF3EdgeRankTwo(t *testing.T) {
	var q QEF3
	nx := ms3.Vec{X: 1, Y: 0, Z: 0}
	ny := ms3.Vec{X: 0, Y: 1, Z: 0}
	// Plane x=0.3 sampled at two heights, plane y=0.7 sampled at two heights.
	q.Add(nx, ms3.Vec{X: 0.3, Y: 0, Z: 0.2})
	q.Add(nx, ms3.Vec{X: 0.3, Y: 0, Z: 0.8})
	q.Add(ny, ms3.Vec{X: 0, Y: 0.7, Z: 0.2})
	q.Add(ny, ms3.Vec{X: 0, Y: 0.7, Z: 0.8})

	cell := region.Box3{Min: ms3.Vec{X: 0, Y: 0, Z: 0}, Max: ms3.Vec{X: 1, Y: 1, Z: 1}}
	v, rank, residual := q.Solve(cell)
	if rank != 2 {
		t.Fatalf("rank = %d, want 2 (two independent planes)", rank)
	}
	if !closeF(v.X, 0.3, 1e-3) || !closeF(v.Y, 0.7, 1e-3) {
		t.Fatalf("v = %+v, want x~0.3 y~0.7", v)
	}
	if residual > 1e-3 {
		t.Fatalf("residual = %v, want ~0", residual)
	}
}

// Three mutually perpendicular planes meeting at a point fully
// constrain the solve: rank 3, vertex pinned at the corner.
func TestQEF3CornerRankThree(t *testing.T) {
	var q QEF3
	q.Add(ms3.Vec{X: 1, Y: 0, Z: 0}, ms3.Vec{X: 0.2, Y: 0, Z: 0})
	q.Add(ms3.Vec{X: 0, Y: 1, Z: 0}, ms3.Vec{X: 0, Y: 0.4, Z: 0})
	q.Add(ms3.Vec{X: 0, Y: 0, Z: 1}, ms3.Vec{X: 0, Y: 0, Z: 0.6})

	cell := region.Box3{Min: ms3.Vec{X: 0, Y: 0, Z: 0}, Max: ms3.Vec{X: 1, Y: 1, Z: 1}}
	v, rank, residual := q.Solve(cell)
	if rank != 3 {
		t.Fatalf("rank = %d, want 3 (three independent planes)", rank)
	}
	want := ms3.Vec{X: 0.2, Y: 0.4, Z: 0.6}
	if !closeVec3(v, want, 1e-3) {
		t.Fatalf("v = %+v, want %+v", v, want)
	}
	if residual > 1e-3 {
		t.Fatalf("residual = %v, want ~0", residual)
	}
}

// A QEF that only ever received near-zero normals (MassCount > 0, but no
// valid A/b contribution) has rank 0 under the eigenvalue cutoff and must
// fall back to the mass point (§7 degenerate QEF).
func TestQEF3DegenerateFallsBackToMassPoint(t *testing.T) {
	var q QEF3
	q.Add(ms3.Vec{}, ms3.Vec{X: 0.25, Y: 0.25, Z: 0.25})
	q.Add(ms3.Vec{}, ms3.Vec{X: 0.75, Y: 0.75, Z: 0.75})

	cell := region.Box3{Min: ms3.Vec{X: 0, Y: 0, Z: 0}, Max: ms3.Vec{X: 1, Y: 1, Z: 1}}
	v, rank, _ := q.Solve(cell)
	if rank != 0 {
		t.Fatalf("rank = %d, want 0 (no valid normals)", rank)
	}
	want := ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	if !closeVec3(v, want, 1e-3) {
		t.Fatalf("v = %+v, want mass point %+v", v, want)
	}
}

// An empty QEF (no samples at all) must fall back to the cell center
// rather than dividing by a zero MassCount.
func TestQEF3EmptyFallsBackToCellCenter(t *testing.T) {
	var q QEF3
	cell := region.Box3{Min: ms3.Vec{X: 2, Y: 2, Z: 2}, Max: ms3.Vec{X: 4, Y: 4, Z: 4}}
	v, rank, residual := q.Solve(cell)
	if rank != 0 {
		t.Fatalf("rank = %d, want 0", rank)
	}
	if residual != 0 {
		t.Fatalf("residual = %v, want 0", residual)
	}
	if !closeVec3(v, cell.Center(), 1e-6) {
		t.Fatalf("v = %+v, want cell center %+v", v, cell.Center())
	}
}

// A solve whose unconstrained minimum escapes the cell must clamp back
// inside it.
func TestQEF3ClampsToCell(t *testing.T) {
	var q QEF3
	// Plane x=5 (outside [0,1]) sampled twice at different y,z; the other
	// two axes are unconstrained, so the solve should clamp x into the cell.
	n := ms3.Vec{X: 1, Y: 0, Z: 0}
	q.Add(n, ms3.Vec{X: 5, Y: 0, Z: 0})
	q.Add(n, ms3.Vec{X: 5, Y: 1, Z: 1})

	cell := region.Box3{Min: ms3.Vec{X: 0, Y: 0, Z: 0}, Max: ms3.Vec{X: 1, Y: 1, Z: 1}}
	v, _, _ := q.Solve(cell)
	if !cell.Contains(v) {
		t.Fatalf("v = %+v escapes cell %+v", v, cell)
	}
	if !closeF(v.X, 1, 1e-3) {
		t.Fatalf("v.X = %v, want clamped to cell max 1", v.X)
	}
}

// Merge must be equivalent to accumulating every sample directly into a
// single QEF: add(a) then add(b) then merge should match the union-set
// accumulation.
func TestQEF3MergeMatchesDirectAccumulation(t *testing.T) {
	var a, b, direct QEF3
	samples := []struct{ n, p ms3.Vec }{
		{ms3.Vec{X: 1}, ms3.Vec{X: 0.1}},
		{ms3.Vec{Y: 1}, ms3.Vec{Y: 0.4}},
		{ms3.Vec{Z: 1}, ms3.Vec{Z: 0.7}},
		{ms3.Vec{X: 1, Y: 1}, ms3.Vec{X: 0.3, Y: 0.3}},
	}
	for i, s := range samples {
		direct.Add(s.n, s.p)
		if i < 2 {
			a.Add(s.n, s.p)
		} else {
			b.Add(s.n, s.p)
		}
	}
	a.Merge(&b)

	if a.AtA != direct.AtA {
		t.Fatalf("AtA = %+v, want %+v", a.AtA, direct.AtA)
	}
	if !closeVec3(a.AtB, direct.AtB, 1e-9) {
		t.Fatalf("AtB = %+v, want %+v", a.AtB, direct.AtB)
	}
	if !closeF(float32(a.BtB), float32(direct.BtB), 1e-9) {
		t.Fatalf("BtB = %v, want %v", a.BtB, direct.BtB)
	}
	if a.MassCount != direct.MassCount {
		t.Fatalf("MassCount = %d, want %d", a.MassCount, direct.MassCount)
	}
	if !closeVec3(a.MassSum, direct.MassSum, 1e-6) {
		t.Fatalf("MassSum = %+v, want %+v", a.MassSum, direct.MassSum)
	}
}

func closeVec2(a, b ms2.Vec, tol float32) bool {
	return closeF(a.X, b.X, tol) && closeF(a.Y, b.Y, tol)
}

// The 2D QEF mirrors QEF3: two independent edges (lines) meeting at a
// point fully constrain a rank-2 solve.
func TestQEF2CornerRankTwo(t *testing.T) {
	var q QEF2
	q.Add(ms2.Vec{X: 1}, ms2.Vec{X: 0.3})
	q.Add(ms2.Vec{Y: 1}, ms2.Vec{Y: 0.7})

	cell := region.Box2{Min: ms2.Vec{X: 0, Y: 0}, Max: ms2.Vec{X: 1, Y: 1}}
	v, rank, residual := q.Solve(cell)
	if rank != 2 {
		t.Fatalf("rank = %d, want 2 (two independent edges)", rank)
	}
	want := ms2.Vec{X: 0.3, Y: 0.7}
	if !closeVec2(v, want, 1e-3) {
		t.Fatalf("v = %+v, want %+v", v, want)
	}
	if residual > 1e-3 {
		t.Fatalf("residual = %v, want ~0", residual)
	}
}

// A single edge sampled at multiple points along its length is rank-1:
// underdetermined along the edge direction.
func TestQEF2EdgeRankOne(t *testing.T) {
	var q QEF2
	n := ms2.Vec{X: 1, Y: 0}
	q.Add(n, ms2.Vec{X: 0.4, Y: 0.1})
	q.Add(n, ms2.Vec{X: 0.4, Y: 0.9})

	cell := region.Box2{Min: ms2.Vec{X: 0, Y: 0}, Max: ms2.Vec{X: 1, Y: 1}}
	v, rank, residual := q.Solve(cell)
	if rank != 1 {
		t.Fatalf("rank = %d, want 1 (single edge)", rank)
	}
	if !closeF(v.X, 0.4, 1e-3) {
		t.Fatalf("v.X = %v, want ~0.4", v.X)
	}
	if residual > 1e-3 {
		t.Fatalf("residual = %v, want ~0", residual)
	}
}
