package qef

import (
	"github.com/archform/dctree/region"
	"gonum.org/v1/gonum/mat"
	"github.com/soypat/glgl/math/ms3"
)

// QEF3 accumulates the quadratic error function E(v) = sum_i (n_i.(v-p_i))^2
// for a 3D cell: AtA = sum n_i n_i^T, AtB = sum n_i (n_i.p_i), BtB = sum
// (n_i.p_i)^2, plus the separate mass-point accumulator used both as the
// degenerate-rank fallback and as the recentering origin for the solve
// (§4.2, §7 "degenerate QEF").
type QEF3 struct {
	AtA       [3][3]float64
	AtB       ms3.Vec
	BtB       float64
	MassSum   ms3.Vec
	MassCount int
}

// Add accumulates one (normal, position) sample. A near-zero normal is
// treated as an invalid direction per §7: it still contributes to the
// mass point but is excluded from A/b.
func (q *QEF3) Add(normal, pos ms3.Vec) {
	q.MassSum = ms3.Add(q.MassSum, pos)
	q.MassCount++
	n := ms3.Norm(normal)
	if n < 1e-9 {
		return
	}
	normal = ms3.Scale(1/n, normal)
	nx, ny, nz := float64(normal.X), float64(normal.Y), float64(normal.Z)
	q.AtA[0][0] += nx * nx
	q.AtA[0][1] += nx * ny
	q.AtA[0][2] += nx * nz
	q.AtA[1][1] += ny * ny
	q.AtA[1][2] += ny * nz
	q.AtA[2][2] += nz * nz
	b := ms3.Dot(normal, pos)
	q.AtB = ms3.Add(q.AtB, ms3.Scale(b, normal))
	q.BtB += float64(b) * float64(b)
}

// Merge folds another cell's accumulator into q (§4.4 collectChildren).
func (q *QEF3) Merge(o *QEF3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			q.AtA[i][j] += o.AtA[i][j]
		}
	}
	q.AtB = ms3.Add(q.AtB, o.AtB)
	q.BtB += o.BtB
	q.MassSum = ms3.Add(q.MassSum, o.MassSum)
	q.MassCount += o.MassCount
}

// MassPoint returns the average sample position, the fallback vertex
// when the QEF carries no valid normals.
func (q *QEF3) MassPoint() ms3.Vec {
	if q.MassCount == 0 {
		return ms3.Vec{}
	}
	return ms3.Scale(1/float32(q.MassCount), q.MassSum)
}

// Solve finds the vertex minimizing the QEF via a truncated
// eigendecomposition of AtA (§4.2 findVertex), recentered at the mass
// point, clamped to cell if it escapes, and returns the feature rank
// (1=planar, 2=edge, 3=corner) and residual error.
func (q *QEF3) Solve(cell region.Box3) (vertex ms3.Vec, rank int, residual float32) {
	if q.MassCount == 0 {
		return cell.Center(), 0, 0
	}
	m := q.MassPoint()
	mv := mat.NewVecDense(3, []float64{float64(m.X), float64(m.Y), float64(m.Z)})

	sym := mat.NewSymDense(3, []float64{
		q.AtA[0][0], q.AtA[0][1], q.AtA[0][2],
		q.AtA[0][1], q.AtA[1][1], q.AtA[1][2],
		q.AtA[0][2], q.AtA[1][2], q.AtA[2][2],
	})
	var eig mat.EigenSym
	ok := eig.Factorize(sym, true)
	if !ok {
		return m, 0, 0
	}
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	maxEig := 0.0
	for _, v := range values {
		if v > maxEig {
			maxEig = v
		}
	}
	// c = AtB - AtA*m, the recentered right-hand side: substituting
	// v = m + x into AtA*v = AtB gives AtA*x = c.
	var atAm mat.VecDense
	atAm.MulVec(sym, mv)
	c := mat.NewVecDense(3, []float64{
		float64(q.AtB.X) - atAm.AtVec(0),
		float64(q.AtB.Y) - atAm.AtVec(1),
		float64(q.AtB.Z) - atAm.AtVec(2),
	})

	// x = V diag(1/lambda_i if lambda_i large else 0) V^T c
	var vtc mat.VecDense
	vtc.MulVec(vecs.T(), c)
	rank = 0
	scaled := mat.NewVecDense(3, nil)
	for i, lambda := range values {
		if lambda > EigenvalueCutoff*maxEig {
			scaled.SetVec(i, vtc.AtVec(i)/lambda)
			rank++
		} else {
			scaled.SetVec(i, 0)
		}
	}
	var x mat.VecDense
	x.MulVec(&vecs, scaled)

	v := ms3.Vec{
		X: m.X + float32(x.AtVec(0)),
		Y: m.Y + float32(x.AtVec(1)),
		Z: m.Z + float32(x.AtVec(2)),
	}
	if !cell.Contains(v) {
		v = cell.Clamp(v)
	}
	residual = q.residualAt(v)
	if rank == 0 {
		// Fully degenerate: fall back to the mass point (§7).
		return m, 0, q.residualAt(m)
	}
	return v, rank, residual
}

// residualAt evaluates the unrecentered QEF E(v) = v^T AtA v - 2 AtB.v + BtB.
func (q *QEF3) residualAt(v ms3.Vec) float32 {
	atAv := ms3.Vec{
		X: float32(q.AtA[0][0])*v.X + float32(q.AtA[0][1])*v.Y + float32(q.AtA[0][2])*v.Z,
		Y: float32(q.AtA[0][1])*v.X + float32(q.AtA[1][1])*v.Y + float32(q.AtA[1][2])*v.Z,
		Z: float32(q.AtA[0][2])*v.X + float32(q.AtA[1][2])*v.Y + float32(q.AtA[2][2])*v.Z,
	}
	vAv := ms3.Dot(v, atAv)
	e := vAv - 2*ms3.Dot(q.AtB, v) + float32(q.BtB)
	if e < 0 {
		e = 0 // clamp rounding noise.
	}
	return e
}
