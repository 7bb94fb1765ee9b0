package qef

import (
	"github.com/archform/dctree/region"
	"gonum.org/v1/gonum/mat"
	"github.com/soypat/glgl/math/ms2"
)

// QEF2 is the 2D counterpart of QEF3: AtA is a 2x2 symmetric
// accumulator, used by the quadtree variant of the kernel (§0 "dc2").
type QEF2 struct {
	AtA       [2][2]float64
	AtB       ms2.Vec
	BtB       float64
	MassSum   ms2.Vec
	MassCount int
}

// Add accumulates one (normal, position) sample, excluding near-zero
// normals from A/b as in QEF3.Add.
func (q *QEF2) Add(normal, pos ms2.Vec) {
	q.MassSum = ms2.Add(q.MassSum, pos)
	q.MassCount++
	n := ms2.Norm(normal)
	if n < 1e-9 {
		return
	}
	normal = ms2.Scale(1/n, normal)
	nx, ny := float64(normal.X), float64(normal.Y)
	q.AtA[0][0] += nx * nx
	q.AtA[0][1] += nx * ny
	q.AtA[1][1] += ny * ny
	b := ms2.Dot(normal, pos)
	q.AtB = ms2.Add(q.AtB, ms2.Scale(b, normal))
	q.BtB += float64(b) * float64(b)
}

// Merge folds another cell's accumulator into q.
func (q *QEF2) Merge(o *QEF2) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			q.AtA[i][j] += o.AtA[i][j]
		}
	}
	q.AtB = ms2.Add(q.AtB, o.AtB)
	q.BtB += o.BtB
	q.MassSum = ms2.Add(q.MassSum, o.MassSum)
	q.MassCount += o.MassCount
}

// MassPoint returns the average sample position.
func (q *QEF2) MassPoint() ms2.Vec {
	if q.MassCount == 0 {
		return ms2.Vec{}
	}
	return ms2.Scale(1/float32(q.MassCount), q.MassSum)
}

// Solve mirrors QEF3.Solve for the 2x2 case (rank 1=edge, 2=corner).
func (q *QEF2) Solve(cell region.Box2) (vertex ms2.Vec, rank int, residual float32) {
	if q.MassCount == 0 {
		return cell.Center(), 0, 0
	}
	m := q.MassPoint()
	mv := mat.NewVecDense(2, []float64{float64(m.X), float64(m.Y)})

	sym := mat.NewSymDense(2, []float64{
		q.AtA[0][0], q.AtA[0][1],
		q.AtA[0][1], q.AtA[1][1],
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
	var atAm mat.VecDense
	atAm.MulVec(sym, mv)
	c := mat.NewVecDense(2, []float64{
		float64(q.AtB.X) - atAm.AtVec(0),
		float64(q.AtB.Y) - atAm.AtVec(1),
	})

	var vtc mat.VecDense
	vtc.MulVec(vecs.T(), c)
	rank = 0
	scaled := mat.NewVecDense(2, nil)
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

	v := ms2.Vec{
		X: m.X + float32(x.AtVec(0)),
		Y: m.Y + float32(x.AtVec(1)),
	}
	if !cell.Contains(v) {
		v = cell.Clamp(v)
	}
	residual = q.residualAt(v)
	if rank == 0 {
		return m, 0, q.residualAt(m)
	}
	return v, rank, residual
}

func (q *QEF2) residualAt(v ms2.Vec) float32 {
	atAv := ms2.Vec{
		X: float32(q.AtA[0][0])*v.X + float32(q.AtA[0][1])*v.Y,
		Y: float32(q.AtA[0][1])*v.X + float32(q.AtA[1][1])*v.Y,
	}
	vAv := ms2.Dot(v, atAv)
	e := vAv - 2*ms2.Dot(q.AtB, v) + float32(q.BtB)
	if e < 0 {
		e = 0
	}
	return e
}
