// Package feature implements the per-evaluation directional-epsilon set
// used to consistently resolve derivative ambiguities at min/max
// clauses (§4.3). A Feature accumulates a set of mutually compatible
// unit directions and the Choice (which operand won) recorded at each
// ambiguous clause.
package feature

import (
	"math"

	"github.com/soypat/glgl/math/ms3"
)

// Choice records which branch of a min/max was taken at a given clause.
type Choice struct {
	ID   uint32
	Side bool // true selects the clause's A operand, false its B operand.
}

// Feature is an ordered set of unit epsilons plus the ordered Choice
// list that produced them. The zero value is a valid, empty Feature.
type Feature struct {
	Epsilons []ms3.Vec
	Choices  []Choice
}

// ZeroTolerance is the width of the sign test in the O(n^3) fallback of
// IsCompatible (§9 Open Question: "An implementer may widen the zero
// test to |d| < eps"). 1e-7 matches the scale of accumulated float32
// rounding error in a handful of cross products of unit vectors.
const ZeroTolerance = 1e-7

// IsCompatible reports whether adding the unit epsilon e to f still
// admits a single half-space: a linear functional n with n.eps > 0 for
// every stored epsilon and for e.
func (f *Feature) IsCompatible(e ms3.Vec) bool {
	n := ms3.Norm(e)
	if n < 1e-12 {
		return false // zero vector: reject (§4.3 step 1).
	}
	e = ms3.Scale(1/n, e)

	if len(f.Epsilons) == 0 {
		return true
	}
	if len(f.Epsilons) == 1 {
		return ms3.Dot(e, f.Epsilons[0]) > -1+1e-6
	}
	// Retained per §9 Open Question: caller-order-dependent early exit —
	// a duplicate epsilon is always compatible with itself even if the
	// rest of the set would fail a planar/general re-check.
	for _, existing := range f.Epsilons {
		if ms3.Norm(ms3.Sub(existing, e)) < 1e-6 {
			return true
		}
	}

	if planar, ok := f.planarSpread(e); ok {
		return planar
	}
	return f.generalCompatible(e)
}

// planarSpread implements the §4.3 step 5 fast path: if every existing
// epsilon and e share a common plane (all pairwise cross products
// colinear), compatibility reduces to an angular-spread test.
func (f *Feature) planarSpread(e ms3.Vec) (compatible bool, applies bool) {
	all := append(append([]ms3.Vec(nil), f.Epsilons...), e)
	var planeNormal ms3.Vec
	for i := 1; i < len(all); i++ {
		c := ms3.Cross(all[0], all[i])
		if ms3.Norm(c) < 1e-6 {
			continue // colinear with all[0], no constraint on the plane.
		}
		if ms3.Norm(planeNormal) < 1e-12 {
			planeNormal = ms3.Unit(c)
			continue
		}
		if ms3.Norm(ms3.Cross(planeNormal, c)) > 1e-4 {
			return false, false // not coplanar: general case applies.
		}
	}
	if ms3.Norm(planeNormal) < 1e-12 {
		// All vectors colinear with all[0]: degenerate plane, any basis works.
		planeNormal = arbitraryNormalTo(all[0])
	}
	u := arbitraryNormalTo(planeNormal)
	v := ms3.Cross(planeNormal, u)
	minA, maxA := math.Inf(1), math.Inf(-1)
	for _, a := range all {
		theta := math.Atan2(float64(ms3.Dot(a, v)), float64(ms3.Dot(a, u)))
		if theta < minA {
			minA = theta
		}
		if theta > maxA {
			maxA = theta
		}
	}
	// Angular spread under pi admits a half-space; the comparison must
	// also consider wraparound, handled by re-centering on the widest gap.
	spread := maxA - minA
	if spread >= math.Pi {
		spread = angularSpreadWrapped(all, u, v)
	}
	return spread < math.Pi, true
}

// angularSpreadWrapped finds the minimal angular spread of a set of
// directions on a circle by locating the largest gap between consecutive
// sorted angles and measuring the complement.
func angularSpreadWrapped(vecs []ms3.Vec, u, v ms3.Vec) float64 {
	angles := make([]float64, len(vecs))
	for i, a := range vecs {
		angles[i] = math.Atan2(float64(ms3.Dot(a, v)), float64(ms3.Dot(a, u)))
	}
	for i := 0; i < len(angles); i++ {
		for j := i + 1; j < len(angles); j++ {
			if angles[j] < angles[i] {
				angles[i], angles[j] = angles[j], angles[i]
			}
		}
	}
	largestGap := 0.0
	for i := 1; i < len(angles); i++ {
		gap := angles[i] - angles[i-1]
		if gap > largestGap {
			largestGap = gap
		}
	}
	wrapGap := (angles[0] + 2*math.Pi) - angles[len(angles)-1]
	if wrapGap > largestGap {
		largestGap = wrapGap
	}
	return 2*math.Pi - largestGap
}

func arbitraryNormalTo(n ms3.Vec) ms3.Vec {
	n = ms3.Unit(n)
	ref := ms3.Vec{X: 1}
	if math.Abs(float64(n.X)) > 0.9 {
		ref = ms3.Vec{Y: 1}
	}
	return ms3.Unit(ms3.Cross(n, ref))
}

// generalCompatible implements the §4.3 step 6 O(n^3) fallback: for
// every ordered pair (a,b) among epsilons union {e} with a.b != -1, test
// whether n = a x b gives every other vector a single consistent sign.
func (f *Feature) generalCompatible(e ms3.Vec) bool {
	all := append(append([]ms3.Vec(nil), f.Epsilons...), e)
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			if ms3.Dot(a, b) < -1+1e-6 {
				continue // antipodal pair cannot witness a half-space.
			}
			n := ms3.Cross(a, b)
			if ms3.Norm(n) < 1e-9 {
				continue
			}
			if witnessesHalfSpace(n, all) {
				return true
			}
		}
	}
	return false
}

// witnessesHalfSpace reports whether every vector in vecs lies in the
// closed half-space on one consistent side of the plane through the
// origin with normal n. n is always built as the cross product of two
// members of vecs, so those two members lie exactly on the boundary
// (d == 0): a vector on the boundary is compatible with either sign and
// never itself forces a rejection, it only becomes a conflict when two
// vectors land strictly on opposite sides.
func witnessesHalfSpace(n ms3.Vec, vecs []ms3.Vec) bool {
	sign := 0
	for _, c := range vecs {
		d := ms3.Dot(n, c)
		switch {
		case d > ZeroTolerance:
			if sign < 0 {
				return false
			}
			sign = 1
		case d < -ZeroTolerance:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

// Push prepends a Choice and, if e is not already present, adds it to the
// epsilon set, provided IsCompatible(e) holds. It reports whether the
// epsilon was accepted.
func (f *Feature) Push(e ms3.Vec, c Choice) bool {
	if !f.IsCompatible(e) {
		return false
	}
	f.Choices = append([]Choice{c}, f.Choices...)
	n := ms3.Norm(e)
	if n < 1e-12 {
		return true
	}
	e = ms3.Scale(1/n, e)
	for _, existing := range f.Epsilons {
		if ms3.Norm(ms3.Sub(existing, e)) < 1e-6 {
			return true
		}
	}
	f.Epsilons = append(f.Epsilons, e)
	return true
}

// Clone returns an independent copy, for evaluators that fork per-branch
// feature state (e.g. multi-vertex leaf accumulation).
func (f *Feature) Clone() *Feature {
	cp := &Feature{
		Epsilons: append([]ms3.Vec(nil), f.Epsilons...),
		Choices:  append([]Choice(nil), f.Choices...),
	}
	return cp
}
