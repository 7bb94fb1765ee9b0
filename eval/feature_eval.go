package eval

import (
	"github.com/archform/dctree/feature"
	"github.com/archform/dctree/tape"
	"github.com/soypat/glgl/math/ms3"
)

// FeatureGradient wraps DerivEvaluator with a feature.Feature to resolve
// min/max ambiguity consistently across repeated Gradient calls at the
// same corner (§4.3: "the Feature records a consistent choice across the
// whole expression"). Each call to Gradient extends f with a Choice at
// every min/max clause whose two operand values are equal at the sample
// point, when f accepts that clause's epsilon.
type FeatureGradient struct {
	deriv *DerivEvaluator
	f     *feature.Feature
}

// NewFeatureGradient builds a FeatureGradient seeded with an empty
// Feature set.
func NewFeatureGradient(base *tape.Tape) *FeatureGradient {
	fg := &FeatureGradient{deriv: NewDerivEvaluator(base), f: &feature.Feature{}}
	fg.deriv.Choose = fg.choose
	return fg
}

func (fg *FeatureGradient) Deck() *tape.Deck      { return fg.deriv.Deck() }
func (fg *FeatureGradient) Close()                { fg.deriv.Close() }
func (fg *FeatureGradient) Feature() *feature.Feature { return fg.f }

// Reset clears the accumulated Feature, for starting a fresh corner.
func (fg *FeatureGradient) Reset() { fg.f = &feature.Feature{} }

// Gradient evaluates value and gradient at p, recording Choice entries
// in the wrapped Feature for the min/max clauses whose operands tie at p
// (see FeatureGradient).
func (fg *FeatureGradient) Gradient(p ms3.Vec, vars map[uint32]float32) (float32, ms3.Vec) {
	return fg.deriv.Gradient(p, vars)
}

// choose implements DerivEvaluator.Choose: prefer the epsilon already
// compatible with the accumulated Feature; if both sides are compatible
// (or neither differs materially), default to the natural winner.
func (fg *FeatureGradient) choose(id uint32, a, b grad, isMax bool) bool {
	natural := (isMax && a.v >= b.v) || (!isMax && a.v <= b.v)
	if a.v != b.v {
		// Not actually ambiguous: no coincidence at this sample.
		return natural
	}
	ag := ms3.Vec{X: a.dx, Y: a.dy, Z: a.dz}
	bg := ms3.Vec{X: b.dx, Y: b.dy, Z: b.dz}
	eps := ms3.Sub(ag, bg) // candidate epsilon distinguishing the two branches.

	aCompatible := fg.f.IsCompatible(eps)
	bCompatible := fg.f.IsCompatible(ms3.Scale(-1, eps))
	switch {
	case aCompatible && !bCompatible:
		fg.f.Push(eps, feature.Choice{ID: id, Side: true})
		return true
	case bCompatible && !aCompatible:
		fg.f.Push(ms3.Scale(-1, eps), feature.Choice{ID: id, Side: false})
		return false
	default:
		// Both or neither compatible: record the natural choice so later
		// clauses still see a consistent epsilon for this coincidence.
		if natural {
			fg.f.Push(eps, feature.Choice{ID: id, Side: true})
		} else {
			fg.f.Push(ms3.Scale(-1, eps), feature.Choice{ID: id, Side: false})
		}
		return natural
	}
}
