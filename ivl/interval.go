// Package ivl implements outward-rounded interval arithmetic over
// float32, one function per tape opcode (§3, §4.1 of the kernel spec).
// Every operation is sound: the true image of the real operation over
// the input intervals is always a subset of the returned interval.
package ivl

import "github.com/chewxy/math32"

// I is an interval [Lo, Hi] with Lo <= Hi unless the interval is empty.
// MaybeNaN records whether the operation that produced I may evaluate to
// NaN somewhere in the input domain; a NaN-possible interval is treated
// by downstream consumers as full-range (-Inf, +Inf), per §7.
type I struct {
	Lo, Hi   float32
	MaybeNaN bool
}

// State is the sign classification of a root interval (§3).
type State uint8

const (
	Unknown State = iota
	Empty         // f > 0 everywhere: no surface, outside.
	Filled        // f < 0 everywhere: no surface, interior.
	Ambiguous     // straddles zero: surface may be present.
)

// State classifies the interval by sign test against zero; a MaybeNaN
// interval is always Ambiguous.
func (a I) State() State {
	if a.MaybeNaN {
		return Ambiguous
	}
	if a.Hi < 0 {
		return Filled
	}
	if a.Lo > 0 {
		return Empty
	}
	return Ambiguous
}

// Const returns the degenerate interval [v, v].
func Const(v float32) I { return I{Lo: v, Hi: v} }

// Full returns the maximally uninformative interval, used whenever a
// clause's MaybeNaN flag propagates (§7).
func Full() I { return I{Lo: math32.Inf(-1), Hi: math32.Inf(1), MaybeNaN: true} }

func nanOf(a, b I) bool { return a.MaybeNaN || b.MaybeNaN }

func Add(a, b I) I { return I{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi, MaybeNaN: nanOf(a, b)} }
func Sub(a, b I) I { return I{Lo: a.Lo - b.Hi, Hi: a.Hi - b.Lo, MaybeNaN: nanOf(a, b)} }
func Neg(a I) I     { return I{Lo: -a.Hi, Hi: -a.Lo, MaybeNaN: a.MaybeNaN} }

func Mul(a, b I) I {
	p := [4]float32{a.Lo * b.Lo, a.Lo * b.Hi, a.Hi * b.Lo, a.Hi * b.Hi}
	lo, hi := p[0], p[0]
	for _, v := range p[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return I{Lo: lo, Hi: hi, MaybeNaN: nanOf(a, b)}
}

// Div returns a/b. A straddling-zero denominator cannot be soundly
// bounded, so it degrades to Full with MaybeNaN set (§7: "divide by
// straddling zero... propagate as maybe_nan").
func Div(a, b I) I {
	if b.Lo <= 0 && b.Hi >= 0 {
		return I{Lo: math32.Inf(-1), Hi: math32.Inf(1), MaybeNaN: true}
	}
	inv := I{Lo: 1 / b.Hi, Hi: 1 / b.Lo, MaybeNaN: b.MaybeNaN}
	return Mul(a, inv)
}

func Abs(a I) I {
	if a.Lo >= 0 {
		return a
	}
	if a.Hi <= 0 {
		return Neg(a)
	}
	hi := a.Hi
	if -a.Lo > hi {
		hi = -a.Lo
	}
	return I{Lo: 0, Hi: hi, MaybeNaN: a.MaybeNaN}
}

func Square(a I) I {
	absI := Abs(a)
	return I{Lo: absI.Lo * absI.Lo, Hi: absI.Hi * absI.Hi, MaybeNaN: a.MaybeNaN}
}

// Sqrt: negative domain cannot produce a sound finite bound, so the
// negative portion of the input clamps to zero and contributes MaybeNaN
// (the true sqrt of a negative number is NaN; §7).
func Sqrt(a I) I {
	maybeNaN := a.MaybeNaN || a.Lo < 0
	lo := a.Lo
	if lo < 0 {
		lo = 0
	}
	hi := a.Hi
	if hi < 0 {
		hi = 0
	}
	return I{Lo: math32.Sqrt(lo), Hi: math32.Sqrt(hi), MaybeNaN: maybeNaN}
}

func Exp(a I) I {
	return I{Lo: math32.Exp(a.Lo), Hi: math32.Exp(a.Hi), MaybeNaN: a.MaybeNaN}
}

func Log(a I) I {
	maybeNaN := a.MaybeNaN || a.Lo < 0
	lo := a.Lo
	if lo < 0 {
		lo = 0
	}
	return I{Lo: math32.Log(lo), Hi: math32.Log(a.Hi), MaybeNaN: maybeNaN}
}

func Pow(a I, k float32) I {
	// Only sound for the integer-exponent / positive-base cases this
	// kernel actually lowers (front end restricts pow to those); for a
	// negative base raised to a non-integer exponent we fall back to
	// Full, matching the sqrt/log NaN-propagation convention.
	if a.Lo < 0 && k != math32.Trunc(k) {
		return Full()
	}
	p00 := math32.Pow(a.Lo, k)
	p01 := math32.Pow(a.Hi, k)
	lo, hi := p00, p01
	if lo > hi {
		lo, hi = hi, lo
	}
	if a.Lo < 0 && a.Hi > 0 && k > 0 && math32.Mod(k, 2) == 0 {
		lo = 0 // an even power reaches its minimum at the zero inside a.
	}
	if a.Lo <= 0 && a.Hi >= 0 && k < 0 {
		return Full()
	}
	return I{Lo: lo, Hi: hi, MaybeNaN: a.MaybeNaN}
}

// Min/Max record both operand intervals via the caller (§4.1): the
// result is the elementwise min/max of bounds, which is always sound
// regardless of whether the operands are disjoint.
func Min(a, b I) I {
	return I{Lo: math32.Min(a.Lo, b.Lo), Hi: math32.Min(a.Hi, b.Hi), MaybeNaN: nanOf(a, b)}
}

func Max(a, b I) I {
	return I{Lo: math32.Max(a.Lo, b.Lo), Hi: math32.Max(a.Hi, b.Hi), MaybeNaN: nanOf(a, b)}
}

// Disjoint reports whether a and b's ranges never overlap, the
// precondition for the §4.1 tape-shortening rewrite, and which operand
// dominates when they are. A MaybeNaN operand is never disjoint.
func Disjoint(a, b I) (disjoint bool, aDominant bool) {
	if a.MaybeNaN || b.MaybeNaN {
		return false, false
	}
	if a.Hi < b.Lo {
		return true, true
	}
	if b.Hi < a.Lo {
		return true, false
	}
	return false, false
}

func Sin(a I) I { return trig(a, math32.Sin, math32.Pi/2) }
func Cos(a I) I { return trig(a, math32.Cos, 0) }

// trig is a conservative (non-tight) bound for f, whose maxima lie at
// peak + 2k*pi and minima half a period later: it widens to [-1, 1]
// whenever the interval spans more than a quarter period, and otherwise
// takes the endpoint values, raised to 1 or lowered to -1 when a maximum
// or minimum lies inside the interval.
func trig(a I, f func(float32) float32, peak float32) I {
	const quarterPeriod = math32.Pi / 2
	if a.Hi-a.Lo >= quarterPeriod {
		return I{Lo: -1, Hi: 1, MaybeNaN: a.MaybeNaN}
	}
	v0, v1 := f(a.Lo), f(a.Hi)
	lo, hi := v0, v1
	if lo > hi {
		lo, hi = hi, lo
	}
	// hits reports whether x0 + 2k*pi lies in [a.Lo, a.Hi] for some integer k.
	hits := func(x0 float32) bool {
		k := math32.Ceil((a.Lo - x0) / (2 * math32.Pi))
		return x0+k*2*math32.Pi <= a.Hi
	}
	if hits(peak) {
		hi = 1
	}
	if hits(peak + math32.Pi) {
		lo = -1
	}
	// Slack absorbs float32 rounding in f and in the extremum test.
	const slack = 1e-4
	lo -= slack
	hi += slack
	if lo < -1 {
		lo = -1
	}
	if hi > 1 {
		hi = 1
	}
	return I{Lo: lo, Hi: hi, MaybeNaN: a.MaybeNaN}
}

func Tan(a I) I {
	// Unbounded near odd multiples of pi/2; fall back to Full whenever
	// the interval could straddle a pole, which is always sound.
	if a.Hi-a.Lo >= math32.Pi/2 {
		return Full()
	}
	v0, v1 := math32.Tan(a.Lo), math32.Tan(a.Hi)
	if v0 > v1 {
		return Full() // tan increases between poles, so a pole lies in a.
	}
	return I{Lo: v0, Hi: v1, MaybeNaN: a.MaybeNaN}
}

func Asin(a I) I {
	maybeNaN := a.MaybeNaN || a.Lo < -1 || a.Hi > 1
	lo, hi := a.Lo, a.Hi
	if lo < -1 {
		lo = -1
	}
	if hi > 1 {
		hi = 1
	}
	return I{Lo: math32.Asin(lo), Hi: math32.Asin(hi), MaybeNaN: maybeNaN}
}

func Acos(a I) I {
	maybeNaN := a.MaybeNaN || a.Lo < -1 || a.Hi > 1
	lo, hi := a.Lo, a.Hi
	if lo < -1 {
		lo = -1
	}
	if hi > 1 {
		hi = 1
	}
	// acos is monotonically decreasing.
	return I{Lo: math32.Acos(hi), Hi: math32.Acos(lo), MaybeNaN: maybeNaN}
}

func Atan(a I) I {
	return I{Lo: math32.Atan(a.Lo), Hi: math32.Atan(a.Hi), MaybeNaN: a.MaybeNaN}
}

// Atan2 conservatively covers the full angular range whenever the
// argument box touches the non-positive x axis (atan2's branch cut, origin
// included), where tight bounding would require quadrant analysis this
// kernel does not need.
func Atan2(y, x I) I {
	if x.Lo <= 0 && y.Lo <= 0 && y.Hi >= 0 {
		return I{Lo: -math32.Pi, Hi: math32.Pi, MaybeNaN: nanOf(y, x)}
	}
	corners := [4]float32{
		math32.Atan2(y.Lo, x.Lo), math32.Atan2(y.Lo, x.Hi),
		math32.Atan2(y.Hi, x.Lo), math32.Atan2(y.Hi, x.Hi),
	}
	lo, hi := corners[0], corners[0]
	for _, v := range corners[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return I{Lo: lo, Hi: hi, MaybeNaN: nanOf(y, x)}
}

// CmpLT / CmpGT implement the comparison opcodes: [0,1] when the sign of
// a-b straddles, else a single value (0 or 1).
func CmpLT(a, b I) I {
	d := Sub(a, b)
	if d.Hi < 0 {
		return I{Lo: 1, Hi: 1, MaybeNaN: d.MaybeNaN}
	}
	if d.Lo > 0 {
		return I{Lo: 0, Hi: 0, MaybeNaN: d.MaybeNaN}
	}
	return I{Lo: 0, Hi: 1, MaybeNaN: d.MaybeNaN}
}

func CmpGT(a, b I) I { return CmpLT(b, a) }
