package ivl

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func TestStateClassification(t *testing.T) {
	cases := []struct {
		name string
		i    I
		want State
	}{
		{"filled", I{Lo: -3, Hi: -1}, Filled},
		{"empty", I{Lo: 1, Hi: 3}, Empty},
		{"ambiguous", I{Lo: -1, Hi: 1}, Ambiguous},
		{"touches zero from below", I{Lo: -1, Hi: 0}, Ambiguous},
		{"touches zero from above", I{Lo: 0, Hi: 1}, Ambiguous},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.i.State(); got != c.want {
				t.Fatalf("State() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestDisjoint(t *testing.T) {
	a := I{Lo: 0, Hi: 1}
	b := I{Lo: 2, Hi: 3}
	if d, aDom := Disjoint(a, b); !d || !aDom {
		t.Fatalf("Disjoint(a,b) = (%v,%v), want (true,true)", d, aDom)
	}
	if d, aDom := Disjoint(b, a); !d || aDom {
		t.Fatalf("Disjoint(b,a) = (%v,%v), want (true,false)", d, aDom)
	}
	c := I{Lo: 0.5, Hi: 2.5}
	if d, _ := Disjoint(a, c); d {
		t.Fatal("overlapping intervals reported disjoint")
	}
}

func TestDivStraddlingZeroIsFull(t *testing.T) {
	a := Const(1)
	b := I{Lo: -1, Hi: 1}
	got := Div(a, b)
	if !got.MaybeNaN {
		t.Fatal("expected MaybeNaN for division by a straddling-zero interval")
	}
}

func TestSqrtNegativeDomainFlagsNaN(t *testing.T) {
	got := Sqrt(I{Lo: -4, Hi: 4})
	if !got.MaybeNaN {
		t.Fatal("expected MaybeNaN when domain includes negatives")
	}
	if got.Lo != 0 {
		t.Fatalf("Lo = %v, want 0 (negative portion clamped)", got.Lo)
	}
}

// soundnessCheck checks that f's interval result contains every scalar sample of
// scalar across n random points drawn from a's (and b's) range (§8.1:
// "every sound interval op over-approximates its scalar counterpart").
func soundnessCheck(t *testing.T, name string, a, b I, ivlOp func(a, b I) I, scalarOp func(x, y float32) float32) {
	t.Helper()
	res := ivlOp(a, b)
	if res.MaybeNaN {
		return // no soundness obligation once MaybeNaN degrades to full range.
	}
	const samples = 200
	for i := 0; i < samples; i++ {
		x := a.Lo + rand.Float32()*(a.Hi-a.Lo)
		y := b.Lo + rand.Float32()*(b.Hi-b.Lo)
		v := scalarOp(x, y)
		if math32.IsNaN(v) {
			continue
		}
		if v < res.Lo-1e-3 || v > res.Hi+1e-3 {
			t.Fatalf("%s: scalar sample %v at x=%v,y=%v escapes interval [%v,%v]",
				name, v, x, y, res.Lo, res.Hi)
		}
	}
}

func TestSoundnessAcrossRandomIntervals(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	randInterval := func() I {
		lo := rnd.Float32()*20 - 10
		hi := lo + rnd.Float32()*10
		return I{Lo: lo, Hi: hi}
	}

	ops := []struct {
		name   string
		ivlOp  func(a, b I) I
		scalar func(x, y float32) float32
	}{
		{"add", Add, func(x, y float32) float32 { return x + y }},
		{"sub", Sub, func(x, y float32) float32 { return x - y }},
		{"mul", Mul, func(x, y float32) float32 { return x * y }},
		{"min", Min, func(x, y float32) float32 { return math32.Min(x, y) }},
		{"max", Max, func(x, y float32) float32 { return math32.Max(x, y) }},
	}

	for trial := 0; trial < 50; trial++ {
		a, b := randInterval(), randInterval()
		for _, op := range ops {
			soundnessCheck(t, op.name, a, b, op.ivlOp, op.scalar)
		}
	}
}

func TestSoundnessUnary(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	unaryOps := []struct {
		name   string
		ivlOp  func(a I) I
		scalar func(x float32) float32
	}{
		{"abs", Abs, math32.Abs},
		{"square", Square, func(x float32) float32 { return x * x }},
		{"sin", Sin, math32.Sin},
		{"cos", Cos, math32.Cos},
	}
	for trial := 0; trial < 50; trial++ {
		lo := rnd.Float32()*10 - 5
		hi := lo + rnd.Float32()*5
		a := I{Lo: lo, Hi: hi}
		for _, op := range unaryOps {
			res := op.ivlOp(a)
			if res.MaybeNaN {
				continue
			}
			for i := 0; i < 100; i++ {
				x := a.Lo + rand.Float32()*(a.Hi-a.Lo)
				v := op.scalar(x)
				if v < res.Lo-1e-3 || v > res.Hi+1e-3 {
					t.Fatalf("%s: scalar sample %v at x=%v escapes interval [%v,%v]",
						op.name, v, x, res.Lo, res.Hi)
				}
			}
		}
	}
}
