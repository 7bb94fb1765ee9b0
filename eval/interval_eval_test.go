package eval

import (
	"testing"

	"github.com/archform/dctree/region"
	"github.com/archform/dctree/tape"
	"github.com/soypat/glgl/math/ms3"
)

func TestIntervalEvalMatchesSphereBounds(t *testing.T) {
	tp := buildSphereTape()
	e := NewIntervalEvaluator(tp)
	defer e.Close()

	// A box entirely outside the unit sphere: f must be strictly positive.
	box := region.Box3{Min: ms3.Vec{X: 2, Y: 2, Z: 2}, Max: ms3.Vec{X: 3, Y: 3, Z: 3}}
	got := e.Eval(box)
	if got.Lo <= 0 {
		t.Fatalf("Eval(outside box).Lo = %v, want > 0", got.Lo)
	}

	// A box entirely inside the unit sphere: f must be strictly negative.
	box = region.Box3{Min: ms3.Vec{X: -0.1, Y: -0.1, Z: -0.1}, Max: ms3.Vec{X: 0.1, Y: 0.1, Z: 0.1}}
	got = e.Eval(box)
	if got.Hi >= 0 {
		t.Fatalf("Eval(inside box).Hi = %v, want < 0", got.Hi)
	}

	// A box straddling the surface: ambiguous, both signs possible.
	box = region.Box3{Min: ms3.Vec{X: -2, Y: -2, Z: -2}, Max: ms3.Vec{X: 2, Y: 2, Z: 2}}
	got = e.Eval(box)
	if got.Lo > 0 || got.Hi < 0 {
		t.Fatalf("Eval(straddling box) = %+v, want a range spanning zero", got)
	}
}

// buildMinTape builds f(x) = min(x, 10): a min clause whose B side is a
// constant far larger than any x sampled in the test boxes below, so
// interval evaluation can prove the A side dominant.
func buildMinTape() *tape.Tape {
	clauses := []tape.Clause{
		tape.Leaf(0, tape.OpVarX, 0),
		tape.Leaf(1, tape.OpConst, 10),
		tape.Binary(2, tape.OpMin, 0, 1),
	}
	tp, err := tape.New(clauses, 2, nil)
	if err != nil {
		panic(err)
	}
	return tp
}

func TestEvalAndPushPrunesDominantBranch(t *testing.T) {
	tp := buildMinTape()
	e := NewIntervalEvaluator(tp)
	defer e.Close()

	box := region.Box3{Min: ms3.Vec{X: 0, Y: 0, Z: 0}, Max: ms3.Vec{X: 1, Y: 1, Z: 1}}
	result, pushed, err := e.EvalAndPush(box)
	if err != nil {
		t.Fatal(err)
	}
	if !pushed {
		t.Fatal("expected a shortened tape to be pushed: x in [0,1] always beats the constant 10")
	}
	if result.Lo != 0 || result.Hi != 1 {
		t.Fatalf("result = %+v, want [0,1] (the A side, x)", result)
	}

	short := e.Deck().Top()
	root, ok := short.ClauseAt(short.Root())
	if !ok {
		t.Fatal("shortened tape missing root clause")
	}
	if root.Op != tape.OpPass || root.A != 0 {
		t.Fatalf("root = %+v, want OpPass aliasing clause 0 (x)", root)
	}
	e.Deck().Pop()
}

func TestEvalAndPushDoesNotPruneWhenAmbiguous(t *testing.T) {
	tp := buildMinTape()
	e := NewIntervalEvaluator(tp)
	defer e.Close()

	// x ranges [5, 20]: straddles the constant 10, min is ambiguous.
	box := region.Box3{Min: ms3.Vec{X: 5, Y: 0, Z: 0}, Max: ms3.Vec{X: 20, Y: 1, Z: 1}}
	_, pushed, err := e.EvalAndPush(box)
	if err != nil {
		t.Fatal(err)
	}
	if pushed {
		t.Fatal("expected no tape to be pushed when the min is ambiguous over the box")
	}
}
