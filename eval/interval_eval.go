package eval

import (
	"github.com/archform/dctree/ivl"
	"github.com/archform/dctree/region"
	"github.com/archform/dctree/tape"
)

// IntervalEvaluator walks a tape computing an ivl.I per clause over a
// Box3 region (§4.1). It is the sole producer of tape.Dominant facts
// consumed by tape.Shorten.
type IntervalEvaluator struct {
	deck  *tape.Deck
	slots []ivl.I
}

// NewIntervalEvaluator creates an IntervalEvaluator rooted at base.
func NewIntervalEvaluator(base *tape.Tape) *IntervalEvaluator {
	return &IntervalEvaluator{deck: tape.NewDeck(base)}
}

func (e *IntervalEvaluator) Deck() *tape.Deck { return e.deck }
func (e *IntervalEvaluator) Close()           { e.deck.Close() }

// Eval computes the interval of the active tape's root over box, without
// building a shortened tape.
func (e *IntervalEvaluator) Eval(box region.Box3) ivl.I {
	t := e.deck.Top()
	e.ensure(t.Len())
	e.fill(t, box)
	root, _ := t.SlotOf(t.Root())
	return e.slots[root]
}

// EvalAndPush computes the interval over box and, if any min/max clause
// proved disjoint (§4.1), pushes a Shorten-ed tape atop the deck and
// returns true. The caller must Pop when done with the pushed tape.
func (e *IntervalEvaluator) EvalAndPush(box region.Box3) (result ivl.I, pushed bool, err error) {
	t := e.deck.Top()
	e.ensure(t.Len())
	e.fill(t, box)
	root, _ := t.SlotOf(t.Root())
	result = e.slots[root]

	var dominants []tape.Dominant
	for _, c := range t.Clauses() {
		if !c.Op.IsCombinator() {
			continue
		}
		ai, _ := t.SlotOf(c.A)
		bi, _ := t.SlotOf(c.B)
		a, b := e.slots[ai], e.slots[bi]
		disjoint, aDominant := ivl.Disjoint(a, b)
		if !disjoint {
			continue
		}
		// aDominant means a.Hi < b.Lo (a is entirely the smaller side).
		// Min keeps the smaller side, Max keeps the larger.
		aWins := aDominant == (c.Op == tape.OpMin)
		side := c.B
		if aWins {
			side = c.A
		}
		dominants = append(dominants, tape.Dominant{ID: c.ID, Side: side})
	}
	if len(dominants) == 0 {
		return result, false, nil
	}
	short, err := tape.Shorten(t, dominants)
	if err != nil {
		return result, false, err
	}
	e.deck.Push(short)
	return result, true, nil
}

func (e *IntervalEvaluator) ensure(n int) {
	if cap(e.slots) < n {
		e.slots = make([]ivl.I, n)
	} else {
		e.slots = e.slots[:n]
	}
}

func (e *IntervalEvaluator) fill(t *tape.Tape, box region.Box3) {
	xi := ivl.I{Lo: box.Min.X, Hi: box.Max.X}
	yi := ivl.I{Lo: box.Min.Y, Hi: box.Max.Y}
	zi := ivl.I{Lo: box.Min.Z, Hi: box.Max.Z}
	for i, c := range t.Clauses() {
		operand := func(id uint32) ivl.I {
			j, ok := t.SlotOf(id)
			if !ok {
				panic("eval: operand id out of scope")
			}
			return e.slots[j]
		}
		switch c.Op {
		case tape.OpConst:
			e.slots[i] = ivl.Const(c.Imm)
		case tape.OpVarX:
			e.slots[i] = xi
		case tape.OpVarY:
			e.slots[i] = yi
		case tape.OpVarZ:
			e.slots[i] = zi
		case tape.OpVar:
			e.slots[i] = ivl.Full()
		case tape.OpPass:
			e.slots[i] = operand(c.A)
		case tape.OpNeg:
			e.slots[i] = ivl.Neg(operand(c.A))
		case tape.OpAbs:
			e.slots[i] = ivl.Abs(operand(c.A))
		case tape.OpSqrt:
			e.slots[i] = ivl.Sqrt(operand(c.A))
		case tape.OpSquare:
			e.slots[i] = ivl.Square(operand(c.A))
		case tape.OpExp:
			e.slots[i] = ivl.Exp(operand(c.A))
		case tape.OpLog:
			e.slots[i] = ivl.Log(operand(c.A))
		case tape.OpSin:
			e.slots[i] = ivl.Sin(operand(c.A))
		case tape.OpCos:
			e.slots[i] = ivl.Cos(operand(c.A))
		case tape.OpTan:
			e.slots[i] = ivl.Tan(operand(c.A))
		case tape.OpAsin:
			e.slots[i] = ivl.Asin(operand(c.A))
		case tape.OpAcos:
			e.slots[i] = ivl.Acos(operand(c.A))
		case tape.OpAtan:
			e.slots[i] = ivl.Atan(operand(c.A))
		case tape.OpAdd:
			e.slots[i] = ivl.Add(operand(c.A), operand(c.B))
		case tape.OpSub:
			e.slots[i] = ivl.Sub(operand(c.A), operand(c.B))
		case tape.OpMul:
			e.slots[i] = ivl.Mul(operand(c.A), operand(c.B))
		case tape.OpDiv:
			e.slots[i] = ivl.Div(operand(c.A), operand(c.B))
		case tape.OpAtan2:
			e.slots[i] = ivl.Atan2(operand(c.A), operand(c.B))
		case tape.OpPow:
			// The front end only lowers pow with a constant exponent, so
			// the B operand interval is always degenerate here.
			exp := operand(c.B)
			e.slots[i] = ivl.Pow(operand(c.A), exp.Lo)
		case tape.OpMin:
			e.slots[i] = ivl.Min(operand(c.A), operand(c.B))
		case tape.OpMax:
			e.slots[i] = ivl.Max(operand(c.A), operand(c.B))
		case tape.OpLT:
			e.slots[i] = ivl.CmpLT(operand(c.A), operand(c.B))
		case tape.OpGT:
			e.slots[i] = ivl.CmpGT(operand(c.A), operand(c.B))
		default:
			panic("eval: unhandled opcode " + c.Op.String())
		}
	}
}
