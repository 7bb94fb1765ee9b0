package eval

import (
	"github.com/archform/dctree/tape"
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// grad is a value paired with its gradient w.r.t. (x, y, z), the
// forward-mode dual number this evaluator propagates through each clause.
type grad struct {
	v    float32
	dx   float32
	dy   float32
	dz   float32
}

func constGrad(v float32) grad { return grad{v: v} }

// DerivEvaluator computes f(p) and its analytic gradient by forward-mode
// automatic differentiation over a tape (§4.2 evalLeaf: "sample the
// derivative ∇f via a derivative evaluator"). Min/Max ambiguity is
// resolved by a caller-supplied ChooseFn, typically backed by a
// feature.Feature (see feature_eval.go).
type DerivEvaluator struct {
	deck  *tape.Deck
	slots []grad
	// Choose resolves a min/max clause's ambiguous derivative: given the
	// clause id and both operand grads, it returns which side (true=A,
	// false=B) to propagate the derivative from. The value itself is
	// always min(a.v,b.v) or max(a.v,b.v) regardless of the choice.
	Choose func(id uint32, a, b grad, isMax bool) bool
}

// NewDerivEvaluator creates a DerivEvaluator rooted at base.
func NewDerivEvaluator(base *tape.Tape) *DerivEvaluator {
	return &DerivEvaluator{deck: tape.NewDeck(base)}
}

func (e *DerivEvaluator) Deck() *tape.Deck { return e.deck }
func (e *DerivEvaluator) Close()           { e.deck.Close() }

// Gradient evaluates the active tape at p and returns (value, gradient).
func (e *DerivEvaluator) Gradient(p ms3.Vec, vars map[uint32]float32) (value float32, g ms3.Vec) {
	t := e.deck.Top()
	if cap(e.slots) < t.Len() {
		e.slots = make([]grad, t.Len())
	}
	slots := e.slots[:t.Len()]

	xg := grad{v: p.X, dx: 1}
	yg := grad{v: p.Y, dy: 1}
	zg := grad{v: p.Z, dz: 1}

	operandAt := func(id uint32) grad {
		i, ok := t.SlotOf(id)
		if !ok {
			panic("eval: operand id out of scope")
		}
		return slots[i]
	}

	for i, c := range t.Clauses() {
		switch c.Op {
		case tape.OpConst:
			slots[i] = constGrad(c.Imm)
		case tape.OpVarX:
			slots[i] = xg
		case tape.OpVarY:
			slots[i] = yg
		case tape.OpVarZ:
			slots[i] = zg
		case tape.OpVar:
			slots[i] = constGrad(vars[c.A])
		case tape.OpPass:
			slots[i] = operandAt(c.A)
		case tape.OpMin, tape.OpMax:
			a, b := operandAt(c.A), operandAt(c.B)
			isMax := c.Op == tape.OpMax
			aWins := (isMax && a.v >= b.v) || (!isMax && a.v <= b.v)
			if e.Choose != nil {
				aWins = e.Choose(c.ID, a, b, isMax)
			}
			v := b.v
			if isMax {
				if a.v > b.v {
					v = a.v
				}
			} else if a.v < b.v {
				v = a.v
			}
			chosen := b
			if aWins {
				chosen = a
			}
			slots[i] = grad{v: v, dx: chosen.dx, dy: chosen.dy, dz: chosen.dz}
		default:
			slots[i] = derivOp(c.Op, operandAt, c)
		}
	}
	root, _ := t.SlotOf(t.Root())
	r := slots[root]
	return r.v, ms3.Vec{X: r.dx, Y: r.dy, Z: r.dz}
}

func derivOp(op tape.Opcode, operand func(uint32) grad, c tape.Clause) grad {
	switch op {
	case tape.OpNeg:
		a := operand(c.A)
		return grad{v: -a.v, dx: -a.dx, dy: -a.dy, dz: -a.dz}
	case tape.OpAbs:
		a := operand(c.A)
		s := float32(1)
		if a.v < 0 {
			s = -1
		}
		return grad{v: math32.Abs(a.v), dx: s * a.dx, dy: s * a.dy, dz: s * a.dz}
	case tape.OpSqrt:
		a := operand(c.A)
		v := math32.Sqrt(a.v)
		k := float32(0)
		if v != 0 {
			k = 0.5 / v
		}
		return grad{v: v, dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpSquare:
		a := operand(c.A)
		k := 2 * a.v
		return grad{v: a.v * a.v, dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpExp:
		a := operand(c.A)
		v := math32.Exp(a.v)
		return grad{v: v, dx: v * a.dx, dy: v * a.dy, dz: v * a.dz}
	case tape.OpLog:
		a := operand(c.A)
		k := float32(0)
		if a.v != 0 {
			k = 1 / a.v
		}
		return grad{v: math32.Log(a.v), dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpSin:
		a := operand(c.A)
		k := math32.Cos(a.v)
		return grad{v: math32.Sin(a.v), dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpCos:
		a := operand(c.A)
		k := -math32.Sin(a.v)
		return grad{v: math32.Cos(a.v), dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpTan:
		a := operand(c.A)
		cv := math32.Cos(a.v)
		k := float32(0)
		if cv != 0 {
			k = 1 / (cv * cv)
		}
		return grad{v: math32.Tan(a.v), dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpAsin:
		a := operand(c.A)
		k := float32(0)
		d := 1 - a.v*a.v
		if d > 0 {
			k = 1 / math32.Sqrt(d)
		}
		return grad{v: math32.Asin(a.v), dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpAcos:
		a := operand(c.A)
		k := float32(0)
		d := 1 - a.v*a.v
		if d > 0 {
			k = -1 / math32.Sqrt(d)
		}
		return grad{v: math32.Acos(a.v), dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpAtan:
		a := operand(c.A)
		k := 1 / (1 + a.v*a.v)
		return grad{v: math32.Atan(a.v), dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpAdd:
		a, b := operand(c.A), operand(c.B)
		return grad{v: a.v + b.v, dx: a.dx + b.dx, dy: a.dy + b.dy, dz: a.dz + b.dz}
	case tape.OpSub:
		a, b := operand(c.A), operand(c.B)
		return grad{v: a.v - b.v, dx: a.dx - b.dx, dy: a.dy - b.dy, dz: a.dz - b.dz}
	case tape.OpMul:
		a, b := operand(c.A), operand(c.B)
		return grad{
			v:  a.v * b.v,
			dx: a.dx*b.v + a.v*b.dx,
			dy: a.dy*b.v + a.v*b.dy,
			dz: a.dz*b.v + a.v*b.dz,
		}
	case tape.OpDiv:
		a, b := operand(c.A), operand(c.B)
		inv := float32(0)
		if b.v != 0 {
			inv = 1 / b.v
		}
		k := inv * inv
		return grad{
			v:  a.v * inv,
			dx: (a.dx*b.v - a.v*b.dx) * k,
			dy: (a.dy*b.v - a.v*b.dy) * k,
			dz: (a.dz*b.v - a.v*b.dz) * k,
		}
	case tape.OpAtan2:
		y, x := operand(c.A), operand(c.B)
		d := x.v*x.v + y.v*y.v
		kx, ky := float32(0), float32(0)
		if d != 0 {
			ky = x.v / d
			kx = -y.v / d
		}
		return grad{
			v:  math32.Atan2(y.v, x.v),
			dx: ky*y.dx + kx*x.dx,
			dy: ky*y.dy + kx*x.dy,
			dz: ky*y.dz + kx*x.dz,
		}
	case tape.OpPow:
		a, b := operand(c.A), operand(c.B)
		v := math32.Pow(a.v, b.v)
		k := float32(0)
		if a.v != 0 {
			k = b.v * v / a.v
		}
		return grad{v: v, dx: k * a.dx, dy: k * a.dy, dz: k * a.dz}
	case tape.OpLT, tape.OpGT:
		// Zero derivative almost everywhere; the coincidence boundary is
		// measure-zero and not resolved through Feature (comparisons are
		// not combinators, §4.1).
		return constGrad(evalOp(op, func(id uint32) float32 { return operand(id).v }, c))
	default:
		panic("eval: unhandled opcode " + op.String())
	}
}
