package eval

import (
	"github.com/archform/dctree/tape"
	"github.com/chewxy/math32"
)

// evalOp evaluates a non-leaf, non-pass clause given an operand lookup
// closure. Shared by the point and array evaluators (§4 "Evaluator
// variants... share opcode semantics, differ in the domain they walk").
func evalOp(op tape.Opcode, operand func(uint32) float32, c tape.Clause) float32 {
	switch op {
	case tape.OpNeg:
		return -operand(c.A)
	case tape.OpAbs:
		return math32.Abs(operand(c.A))
	case tape.OpSqrt:
		return math32.Sqrt(operand(c.A))
	case tape.OpSquare:
		v := operand(c.A)
		return v * v
	case tape.OpExp:
		return math32.Exp(operand(c.A))
	case tape.OpLog:
		return math32.Log(operand(c.A))
	case tape.OpSin:
		return math32.Sin(operand(c.A))
	case tape.OpCos:
		return math32.Cos(operand(c.A))
	case tape.OpTan:
		return math32.Tan(operand(c.A))
	case tape.OpAsin:
		return math32.Asin(operand(c.A))
	case tape.OpAcos:
		return math32.Acos(operand(c.A))
	case tape.OpAtan:
		return math32.Atan(operand(c.A))
	case tape.OpAdd:
		return operand(c.A) + operand(c.B)
	case tape.OpSub:
		return operand(c.A) - operand(c.B)
	case tape.OpMul:
		return operand(c.A) * operand(c.B)
	case tape.OpDiv:
		return operand(c.A) / operand(c.B)
	case tape.OpAtan2:
		return math32.Atan2(operand(c.A), operand(c.B))
	case tape.OpPow:
		return math32.Pow(operand(c.A), operand(c.B))
	case tape.OpMin:
		a, b := operand(c.A), operand(c.B)
		if a < b {
			return a
		}
		return b
	case tape.OpMax:
		a, b := operand(c.A), operand(c.B)
		if a > b {
			return a
		}
		return b
	case tape.OpLT:
		if operand(c.A) < operand(c.B) {
			return 1
		}
		return 0
	case tape.OpGT:
		if operand(c.A) > operand(c.B) {
			return 1
		}
		return 0
	default:
		panic("eval: unhandled opcode " + op.String())
	}
}
