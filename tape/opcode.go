// Package tape implements the immutable clause-stream representation
// consumed by the interval, point, array, derivative and feature
// evaluators in package eval. Construction, parsing and the concrete
// bytecode encoding of a front-end expression tree are out of scope:
// this package only walks and specializes an already-lowered tape.
package tape

// Opcode identifies the operation a Clause performs. The front-end
// compiler that lowers an expression tree to a Tape is not part of this
// kernel; Opcode is the contract boundary.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	// Leaves.
	OpConst // Imm holds the value, A and B unused.
	OpVarX
	OpVarY
	OpVarZ
	OpVar // generic named variable, A holds the variable id.

	// Unary.
	OpNeg
	OpAbs
	OpSqrt
	OpSquare
	OpExp
	OpLog
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan

	// Binary elementwise.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpAtan2
	OpPow

	// Combinators: the two operand intervals are recorded for the
	// tape-shortening pass (§4.1) and for Feature disambiguation.
	OpMin
	OpMax

	// Comparisons: produce [0,1] when the input sign straddles zero.
	OpLT
	OpGT

	// OpPass is synthesized by Shorten (§4.1): a min/max clause whose
	// operand intervals were disjoint over the pushed region is replaced
	// by a pass-through to its dominant operand, stored in A (whichever of
	// the original A or B dominated). Never appears in a
	// tape produced by the front-end compiler.
	OpPass
)

// IsCombinator reports whether op is a min/max ambiguity point requiring
// Feature disambiguation of its derivative.
func (op Opcode) IsCombinator() bool {
	return op == OpMin || op == OpMax
}

// IsBinary reports whether op consumes two operands (A and B).
func (op Opcode) IsBinary() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpAtan2, OpPow, OpMin, OpMax, OpLT, OpGT:
		return true
	}
	return false
}

// IsLeaf reports whether op is a variable or constant with no operands.
func (op Opcode) IsLeaf() bool {
	switch op {
	case OpConst, OpVarX, OpVarY, OpVarZ, OpVar:
		return true
	}
	return false
}

func (op Opcode) String() string {
	switch op {
	case OpConst:
		return "const"
	case OpVarX:
		return "x"
	case OpVarY:
		return "y"
	case OpVarZ:
		return "z"
	case OpVar:
		return "var"
	case OpNeg:
		return "neg"
	case OpAbs:
		return "abs"
	case OpSqrt:
		return "sqrt"
	case OpSquare:
		return "square"
	case OpExp:
		return "exp"
	case OpLog:
		return "log"
	case OpSin:
		return "sin"
	case OpCos:
		return "cos"
	case OpTan:
		return "tan"
	case OpAsin:
		return "asin"
	case OpAcos:
		return "acos"
	case OpAtan:
		return "atan"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpAtan2:
		return "atan2"
	case OpPow:
		return "pow"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	case OpLT:
		return "lt"
	case OpGT:
		return "gt"
	case OpPass:
		return "pass"
	default:
		return "invalid"
	}
}
