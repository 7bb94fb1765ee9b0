package tape

// NoOperand marks an unused operand slot in a Clause.
const NoOperand uint32 = ^uint32(0)

// Clause is a single-assignment instruction: (opcode, destination id, up
// to two source operands). Operands index earlier slots in the owning
// Tape; a Tape is read back-to-front starting from its root clause.
type Clause struct {
	Op  Opcode
	ID  uint32
	A   uint32
	B   uint32
	Imm float32 // valid only when Op == OpConst
}

// Leaf builds a variable or constant clause.
func Leaf(id uint32, op Opcode, imm float32) Clause {
	return Clause{Op: op, ID: id, A: NoOperand, B: NoOperand, Imm: imm}
}

// Unary builds a one-operand clause.
func Unary(id uint32, op Opcode, a uint32) Clause {
	return Clause{Op: op, ID: id, A: a, B: NoOperand}
}

// Binary builds a two-operand clause.
func Binary(id uint32, op Opcode, a, b uint32) Clause {
	return Clause{Op: op, ID: id, A: a, B: b}
}
