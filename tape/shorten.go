package tape

// Dominant records, for one min/max clause, which operand the interval
// evaluator proved dominant over the pushed region (§4.1: "for every
// min/max whose operand intervals are disjoint... replace the clause
// with a pass-through to the dominant side").
type Dominant struct {
	ID   uint32
	Side uint32 // the operand (A or B of the original clause) that wins
}

// Shorten builds a region-specialized tape: every clause named in
// dominant is rewritten to OpPass (aliasing its dominant operand), then
// unreachable clauses are dropped by a topological DFS from root. The
// result is pointwise equal to the source tape everywhere the dominant
// facts hold (soundness is the interval evaluator's responsibility, not
// this function's).
func Shorten(src *Tape, dominant []Dominant) (*Tape, error) {
	rewrite := make(map[uint32]uint32, len(dominant))
	for _, d := range dominant {
		rewrite[d.ID] = d.Side
	}

	byID := make(map[uint32]Clause, len(src.clauses))
	for _, c := range src.clauses {
		if side, ok := rewrite[c.ID]; ok {
			c = Clause{Op: OpPass, ID: c.ID, A: side, B: NoOperand}
		}
		byID[c.ID] = c
	}

	// Topological DFS from root, collecting clauses in dependency order
	// (operands before the clause that uses them) so the result is a
	// valid back-to-front tape.
	visited := make(map[uint32]bool, len(src.clauses))
	var order []Clause
	var visit func(id uint32)
	visit = func(id uint32) {
		if visited[id] {
			return
		}
		visited[id] = true
		c, ok := byID[id]
		if !ok {
			return
		}
		if c.A != NoOperand {
			visit(c.A)
		}
		if c.B != NoOperand {
			visit(c.B)
		}
		order = append(order, c)
	}
	visit(src.root)

	return New(order, src.root, src.vars)
}
