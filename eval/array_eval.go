package eval

import (
	"fmt"

	"github.com/archform/dctree/tape"
	"github.com/soypat/glgl/math/ms3"
)

// Evaluator is a reusable, worker-local scalar evaluator over a
// tape.Deck. One Evaluator is owned by exactly one worker goroutine for
// the lifetime of a render pass (§5 "thread-local evaluators").
type Evaluator struct {
	deck  *tape.Deck
	slots []float32 // per-clause scratch, sized to the active tape's Len()
}

// NewEvaluator creates an Evaluator rooted at base. base is retained for
// the lifetime of the returned Evaluator; call Close to release it.
func NewEvaluator(base *tape.Tape) *Evaluator {
	return &Evaluator{deck: tape.NewDeck(base)}
}

// Deck exposes the evaluator's tape stack, for EvalAndPush callers that
// need to push a shortened tape (§4.1).
func (e *Evaluator) Deck() *tape.Deck { return e.deck }

// Close releases every tape the evaluator's deck still holds.
func (e *Evaluator) Close() { e.deck.Close() }

// EvalArray evaluates the active tape at every position in pos, writing
// results to out (an out shorter than pos returns an error). Mirrors the
// teacher's vectorized Evaluate(pos []Vec, dist []float32) signature.
// vars maps tape variable ids (see tape.Tape.VarID) to their bound value.
func (e *Evaluator) EvalArray(pos []ms3.Vec, out []float32, vars map[uint32]float32) error {
	if len(out) < len(pos) {
		return fmt.Errorf("eval: out buffer too small, want >= %d got %d", len(pos), len(out))
	}
	t := e.deck.Top()
	if cap(e.slots) < t.Len() {
		e.slots = make([]float32, t.Len())
	}
	slots := e.slots[:t.Len()]
	for i, p := range pos {
		out[i] = evalOne(t, slots, p, vars)
	}
	return nil
}

// EvalOne evaluates the active tape at a single position.
func (e *Evaluator) EvalOne(p ms3.Vec, vars map[uint32]float32) float32 {
	t := e.deck.Top()
	if cap(e.slots) < t.Len() {
		e.slots = make([]float32, t.Len())
	}
	return evalOne(t, e.slots[:t.Len()], p, vars)
}

func evalOne(t *tape.Tape, slots []float32, p ms3.Vec, vars map[uint32]float32) float32 {
	for i, c := range t.Clauses() {
		slots[i] = evalClause(c, t, slots, p, vars)
	}
	root, _ := t.SlotOf(t.Root())
	return slots[root]
}

func evalClause(c tape.Clause, t *tape.Tape, slots []float32, p ms3.Vec, vars map[uint32]float32) float32 {
	operand := func(id uint32) float32 {
		i, ok := t.SlotOf(id)
		if !ok {
			panic("eval: operand id out of scope")
		}
		return slots[i]
	}
	switch c.Op {
	case tape.OpConst:
		return c.Imm
	case tape.OpVarX:
		return p.X
	case tape.OpVarY:
		return p.Y
	case tape.OpVarZ:
		return p.Z
	case tape.OpVar:
		return vars[c.A]
	case tape.OpPass:
		return operand(c.A)
	default:
		return evalOp(c.Op, operand, c)
	}
}
