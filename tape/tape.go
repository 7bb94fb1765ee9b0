package tape

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrUnknownClause is returned when a Tape references a clause id
	// outside its own scope, violating the pushed-tape invariant of §3.
	ErrUnknownClause = errors.New("tape: clause id out of scope")
	// ErrEmptyTape is returned constructing a Tape with no clauses.
	ErrEmptyTape = errors.New("tape: no clauses")
)

// Tape is an ordered, read-only clause stream with a distinguished root
// clause. Tapes are immutable once built and are shared by atomic
// reference counting across worker-local evaluators (§5): a tape object
// is published once and never mutated, only retained/released.
type Tape struct {
	clauses []Clause
	index   map[uint32]int // clause id -> slice index, for pushed-tape lookups
	vars    map[string]uint32
	root    uint32
	refs    atomic.Int32
}

// New builds a Tape from clauses in evaluation order (dependencies
// before dependents); root must name the id of the final clause.
func New(clauses []Clause, root uint32, vars map[string]uint32) (*Tape, error) {
	if len(clauses) == 0 {
		return nil, ErrEmptyTape
	}
	idx := make(map[uint32]int, len(clauses))
	for i, c := range clauses {
		idx[c.ID] = i
	}
	if _, ok := idx[root]; !ok {
		return nil, ErrUnknownClause
	}
	t := &Tape{clauses: clauses, index: idx, root: root, vars: vars}
	t.refs.Store(1)
	return t, nil
}

// Root returns the id of the tape's root clause.
func (t *Tape) Root() uint32 { return t.root }

// Len returns the number of clauses in the tape.
func (t *Tape) Len() int { return len(t.clauses) }

// Clauses exposes the back-to-front clause list for evaluator walkers.
// The returned slice must not be mutated: Tapes are immutable.
func (t *Tape) Clauses() []Clause { return t.clauses }

// ClauseAt resolves a clause id to its Clause within this tape's scope.
func (t *Tape) ClauseAt(id uint32) (Clause, bool) {
	i, ok := t.index[id]
	if !ok {
		return Clause{}, false
	}
	return t.clauses[i], true
}

// SlotOf returns the dense slot index of a clause id, suitable for
// indexing an evaluator's per-clause cache. Evaluators size their caches
// to Len() and index by SlotOf, never by raw clause id, since a pushed
// tape keeps the original clause ids but drops clauses, so its ids are
// not dense.
func (t *Tape) SlotOf(id uint32) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// VarID looks up the slot assigned to a named variable, for SetVar.
func (t *Tape) VarID(name string) (uint32, bool) {
	id, ok := t.vars[name]
	return id, ok
}

// Retain increments the tape's reference count. Call before publishing a
// tape to a new owner (worker, Deck frame).
func (t *Tape) Retain() *Tape {
	t.refs.Add(1)
	return t
}

// Release decrements the tape's reference count. Tapes carry no
// finalizer: once refs reaches zero the Tape is simply eligible for GC,
// there is nothing to free explicitly (clause storage is a plain slice).
func (t *Tape) Release() {
	if t.refs.Add(-1) < 0 {
		panic("tape: released more times than retained")
	}
}

// RefCount reports the current reference count, for leak tests.
func (t *Tape) RefCount() int32 { return t.refs.Load() }
