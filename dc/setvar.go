package dc

import "github.com/archform/dctree/tape"

// SetVar mutates a named variable's bound value for a subsequent Render
// call sharing the same base tape (§6 "setVar(id, value): mutate a named
// variable's value in all evaluators sharing the base tape; returns
// whether value changed"). Evaluators hold no variable state themselves
// (it is threaded through explicitly as the vars map passed to Render),
// so "all evaluators sharing the base tape" reduces to updating the one
// shared map the caller reuses across renders.
func SetVar(base *tape.Tape, vars map[uint32]float32, name string, value float32) (changed bool, ok bool) {
	id, found := base.VarID(name)
	if !found {
		return false, false
	}
	old, had := vars[id]
	if had && old == value {
		return false, true
	}
	vars[id] = value
	return true, true
}
