package tape

// Deck is a per-evaluator stack of immutable shared tapes (§9 "tape
// stack"). Push publishes a new, region-specialized tape; Pop releases
// it and restores the previous one. A Deck is never shared across
// workers — each worker owns its own Deck alongside its own evaluator
// caches (§5).
type Deck struct {
	stack []*Tape
}

// NewDeck creates a Deck seeded with the base tape. The base tape is
// retained for the lifetime of the Deck.
func NewDeck(base *Tape) *Deck {
	return &Deck{stack: []*Tape{base.Retain()}}
}

// Push publishes t atop the deck. The caller transfers ownership of one
// reference to the Deck.
func (d *Deck) Push(t *Tape) {
	d.stack = append(d.stack, t)
}

// Pop releases and removes the top tape, exposing the previous one. Pop
// never removes the base tape pushed by NewDeck.
func (d *Deck) Pop() {
	n := len(d.stack)
	if n <= 1 {
		panic("tape: pop of base tape")
	}
	d.stack[n-1].Release()
	d.stack[n-1] = nil
	d.stack = d.stack[:n-1]
}

// Top returns the most recently pushed tape.
func (d *Deck) Top() *Tape {
	return d.stack[len(d.stack)-1]
}

// Depth reports how many tapes (including the base) are on the deck.
func (d *Deck) Depth() int { return len(d.stack) }

// Close releases every remaining tape, including the base. Call when an
// evaluator is retired.
func (d *Deck) Close() {
	for _, t := range d.stack {
		t.Release()
	}
	d.stack = nil
}
