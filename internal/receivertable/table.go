// Package receivertable implements the sender-side receiver-state table
// (C4, §4.4): per-receiver progress for the current generation, and the two
// quorum predicates that drive the sender state machine.
package receivertable

// State is a receiver's progress within the current generation.
type State int

const (
	Pending State = iota
	NeedsMore
	Complete
)

func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case NeedsMore:
		return "NEEDS_MORE"
	case Complete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Table maps receiver identifier to its State for the current generation.
// Entries are created only during the enrollment window and never removed
// during the transfer (§4.4).
type Table struct {
	states map[uint32]State
	// order preserves enrollment order, mainly for deterministic logging.
	order []uint32
}

func New() *Table {
	return &Table{states: make(map[uint32]State)}
}

// Enroll adds a receiver in Pending state, if it is not already present
// (duplicate type-1 replies are idempotent, §8 scenario S6).
func (t *Table) Enroll(id uint32) {
	if _, ok := t.states[id]; ok {
		return
	}
	t.states[id] = Pending
	t.order = append(t.order, id)
}

// Set updates a receiver's state. Unknown receiver ids are ignored: they
// never enrolled, so late/duplicate feedback from them has no effect.
func (t *Table) Set(id uint32, s State) {
	if _, ok := t.states[id]; !ok {
		return
	}
	t.states[id] = s
}

func (t *Table) Get(id uint32) (State, bool) {
	s, ok := t.states[id]
	return s, ok
}

// ResetForNewGeneration sets every entry back to Pending, at the start of
// every generation (§4.4).
func (t *Table) ResetForNewGeneration() {
	for id := range t.states {
		t.states[id] = Pending
	}
}

// ResetNeedsMore transitions every NeedsMore receiver back to Pending, used
// after the sender emits a repair round (§4.5 GEN_WAIT).
func (t *Table) ResetNeedsMore() {
	for id, s := range t.states {
		if s == NeedsMore {
			t.states[id] = Pending
		}
	}
}

// Len returns the number of enrolled receivers.
func (t *Table) Len() int {
	return len(t.states)
}

// IDs returns enrolled receiver ids in enrollment order.
func (t *Table) IDs() []uint32 {
	out := make([]uint32, len(t.order))
	copy(out, t.order)
	return out
}

// QuorumFresh reports whether no receiver is Pending.
func (t *Table) QuorumFresh() bool {
	for _, s := range t.states {
		if s == Pending {
			return false
		}
	}
	return true
}

// QuorumComplete reports whether every receiver is Complete.
func (t *Table) QuorumComplete() bool {
	for _, s := range t.states {
		if s != Complete {
			return false
		}
	}
	return true
}

// AnyNeedsMore reports whether at least one receiver is NeedsMore.
func (t *Table) AnyNeedsMore() bool {
	for _, s := range t.states {
		if s == NeedsMore {
			return true
		}
	}
	return false
}
