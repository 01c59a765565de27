package receivertable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateEnrollmentIsIdempotent(t *testing.T) {
	// §8 scenario S6: two type-1 replies from the same receiver id.
	tbl := New()
	tbl.Enroll(7)
	tbl.Enroll(7)
	assert.Equal(t, 1, tbl.Len())
}

func TestQuorumPredicates(t *testing.T) {
	tbl := New()
	tbl.Enroll(1)
	tbl.Enroll(2)

	assert.False(t, tbl.QuorumFresh())
	assert.False(t, tbl.QuorumComplete())

	tbl.Set(1, NeedsMore)
	tbl.Set(2, Complete)
	assert.True(t, tbl.QuorumFresh())
	assert.False(t, tbl.QuorumComplete())
	assert.True(t, tbl.AnyNeedsMore())

	tbl.ResetNeedsMore()
	s, ok := tbl.Get(1)
	assert.True(t, ok)
	assert.Equal(t, Pending, s)
	assert.False(t, tbl.QuorumFresh())

	tbl.Set(1, Complete)
	assert.True(t, tbl.QuorumComplete())
}

func TestResetForNewGeneration(t *testing.T) {
	tbl := New()
	tbl.Enroll(1)
	tbl.Set(1, Complete)
	tbl.ResetForNewGeneration()

	s, _ := tbl.Get(1)
	assert.Equal(t, Pending, s)
}

func TestUnknownReceiverFeedbackIsIgnored(t *testing.T) {
	// Late/duplicate feedback from a receiver that never enrolled has no
	// effect (§7: idempotent, monotonic per generation).
	tbl := New()
	tbl.Set(99, Complete)
	_, ok := tbl.Get(99)
	assert.False(t, ok)
}
