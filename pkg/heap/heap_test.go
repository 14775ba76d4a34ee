package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternReturnsSameAllocationForIdenticalContent(t *testing.T) {
	h := New()
	a := h.Intern([]byte("hello"))
	b := h.Intern([]byte("hello"))
	assert.Same(t, a, b, "two interns of identical content must share one allocation")
}

func TestInternDistinctContentProducesDistinctAllocations(t *testing.T) {
	h := New()
	a := h.Intern([]byte("hello"))
	b := h.Intern([]byte("world"))
	assert.NotSame(t, a, b)
}

func TestInternLinksOntoObjectChain(t *testing.T) {
	h := New()
	require.Nil(t, h.Head())

	first := h.Intern([]byte("a"))
	second := h.Intern([]byte("b"))

	assert.Same(t, second, h.Head(), "most recent allocation is the chain head")
	assert.Same(t, first, h.Head().Next)
}

func TestInternOfExistingContentDoesNotGrowChain(t *testing.T) {
	h := New()
	h.Intern([]byte("dup"))
	head := h.Head()
	h.Intern([]byte("dup"))
	assert.Same(t, head, h.Head(), "re-interning does not append to the chain")
}

func TestTeardownClearsChainAndInternTable(t *testing.T) {
	h := New()
	h.Intern([]byte("gone"))
	h.Teardown()
	assert.Nil(t, h.Head())

	// After teardown the intern table is fresh, so the same content gets
	// a new allocation rather than reusing the torn-down one.
	fresh := h.Intern([]byte("gone"))
	assert.Same(t, fresh, h.Head())
}
