// Package heap is the VM's allocation capability.
//
// Passing a raw object chain head by value to the compiler would mean the
// compiler's allocations never become visible to the VM that's supposed
// to free them. Allocation is exposed as a capability instead — something
// the compiler calls into, rather than a chain head it copies — so there
// is exactly one owner of the chain throughout a compile+run.
//
// A single Heap is constructed once per VM and shared with that VM's
// compiler for the duration of one compile. It owns:
//
//   - the object chain (every ObjString ever allocated through it, oldest
//     last, for teardown)
//   - the string-intern table (content -> *ObjString, so identical string
//     constants and concatenation results share one allocation)
package heap

import (
	"github.com/kristofer/tinylox/pkg/table"
	"github.com/kristofer/tinylox/pkg/value"
)

// Heap owns the object chain and the intern table for one VM's lifetime.
type Heap struct {
	head    *value.Obj
	strings *table.Table
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{strings: table.New()}
}

// NewWithCapacity returns an empty heap whose intern table is pre-sized to
// capacity slots (internal/config's initial_table_capacity knob).
func NewWithCapacity(capacity int) *Heap {
	return &Heap{strings: table.NewWithCapacity(capacity)}
}

// Intern returns the ObjString holding chars, reusing an existing
// allocation with identical content when one is already on the chain.
// Every string the compiler or VM ever materializes — literals and
// concatenation results alike — goes through this single path, so the
// chain has exactly one owner.
func (h *Heap) Intern(chars []byte) *value.ObjString {
	hash := value.HashBytes(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	str := value.NewString(chars)
	str.Next = h.head
	h.head = str
	h.strings.Set(str, value.Nil)
	return str
}

// Head returns the current object-chain head, for tests that want to walk
// or count live allocations.
func (h *Heap) Head() *value.Obj { return h.head }

// Teardown releases the heap's references to its object chain and intern
// table. Go's garbage collector reclaims the underlying memory; Teardown
// exists so every owned resource in this VM still has an explicit
// New/teardown pair, even though nothing is freed manually.
func (h *Heap) Teardown() {
	h.head = nil
	h.strings = table.New()
}
