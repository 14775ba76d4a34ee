// Package table implements the open-addressing hash table that backs both
// tinylox's string-intern pool and its global-variable environment.
//
// Design:
//
//   - Linear probing: index = hash mod capacity, scan forward until either
//     a matching key or a genuinely empty (non-tombstone) slot turns up.
//   - Tombstones: a deleted slot is marked with a nil key and a `true`
//     boolean value, and must never terminate a probe search — only a
//     nil-key/nil-value slot (a true empty) does.
//   - Growth: capacity doubles (minimum 8) whenever (count+1)/capacity
//     would exceed 0.75; growth rehashes every live entry and drops
//     tombstones, since they no longer serve a purpose in the new array.
//   - count tracks live entries *plus* tombstones, so a long run of
//     insert/delete pairs still triggers a timely regrow instead of
//     silently filling the table with dead slots.
package table

import "github.com/kristofer/tinylox/pkg/value"

const maxLoadFactor = 0.75

type entry struct {
	key  *value.ObjString
	val  value.Value
	tomb bool
}

// Table is an open-addressing map from string keys to values.
type Table struct {
	entries []entry
	count   int // live entries + tombstones
}

// New returns an empty table. The zero value is also ready to use.
func New() *Table {
	return &Table{}
}

// NewWithCapacity returns an empty table pre-sized to capacity slots
// (rounded up to a power of two the way grow() already does), for hosts
// that know a program interns many names up front (internal/config's
// initial_table_capacity knob).
func NewWithCapacity(capacity int) *Table {
	if capacity <= 0 {
		return New()
	}
	n := 8
	for n < capacity {
		n *= 2
	}
	return &Table{entries: make([]entry, n)}
}

// Count reports the number of live entries (tombstones are not counted).
func (t *Table) Count() int {
	live := 0
	for i := range t.entries {
		if t.entries[i].key != nil {
			live++
		}
	}
	return live
}

// Get looks up key without mutating the table. The second return value is
// false if key is absent.
func (t *Table) Get(key *value.ObjString) (value.Value, bool) {
	if len(t.entries) == 0 {
		return value.Nil, false
	}
	e := t.findEntry(t.entries, key)
	if e.key == nil {
		return value.Nil, false
	}
	return e.val, true
}

// Set inserts or overwrites key -> val, growing the table first if the
// resulting load factor would exceed 75%. It reports whether key was
// previously absent (a "new key").
func (t *Table) Set(key *value.ObjString, val value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoadFactor {
		t.grow()
	}
	e := t.findEntry(t.entries, key)
	isNewKey := e.key == nil
	if isNewKey && !e.tomb {
		t.count++
	}
	e.key = key
	e.val = val
	e.tomb = false
	return isNewKey
}

// Delete removes key, converting its slot into a tombstone so later probes
// through that slot don't stop early. Reports whether key was present.
func (t *Table) Delete(key *value.ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.findEntry(t.entries, key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.val = value.Bool(true)
	e.tomb = true
	return true
}

// FindString looks up an interned string by raw content rather than by an
// existing *ObjString pointer, for use before a candidate ObjString has
// been allocated at all (the intern-on-create path in pkg/heap).
func (t *Table) FindString(chars []byte, hash uint32) *value.ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	capacity := len(t.entries)
	index := int(hash) % capacity
	for {
		e := &t.entries[index]
		if e.key == nil {
			if !e.tomb {
				return nil
			}
		} else if e.key.Hash == hash && bytesEqual(e.key.Chars, chars) {
			return e.key
		}
		index = (index + 1) % capacity
	}
}

// findEntry locates key's slot: either the slot already holding it, the
// first tombstone seen along the probe (so deletes get reused), or the
// first genuinely empty slot. Termination is guaranteed because the table
// never lets load factor reach 100%.
func (t *Table) findEntry(entries []entry, key *value.ObjString) *entry {
	capacity := len(entries)
	index := int(key.Hash) % capacity
	var tombstone *entry
	for {
		e := &entries[index]
		if e.key == nil {
			if !e.tomb {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		} else if e.key == key || (e.key.Hash == key.Hash && bytesEqual(e.key.Chars, key.Chars)) {
			return e
		}
		index = (index + 1) % capacity
	}
}

func (t *Table) grow() {
	newCap := 8
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	newEntries := make([]entry, newCap)
	t.count = 0
	for i := range t.entries {
		old := &t.entries[i]
		if old.key == nil {
			continue
		}
		dst := t.findEntry(newEntries, old.key)
		dst.key = old.key
		dst.val = old.val
		t.count++
	}
	t.entries = newEntries
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
