// Package value implements the tagged runtime values of tinylox.
//
// A Value is a small tagged union: nil, bool, number, or a pointer to a
// heap object. Rather than lean on Go's interface{} to carry a dynamically
// typed payload, values here are a closed struct with a type tag plus one
// payload field per variant, so the VM can guard every extractor with its
// matching predicate instead of relying on a type assertion.
//
// Object Model:
//
// The only heap object variant is ObjString: a length-prefixed byte buffer
// with a precomputed FNV-1a hash. Every Obj is linked into a single
// intrusive chain (the Next field) so a VM can walk and release every
// allocation it ever made at teardown, without a garbage collector.
//
// Equality and Printing:
//
//   - nil equals nil; bool/number compare by payload; objects compare
//     through ObjString content (length then bytes), never by pointer.
//   - Printing follows one fixed format per variant: NULL, true/false,
//     one-decimal-digit numbers, and raw string bytes.
package value

import "fmt"

// ValueType is the tag discriminating which payload field of a Value is live.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValObj
)

// Value is a tagged scalar: exactly one of its payload fields is
// meaningful, selected by typ. The zero Value is ValNil.
type Value struct {
	typ     ValueType
	boolean bool
	number  float64
	obj     *Obj
}

// Nil is the singleton nil value.
var Nil = Value{typ: ValNil}

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{typ: ValBool, boolean: b} }

// Number constructs a numeric Value.
func Number(n float64) Value { return Value{typ: ValNumber, number: n} }

// FromObj constructs an object Value wrapping a heap object.
func FromObj(o *Obj) Value { return Value{typ: ValObj, obj: o} }

// Type reports the live variant of v.
func (v Value) Type() ValueType { return v.typ }

func (v Value) IsNil() bool    { return v.typ == ValNil }
func (v Value) IsBool() bool   { return v.typ == ValBool }
func (v Value) IsNumber() bool { return v.typ == ValNumber }
func (v Value) IsObj() bool    { return v.typ == ValObj }

// IsString reports whether v holds a string object.
func (v Value) IsString() bool {
	return v.typ == ValObj && v.obj != nil && v.obj.Type == ObjTypeString
}

// AsBool extracts the boolean payload. Callers must check IsBool first;
// this is a programmer-error guard, not a recoverable runtime check.
func (v Value) AsBool() bool {
	if v.typ != ValBool {
		panic("value: AsBool called on non-bool Value")
	}
	return v.boolean
}

// AsNumber extracts the numeric payload. Callers must check IsNumber first.
func (v Value) AsNumber() float64 {
	if v.typ != ValNumber {
		panic("value: AsNumber called on non-number Value")
	}
	return v.number
}

// AsObj extracts the object pointer. Callers must check IsObj first.
func (v Value) AsObj() *Obj {
	if v.typ != ValObj {
		panic("value: AsObj called on non-object Value")
	}
	return v.obj
}

// AsString extracts the ObjString payload. Callers must check IsString first.
func (v Value) AsString() *ObjString {
	return v.AsObj().asString()
}

// Equal implements the EQUAL opcode's comparison rule: values of the same
// type compare by payload; object values compare by string content; a
// comparison where exactly one side is nil is never equal (both-nil is
// handled by the same-type case above, since nil is its own type).
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case ValNil:
		return true
	case ValBool:
		return a.boolean == b.boolean
	case ValNumber:
		return a.number == b.number
	case ValObj:
		return objEqual(a.obj, b.obj)
	default:
		return false
	}
}

func objEqual(a, b *Obj) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Type != b.Type {
		return false
	}
	switch a.Type {
	case ObjTypeString:
		as, bs := a.asString(), b.asString()
		if len(as.Chars) != len(bs.Chars) {
			return false
		}
		for i := range as.Chars {
			if as.Chars[i] != bs.Chars[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Print renders v the way the language's PRINT opcode does: NULL for nil,
// true/false for booleans, one decimal digit for numbers, raw bytes for
// strings.
func Print(v Value) string {
	switch v.typ {
	case ValNil:
		return "NULL"
	case ValBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case ValNumber:
		return fmt.Sprintf("%.1f", v.number)
	case ValObj:
		switch v.obj.Type {
		case ObjTypeString:
			return string(v.obj.asString().Chars)
		default:
			return "<obj>"
		}
	default:
		return "<unknown>"
	}
}
