// Package jsonvalue provides an ordered JSON document model. Objects keep
// their keys in insertion order so that encoding is deterministic and
// mirrors the order in which converters produced the properties.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind is the kind of a JSON value
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents, or the literal text of a number
	arr  []Value
	obj  *Map
}

// NullValue returns JSON null
func NullValue() Value { return Value{} }

// BoolValue returns a JSON boolean
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// StringValue returns a JSON string
func StringValue(s string) Value { return Value{kind: String, s: s} }

// IntValue returns a JSON number holding an integer
func IntValue(i int64) Value {
	return Value{kind: Number, s: strconv.FormatInt(i, 10)}
}

// FloatValue returns a JSON number holding f
func FloatValue(f float64) Value {
	return Value{kind: Number, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NumberValue returns a JSON number from its literal text
func NumberValue(n json.Number) Value {
	return Value{kind: Number, s: n.String()}
}

// ArrayValue returns a JSON array
func ArrayValue(items ...Value) Value {
	return Value{kind: Array, arr: items}
}

// ObjectValue returns a JSON object backed by m
func ObjectValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: Object, obj: m}
}

// Kind returns the kind of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null
func (v Value) IsNull() bool { return v.kind == Null }

// AsBool returns the boolean held by v
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == Bool
}

// AsString returns the string held by v
func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// AsInt returns the number held by v if it is an integer
func (v Value) AsInt() (int64, bool) {
	if v.kind != Number {
		return 0, false
	}
	i, err := strconv.ParseInt(v.s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(v.s, 64)
		if ferr != nil || f < -(1<<63) || f >= 1<<63 || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	}
	return i, true
}

// AsFloat returns the number held by v
func (v Value) AsFloat() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AsArray returns the elements of an array value
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	return v.arr, true
}

// AsObject returns the map of an object value
func (v Value) AsObject() (*Map, bool) {
	if v.kind != Object {
		return nil, false
	}
	return v.obj, true
}

// Equal reports whether v and other are the same JSON value. Object key
// order is significant.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case String:
		return v.s == other.s
	case Number:
		if v.s == other.s {
			return true
		}
		a, aok := v.AsFloat()
		b, bok := other.AsFloat()
		return aok && bok && a == b
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		return v.obj.Equal(other.obj)
	}
	return false
}

// String returns the compact JSON encoding of v
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return string(data)
}
