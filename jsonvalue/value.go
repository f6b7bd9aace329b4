// Package jsonvalue provides an ordered, lossless in-memory representation
// of JSON documents.
//
// Unlike decoding into interface{}, a Value keeps object members in the order
// they appeared in the source text and keeps number literals exactly as
// written.
package jsonvalue

import (
	"encoding/json"
)

// Kind identifies which JSON type a Value holds.
type Kind int

const (
	// Null is the JSON null literal. It is the zero Kind.
	Null Kind = iota
	// Bool is true or false.
	Bool
	// Number is a JSON number, kept as its literal text.
	Number
	// String is a JSON string.
	String
	// Array is an ordered sequence of values.
	Array
	// Object is an ordered sequence of uniquely keyed members.
	Object
)

// String returns a string representation of the kind.
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

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON value. The zero Value is JSON null.
type Value struct {
	kind    Kind
	boolean bool
	// text holds the contents of a String or the literal of a Number
	text     string
	elements []Value
	members  []Member
}

// NullValue returns the JSON null value.
func NullValue() Value {
	return Value{}
}

// BoolOf returns a JSON boolean.
func BoolOf(b bool) Value {
	return Value{kind: Bool, boolean: b}
}

// NumberOf returns a JSON number holding the literal n.
func NumberOf(n json.Number) Value {
	return Value{kind: Number, text: string(n)}
}

// StringOf returns a JSON string.
func StringOf(s string) Value {
	return Value{kind: String, text: s}
}

// ArrayOf returns a JSON array holding elems in order.
func ArrayOf(elems ...Value) Value {
	return Value{kind: Array, elements: elems}
}

// ObjectOf returns a JSON object holding members in order. Later members
// replace earlier members with the same key, keeping the earlier position.
func ObjectOf(members ...Member) Value {
	v := Value{kind: Object}
	index := make(map[string]int, len(members))
	for _, m := range members {
		v.members = insertMember(v.members, index, m.Key, m.Value)
	}
	return v
}

// EmptyArray returns an array with no elements.
func EmptyArray() Value {
	return Value{kind: Array}
}

// EmptyObject returns an object with no members.
func EmptyObject() Value {
	return Value{kind: Object}
}

// Kind reports the JSON type of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool {
	return v.kind == Array || v.kind == Object
}

// Bool returns the boolean held by v, or false for any other kind.
func (v Value) Bool() bool {
	return v.kind == Bool && v.boolean
}

// Number returns the number literal held by v, or "" for any other kind.
func (v Value) Number() json.Number {
	if v.kind != Number {
		return ""
	}
	return json.Number(v.text)
}

// Str returns the string held by v, or "" for any other kind.
func (v Value) Str() string {
	if v.kind != String {
		return ""
	}
	return v.text
}

// Elements returns the elements of an array. The slice must not be modified.
func (v Value) Elements() []Value {
	if v.kind != Array {
		return nil
	}
	return v.elements
}

// Members returns the members of an object in order. The slice must not be
// modified.
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	return v.members
}

// Len returns the number of elements or members of a container and 0 for
// scalars.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.elements)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// Get returns the value of the object member named key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether v and o are structurally identical. Numbers compare
// by literal text and object member order is significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.boolean == o.boolean
	case Number, String:
		return v.text == o.text
	case Array:
		if len(v.elements) != len(o.elements) {
			return false
		}
		for i := range v.elements {
			if !v.elements[i].Equal(o.elements[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.members) != len(o.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != o.members[i].Key || !v.members[i].Value.Equal(o.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the compact JSON text of v. Strings holding invalid UTF-8
// cannot be encoded and yield an empty result.
func (v Value) String() string {
	b, err := v.appendJSON(nil)
	if err != nil {
		return ""
	}
	return string(b)
}

// insertMember appends key to members, or replaces the value in place when
// index already holds key.
func insertMember(members []Member, index map[string]int, key string, val Value) []Member {
	if i, ok := index[key]; ok {
		members[i].Value = val
		return members
	}
	index[key] = len(members)
	return append(members, Member{Key: key, Value: val})
}
