// Package flatten converts a JSON document into a single-level object keyed
// by JSON Pointer.
//
// Every node of the document gets one entry. Scalars map to themselves.
// Arrays and objects map to an empty placeholder ([] or {}) and their
// children follow under their own pointers:
//
//	{"a": [true, 42]}  =>  {"": {}, "/a": [], "/a/0": true, "/a/1": 42}
package flatten

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mcncl/jsonflat/jsonvalue"
	"github.com/mcncl/jsonflat/pointer"
)

// SerializeError reports a Go value that encoding/json could not marshal.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("cannot serialize value to JSON: %v", e.Err)
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}

// FromValue flattens a parsed document. It never fails.
func FromValue(v jsonvalue.Value) *Map {
	m := newMap()
	visit(v, "", m)
	return m
}

// FromString parses s and flattens it. Malformed input yields a
// *jsonvalue.ParseError.
func FromString(s string) (*Map, error) {
	v, err := jsonvalue.ParseString(s)
	if err != nil {
		return nil, err
	}
	return FromValue(v), nil
}

// FromBytes parses b and flattens it.
func FromBytes(b []byte) (*Map, error) {
	v, err := jsonvalue.ParseBytes(b)
	if err != nil {
		return nil, err
	}
	return FromValue(v), nil
}

// FromReader parses a single document from r and flattens it.
func FromReader(r io.Reader) (*Map, error) {
	v, err := jsonvalue.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromValue(v), nil
}

// From marshals x with encoding/json and flattens the result. A marshal
// failure yields a *SerializeError.
func From(x any) (*Map, error) {
	b, err := json.Marshal(x)
	if err != nil {
		return nil, &SerializeError{Err: err}
	}
	return FromBytes(b)
}

// visit records v under ptr, then its children in pre-order. Each child
// receives its own pointer, so the parent pointer is never mutated.
func visit(v jsonvalue.Value, ptr string, m *Map) {
	switch v.Kind() {
	case jsonvalue.Null, jsonvalue.Bool, jsonvalue.Number, jsonvalue.String:
		m.set(ptr, v)
	case jsonvalue.Array:
		m.set(ptr, jsonvalue.EmptyArray())
		for i, elem := range v.Elements() {
			visit(elem, ptr+"/"+strconv.Itoa(i), m)
		}
	case jsonvalue.Object:
		m.set(ptr, jsonvalue.EmptyObject())
		for _, member := range v.Members() {
			visit(member.Value, ptr+"/"+pointer.Escape(member.Key), m)
		}
	}
}
