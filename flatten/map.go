package flatten

import (
	"github.com/mcncl/jsonflat/jsonvalue"
)

// Entry is one pointer/value pair of a flattened document.
type Entry struct {
	Pointer string
	Value   jsonvalue.Value
}

// Map is a flattened document. Entries are kept in traversal order: the
// root first, then every node depth-first with children in document order.
type Map struct {
	entries []Entry
	index   map[string]int
}

func newMap() *Map {
	return &Map{index: make(map[string]int)}
}

// set inserts ptr, or replaces its value in place if already present.
func (m *Map) set(ptr string, v jsonvalue.Value) {
	if i, ok := m.index[ptr]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[ptr] = len(m.entries)
	m.entries = append(m.entries, Entry{Pointer: ptr, Value: v})
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Get returns the value stored under ptr.
func (m *Map) Get(ptr string) (jsonvalue.Value, bool) {
	i, ok := m.index[ptr]
	if !ok {
		return jsonvalue.Value{}, false
	}
	return m.entries[i].Value, true
}

// Has reports whether ptr is present.
func (m *Map) Has(ptr string) bool {
	_, ok := m.index[ptr]
	return ok
}

// Keys returns the pointers in traversal order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Pointer
	}
	return keys
}

// Entries returns a copy of the entries in traversal order.
func (m *Map) Entries() []Entry {
	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// Range calls fn for each entry in traversal order until fn returns false.
func (m *Map) Range(fn func(ptr string, v jsonvalue.Value) bool) {
	for _, e := range m.entries {
		if !fn(e.Pointer, e.Value) {
			return
		}
	}
}

// Value returns the map as a JSON object with one member per entry.
func (m *Map) Value() jsonvalue.Value {
	members := make([]jsonvalue.Member, len(m.entries))
	for i, e := range m.entries {
		members[i] = jsonvalue.Member{Key: e.Pointer, Value: e.Value}
	}
	return jsonvalue.ObjectOf(members...)
}

// Filter returns a new Map holding the entries for which keep returns true,
// in the same order. m is not modified.
func (m *Map) Filter(keep func(ptr string, v jsonvalue.Value) bool) *Map {
	out := newMap()
	for _, e := range m.entries {
		if keep(e.Pointer, e.Value) {
			out.set(e.Pointer, e.Value)
		}
	}
	return out
}

// MarshalJSON writes the map as a JSON object in traversal order.
func (m *Map) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	var err error
	for i, e := range m.entries {
		if i > 0 {
			buf = append(buf, ',')
		}
		if buf, err = jsonvalue.AppendString(buf, e.Pointer); err != nil {
			return nil, err
		}
		buf = append(buf, ':')
		val, err := e.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

// String returns the compact JSON text of the map.
func (m *Map) String() string {
	b, _ := m.MarshalJSON()
	return string(b)
}
