package flatten

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcncl/jsonflat/jsonvalue"
	"github.com/mcncl/jsonflat/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var valueComparer = cmp.Comparer(func(a, b jsonvalue.Value) bool { return a.Equal(b) })

func num(s string) jsonvalue.Value {
	return jsonvalue.NumberOf(json.Number(s))
}

func mustFlatten(t *testing.T, s string) *Map {
	t.Helper()
	m, err := FromString(s)
	require.NoError(t, err)
	return m
}

func TestFromString_SingleMember(t *testing.T) {
	m := mustFlatten(t, `{ "one": 1 }`)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, `{"":{},"/one":1}`, m.String())
}

func TestFromValue_TopLevelArray(t *testing.T) {
	m := FromValue(jsonvalue.ArrayOf(jsonvalue.BoolOf(true), num("42")))

	expected := []Entry{
		{"", jsonvalue.EmptyArray()},
		{"/0", jsonvalue.BoolOf(true)},
		{"/1", num("42")},
	}
	if diff := cmp.Diff(expected, m.Entries(), valueComparer); diff != "" {
		t.Errorf("FromValue() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromString_RFC6901Keys(t *testing.T) {
	m := mustFlatten(t, `{
		"foo": ["bar", "baz"],
		"": 0,
		"a/b": 1,
		"c%d": 2,
		"e^f": 3,
		"g|h": 4,
		"i\\j": 5,
		"k\"l": 6,
		" ": 7,
		"m~n": 8
	}`)

	tests := map[string]string{
		"":       `{}`,
		"/foo":   `[]`,
		"/foo/0": `"bar"`,
		"/foo/1": `"baz"`,
		"/":      `0`,
		"/a~1b":  `1`,
		"/c%d":   `2`,
		"/e^f":   `3`,
		"/g|h":   `4`,
		`/i\j`:   `5`,
		`/k"l`:   `6`,
		"/ ":     `7`,
		"/m~0n":  `8`,
	}
	assert.Equal(t, len(tests), m.Len())
	for ptr, expected := range tests {
		v, ok := m.Get(ptr)
		require.True(t, ok, "missing pointer %q", ptr)
		assert.Equal(t, expected, v.String(), "pointer %q", ptr)
	}
}

func TestFromString_InvalidJSON(t *testing.T) {
	m, err := FromString("not json")

	require.Error(t, err)
	assert.Nil(t, m)
	var parseErr *jsonvalue.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestFromString_NullMember(t *testing.T) {
	m := mustFlatten(t, `{"name": null}`)

	v, ok := m.Get("/name")
	require.True(t, ok)
	assert.Equal(t, jsonvalue.Null, v.Kind())
	assert.Equal(t, `{"":{},"/name":null}`, m.String())
}

func TestFromString_RootScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"number", `42`, `{"":42}`},
		{"float", `3.14`, `{"":3.14}`},
		{"string", `"hello"`, `{"":"hello"}`},
		{"true", `true`, `{"":true}`},
		{"false", `false`, `{"":false}`},
		{"null", `null`, `{"":null}`},
		{"empty object", `{}`, `{"":{}}`},
		{"empty array", `[]`, `{"":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustFlatten(t, tt.input)
			assert.Equal(t, tt.expected, m.String())
		})
	}
}

func TestFromString_NestedTraversalOrder(t *testing.T) {
	m := mustFlatten(t, `{
		"name": "John Smith",
		"age": 24,
		"address": {"country": "US", "zip": "00000"},
		"phones": ["123", "456"],
		"empty": {"obj": {}, "arr": []}
	}`)

	expected := []string{
		"",
		"/name",
		"/age",
		"/address",
		"/address/country",
		"/address/zip",
		"/phones",
		"/phones/0",
		"/phones/1",
		"/empty",
		"/empty/obj",
		"/empty/arr",
	}
	assert.Equal(t, expected, m.Keys())

	obj, _ := m.Get("/empty/obj")
	assert.True(t, obj.Equal(jsonvalue.EmptyObject()))
	arr, _ := m.Get("/empty/arr")
	assert.True(t, arr.Equal(jsonvalue.EmptyArray()))
}

func TestFromString_MixedArray(t *testing.T) {
	m := mustFlatten(t, `[1, "name", {"country": "US", "zip": "00000"}, ["123", "456"]]`)

	expected := []Entry{
		{"", jsonvalue.EmptyArray()},
		{"/0", num("1")},
		{"/1", jsonvalue.StringOf("name")},
		{"/2", jsonvalue.EmptyObject()},
		{"/2/country", jsonvalue.StringOf("US")},
		{"/2/zip", jsonvalue.StringOf("00000")},
		{"/3", jsonvalue.EmptyArray()},
		{"/3/0", jsonvalue.StringOf("123")},
		{"/3/1", jsonvalue.StringOf("456")},
	}
	if diff := cmp.Diff(expected, m.Entries(), valueComparer); diff != "" {
		t.Errorf("FromString() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromString_EmptyKeyNested(t *testing.T) {
	m := mustFlatten(t, `{"": {"": [null]}}`)

	assert.Equal(t, []string{"", "/", "//", "//0"}, m.Keys())
}

func TestFromString_NumbersKeepLiteral(t *testing.T) {
	m := mustFlatten(t, `{"big": 12345678901234567890, "one": 1.0, "huge": 1e400, "neg": -0.000}`)

	for ptr, literal := range map[string]string{
		"/big":  "12345678901234567890",
		"/one":  "1.0",
		"/huge": "1e400",
		"/neg":  "-0.000",
	} {
		v, ok := m.Get(ptr)
		require.True(t, ok)
		assert.Equal(t, json.Number(literal), v.Number())
	}
}

func TestFromString_ContainersAreAlwaysEmpty(t *testing.T) {
	m := mustFlatten(t, `{"a": {"b": [1, [2, {"c": 3}]]}}`)

	m.Range(func(ptr string, v jsonvalue.Value) bool {
		assert.Equal(t, 0, v.Len(), "entry %q should not carry children", ptr)
		return true
	})
}

func TestFromString_AncestorsPresent(t *testing.T) {
	m := mustFlatten(t, `{"a/b": {"m~n": [[], {"": {"x": 1}}]}, "list": [1, [2, [3]]]}`)

	for _, ptr := range m.Keys() {
		parent, ok := pointer.Parent(ptr)
		if !ok {
			assert.Equal(t, "", ptr)
			continue
		}
		assert.True(t, m.Has(parent), "parent %q of %q missing", parent, ptr)
	}
}

func TestFromString_PointersRoundTripTokens(t *testing.T) {
	m := mustFlatten(t, `{"a/b": {"~01": 1, "": 2, "x y": [true]}}`)

	for _, ptr := range m.Keys() {
		tokens, err := pointer.Tokens(ptr)
		require.NoError(t, err)
		assert.Equal(t, ptr, pointer.Join(tokens...))
	}

	tokens, err := pointer.Tokens("/a~1b/~001")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "~01"}, tokens)
	assert.True(t, m.Has("/a~1b/~001"))
}

func TestFromValue_NotIdempotent(t *testing.T) {
	first := mustFlatten(t, `{"a": {"b": 1}}`)
	second := FromValue(first.Value())

	assert.NotEqual(t, first.Keys(), second.Keys())
	assert.Equal(t, []string{"", "/", "/~1a", "/~1a~1b"}, second.Keys())
	assert.Equal(t, `{"":{},"/":{},"/~1a":{},"/~1a~1b":1}`, second.String())
}

func TestFromValue_AlwaysObjectWithRoot(t *testing.T) {
	inputs := []string{`null`, `0`, `"s"`, `[]`, `{}`, `[[[]]]`, `{"a":{"b":{"c":{}}}}`}
	for _, input := range inputs {
		m := mustFlatten(t, input)
		assert.True(t, m.Has(""), "input %s", input)
		assert.Equal(t, jsonvalue.Object, m.Value().Kind())
		assert.True(t, strings.HasPrefix(m.String(), "{"))
	}
}

func TestFromValue_DoesNotModifyInput(t *testing.T) {
	v, err := jsonvalue.ParseString(`{"a": [1, {"b": 2}]}`)
	require.NoError(t, err)
	before := v.String()

	_ = FromValue(v)

	assert.Equal(t, before, v.String())
}

func TestFromBytesAndReader(t *testing.T) {
	m, err := FromBytes([]byte(`{"k": [false]}`))
	require.NoError(t, err)
	assert.Equal(t, `{"":{},"/k":[],"/k/0":false}`, m.String())

	m, err = FromReader(strings.NewReader(`{"k": [false]}`))
	require.NoError(t, err)
	assert.Equal(t, `{"":{},"/k":[],"/k/0":false}`, m.String())

	_, err = FromReader(strings.NewReader(`{"k": `))
	assert.Error(t, err)
}

type person struct {
	Name string `json:"name"`
	Age  uint8  `json:"age"`
}

type node struct {
	Next *node `json:"next"`
}

func TestFrom_TypedValue(t *testing.T) {
	m, err := From(person{Name: "John Smith", Age: 24})
	require.NoError(t, err)

	assert.Equal(t, `{"":{},"/name":"John Smith","/age":24}`, m.String())
}

func TestFrom_JSONValueAndMap(t *testing.T) {
	m, err := From(jsonvalue.ArrayOf(jsonvalue.BoolOf(true), num("42")))
	require.NoError(t, err)
	assert.Equal(t, `{"":[],"/0":true,"/1":42}`, m.String())

	again, err := From(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "/", "/~10", "/~11"}, again.Keys())
}

func TestFrom_SerializeError(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"channel", make(chan int)},
		{"function", func() {}},
		{"cycle", func() any { n := &node{}; n.Next = n; return n }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := From(tt.value)
			require.Error(t, err)
			assert.Nil(t, m)

			var serializeErr *SerializeError
			require.True(t, errors.As(err, &serializeErr))
			assert.Contains(t, err.Error(), "cannot serialize value to JSON")
		})
	}
}

func TestMap_Accessors(t *testing.T) {
	m := mustFlatten(t, `{"a": 1, "b": [2]}`)

	assert.True(t, m.Has("/b/0"))
	assert.False(t, m.Has("/c"))
	_, ok := m.Get("/c")
	assert.False(t, ok)

	var visited []string
	m.Range(func(ptr string, _ jsonvalue.Value) bool {
		visited = append(visited, ptr)
		return ptr != "/a"
	})
	assert.Equal(t, []string{"", "/a"}, visited)

	entries := m.Entries()
	entries[0].Pointer = "changed"
	assert.Equal(t, "", m.Keys()[0])

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"":{},"/a":1,"/b":[],"/b/0":2}`, string(b))
}

func TestMap_Filter(t *testing.T) {
	m := mustFlatten(t, `{"user": "bob", "secrets": {"token": "abc"}, "n": 1}`)

	kept := m.Filter(func(ptr string, _ jsonvalue.Value) bool {
		return !strings.HasPrefix(ptr, "/secrets")
	})

	assert.Equal(t, []string{"", "/user", "/n"}, kept.Keys())
	assert.Equal(t, `{"":{},"/user":"bob","/n":1}`, kept.String())
	assert.Equal(t, 5, m.Len())
	assert.True(t, m.Has("/secrets/token"))
}

func TestMap_MarshalJSONInvalidUTF8(t *testing.T) {
	m := FromValue(jsonvalue.ObjectOf(jsonvalue.Member{Key: "\xff", Value: jsonvalue.NullValue()}))

	_, err := m.MarshalJSON()
	assert.Error(t, err)
}

func TestFromString_RejectsMalformedText(t *testing.T) {
	for _, input := range []string{"{\"a\":\"\xff\xfe\"}", `{"a":"\ud800"}`} {
		m, err := FromString(input)
		require.Error(t, err, "input %q", input)
		assert.Nil(t, m)

		var parseErr *jsonvalue.ParseError
		assert.True(t, errors.As(err, &parseErr))
	}
}
