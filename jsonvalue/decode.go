package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

// MaxDepth is the deepest nesting of arrays and objects Parse accepts.
const MaxDepth = 10000

var (
	ErrEmptyInput     = errors.New("input is empty or contains only whitespace")
	ErrMultipleValues = errors.New("multiple JSON values found at the root")
	ErrTooDeep        = fmt.Errorf("nesting exceeds max depth of %d", MaxDepth)
)

// ParseError reports input that is not a single well-formed JSON value.
type ParseError struct {
	// Offset is the byte offset in the input where the problem was detected.
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads exactly one JSON value from r. Anything other than whitespace
// after the value is an error. Strings must be valid UTF-8 and escaped
// surrogates must come in pairs.
func Parse(r io.Reader) (Value, error) {
	// Duplicate names are resolved by insertMember instead of rejected.
	d := &decoder{dec: jsontext.NewDecoder(r, jsontext.AllowDuplicateNames(true))}

	if d.dec.PeekKind() == 0 {
		_, err := d.dec.ReadToken()
		if err == io.EOF {
			return Value{}, &ParseError{Offset: d.dec.InputOffset(), Err: ErrEmptyInput}
		}
		return Value{}, d.fail(err)
	}

	root, err := d.value(0)
	if err != nil {
		return Value{}, err
	}

	// Only whitespace may follow the root value.
	if d.dec.PeekKind() != 0 {
		return Value{}, &ParseError{Offset: d.dec.InputOffset(), Err: ErrMultipleValues}
	}
	if _, err := d.dec.ReadToken(); err != io.EOF {
		return Value{}, d.fail(err)
	}
	return root, nil
}

// ParseString parses a JSON document held in a string.
func ParseString(s string) (Value, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes parses a JSON document held in a byte slice.
func ParseBytes(b []byte) (Value, error) {
	return Parse(bytes.NewReader(b))
}

type decoder struct {
	dec *jsontext.Decoder
}

// value decodes the next value. depth counts the containers already open.
func (d *decoder) value(depth int) (Value, error) {
	switch kind := d.dec.PeekKind(); kind {
	case '[', '{':
		if depth >= MaxDepth {
			return Value{}, d.fail(ErrTooDeep)
		}
		if _, err := d.dec.ReadToken(); err != nil {
			return Value{}, d.fail(err)
		}
		if kind == '[' {
			return d.array(depth + 1)
		}
		return d.object(depth + 1)
	case '0':
		// the raw value of a number is its literal
		raw, err := d.dec.ReadValue()
		if err != nil {
			return Value{}, d.fail(err)
		}
		return NumberOf(json.Number(raw)), nil
	default:
		tok, err := d.dec.ReadToken()
		if err != nil {
			return Value{}, d.fail(err)
		}
		switch tok.Kind() {
		case 'n':
			return NullValue(), nil
		case 't', 'f':
			return BoolOf(tok.Bool()), nil
		case '"':
			return StringOf(tok.String()), nil
		}
		return Value{}, d.fail(fmt.Errorf("unexpected token %v", tok.Kind()))
	}
}

func (d *decoder) array(depth int) (Value, error) {
	v := Value{kind: Array}
	for d.dec.PeekKind() != ']' {
		elem, err := d.value(depth)
		if err != nil {
			return Value{}, err
		}
		v.elements = append(v.elements, elem)
	}
	if _, err := d.dec.ReadToken(); err != nil {
		return Value{}, d.fail(err)
	}
	return v, nil
}

func (d *decoder) object(depth int) (Value, error) {
	v := Value{kind: Object}
	index := make(map[string]int)
	for d.dec.PeekKind() != '}' {
		// the decoder only yields strings in name position
		name, err := d.dec.ReadToken()
		if err != nil {
			return Value{}, d.fail(err)
		}
		member, err := d.value(depth)
		if err != nil {
			return Value{}, err
		}
		v.members = insertMember(v.members, index, name.String(), member)
	}
	if _, err := d.dec.ReadToken(); err != nil {
		return Value{}, d.fail(err)
	}
	return v, nil
}

// fail wraps err in a ParseError. End of input inside a value is reported as
// io.ErrUnexpectedEOF.
func (d *decoder) fail(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	var syntaxErr *jsontext.SyntacticError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Offset: syntaxErr.ByteOffset, Err: err}
	}
	return &ParseError{Offset: d.dec.InputOffset(), Err: err}
}
