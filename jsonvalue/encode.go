package jsonvalue

import (
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
)

// MarshalJSON implements json.Marshaler. Object members are written in order
// and numbers are written as their original literal.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil)
}

// UnmarshalJSON implements json.Unmarshaler using the order-preserving
// decoder.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBytes(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) appendJSON(dst []byte) ([]byte, error) {
	var err error
	switch v.kind {
	case Null:
		return append(dst, "null"...), nil
	case Bool:
		return strconv.AppendBool(dst, v.boolean), nil
	case Number:
		return append(dst, v.text...), nil
	case String:
		return AppendString(dst, v.text)
	case Array:
		dst = append(dst, '[')
		for i, elem := range v.elements {
			if i > 0 {
				dst = append(dst, ',')
			}
			if dst, err = elem.appendJSON(dst); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case Object:
		dst = append(dst, '{')
		for i, m := range v.members {
			if i > 0 {
				dst = append(dst, ',')
			}
			if dst, err = AppendString(dst, m.Key); err != nil {
				return nil, err
			}
			dst = append(dst, ':')
			if dst, err = m.Value.appendJSON(dst); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	}
	return dst, nil
}

// AppendString appends s to dst as a quoted JSON string. Only characters
// that JSON requires to be escaped are escaped. s must be valid UTF-8.
func AppendString(dst []byte, s string) ([]byte, error) {
	return jsontext.AppendQuote(dst, s)
}
