// Package pointer implements the escaping rules of JSON Pointer (RFC 6901).
//
// A pointer is either the empty string, which refers to the whole document,
// or a sequence of "/"-prefixed reference tokens such as "/points/1/x". Within
// a token "~" is written as "~0" and "/" as "~1". No other character is
// escaped.
package pointer

import (
	"fmt"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// Escape encodes a reference token. "~" is replaced before "/" so that the
// "~" introduced by "~1" is never re-escaped.
func Escape(token string) string {
	return strings.ReplaceAll(strings.ReplaceAll(token, "~", "~0"), "/", "~1")
}

// Unescape decodes a reference token produced by Escape. "~1" is replaced
// before "~0", the reverse of Escape, so "~01" decodes to "~1" and not "/".
func Unescape(token string) string {
	return strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
}

// Tokens splits ptr into its unescaped reference tokens. The root pointer ""
// has no tokens. Consecutive slashes denote empty tokens and are kept.
func Tokens(ptr string) ([]string, error) {
	p, err := jsonpointer.New(ptr)
	if err != nil {
		return nil, fmt.Errorf("JSON pointer %q: %w", ptr, err)
	}
	return p.DecodedTokens(), nil
}

// Join escapes tokens and assembles them into a pointer. Join with no tokens
// returns the root pointer.
func Join(tokens ...string) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(Escape(tok))
	}
	return b.String()
}

// Parent returns the pointer of the node containing ptr. It reports false
// for the root pointer, which has no parent.
func Parent(ptr string) (string, bool) {
	i := strings.LastIndexByte(ptr, '/')
	if i < 0 {
		return "", false
	}
	return ptr[:i], true
}
