package quadtree

import (
	"errors"
	"fmt"
	"strings"
)

// Key is the canonical encoding of a tree's shape and leaf flip bits.
type Key string

// Shape key markers.
const (
	markUnflipped = '0'
	markFlipped   = '1'
	markEmpty     = '.'
	markInterior  = '+'
)

// ErrMalformedKey is returned by Parse for strings that are not shape keys.
var ErrMalformedKey = errors.New("malformed shape key")

// Encode serialises n in pre-order: one marker per leaf, and an interior
// marker followed by the four child encodings for interior nodes. The
// encoding is prefix-free, so distinct trees never share a key.
func Encode[H any](n *Node[H]) Key {
	var b strings.Builder
	encode(&b, n)
	return Key(b.String())
}

func encode[H any](b *strings.Builder, n *Node[H]) {
	switch {
	case len(n.children) != 0:
		b.WriteByte(markInterior)
		for _, c := range n.children {
			encode(b, c)
		}
	case n.value == nil:
		b.WriteByte(markEmpty)
	case n.value.Flipped:
		b.WriteByte(markFlipped)
	default:
		b.WriteByte(markUnflipped)
	}
}

// Equal reports whether two keys describe the same tree.
func Equal(a, b Key) bool {
	return a == b
}

// Parse builds a detached tree from a key. newHandle is called once per
// valued leaf, in pre-order, to create its visual handle.
func Parse[H any](key Key, owner Owner, stage Stage[H], newHandle func(flipped bool) H) (*Node[H], error) {
	root := New(owner, stage)
	rest, err := parse(string(key), root, newHandle)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedKey, len(rest))
	}
	return root, nil
}

func parse[H any](s string, n *Node[H], newHandle func(bool) H) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: unexpected end", ErrMalformedKey)
	}
	switch s[0] {
	case markEmpty:
		return s[1:], nil
	case markUnflipped, markFlipped:
		flipped := s[0] == markFlipped
		n.Merge(NewValue(flipped, newHandle(flipped)))
		return s[1:], nil
	case markInterior:
		n.Split()
		rest := s[1:]
		for _, c := range n.children {
			var err error
			if rest, err = parse(rest, c, newHandle); err != nil {
				return "", err
			}
		}
		return rest, nil
	default:
		return "", fmt.Errorf("%w: unexpected %q", ErrMalformedKey, s[0])
	}
}
