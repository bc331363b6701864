package quadtree

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestEncodeEmptyTree(t *testing.T) {
	root := New[*sprite](nil, nil)
	if got := Encode(root); got != "." {
		t.Errorf("Encode(empty) = %q, want %q", got, ".")
	}
}

func TestEncodeShapes(t *testing.T) {
	root := New[*sprite](nil, newRecordingStage())
	root.Merge(leaf(true))
	if got := Encode(root); got != "1" {
		t.Errorf("single flipped leaf = %q, want %q", got, "1")
	}

	splitWith(root, true, false, false, true)
	if got := Encode(root); got != "+1001" {
		t.Errorf("one split = %q, want %q", got, "+1001")
	}

	splitWith(root.Child(1), false, false, true, false)
	if got := Encode(root); got != "+1+00101" {
		t.Errorf("nested split = %q, want %q", got, "+1+00101")
	}
}

func TestEncodeIgnoresIdentity(t *testing.T) {
	a := New[*sprite](nil, newRecordingStage())
	b := New[*sprite](nil, newRecordingStage())
	splitWith(a, true, false, true, true)
	splitWith(b, true, false, true, true)

	if !Equal(Encode(a), Encode(b)) {
		t.Error("structurally identical trees should share a key")
	}
}

func TestEncodeDistinguishesChildOrder(t *testing.T) {
	a := New[*sprite](nil, nil)
	b := New[*sprite](nil, nil)
	splitWith(a, true, false, false, false)
	splitWith(b, false, true, false, false)

	if Equal(Encode(a), Encode(b)) {
		t.Error("mirrored trees should not share a key")
	}
}

func TestParseRoundTrip(t *testing.T) {
	keys := []Key{".", "0", "1", "+0000", "+1+0101.0", "++1111+00000+1010"}
	for _, k := range keys {
		created := 0
		root, err := Parse[*sprite](k, nil, newRecordingStage(), func(bool) *sprite {
			created++
			return newSprite()
		})
		if err != nil {
			t.Fatalf("Parse(%q): %v", k, err)
		}
		if got := Encode(root); got != k {
			t.Errorf("Encode(Parse(%q)) = %q", k, got)
		}
		if created != root.Leaves() {
			t.Errorf("Parse(%q) created %d handles for %d leaves", k, created, root.Leaves())
		}
	}
}

func TestParseMalformed(t *testing.T) {
	bad := []Key{"", "+00", "x", "01", "+0000+"}
	for _, k := range bad {
		_, err := Parse[*sprite](k, nil, nil, func(bool) *sprite { return newSprite() })
		if !errors.Is(err, ErrMalformedKey) {
			t.Errorf("Parse(%q) err = %v, want ErrMalformedKey", k, err)
		}
	}
}

func TestEncodeInjectiveOverRandomTrees(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := make(map[Key]bool)
	for i := 0; i < 300; i++ {
		root := randomTree(rng, nil, rng.IntN(6), 3)
		k := Encode(root)
		// Re-parse and re-encode: two trees with the same key must be identical,
		// so the canonical form must round-trip exactly.
		again, err := Parse[*sprite](k, nil, nil, func(bool) *sprite { return nil })
		if err != nil {
			t.Fatalf("Parse(%q): %v", k, err)
		}
		if Encode(again) != k {
			t.Fatalf("round trip changed %q", k)
		}
		seen[k] = true
	}
	if len(seen) < 2 {
		t.Error("random generator produced a single shape")
	}
}
