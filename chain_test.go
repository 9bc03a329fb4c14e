package wjr

import (
	"bytes"
	"math/rand"
	"testing"
)

// boundaryInput returns a 16-byte uppercase pattern at 0 and again at gap,
// with lowercase filler in between so the pattern has no other source.
func boundaryInput(gap int) []byte {
	rng := rand.New(rand.NewSource(int64(gap)))
	pattern := make([]byte, 16)
	for i := range pattern {
		pattern[i] = byte('A' + rng.Intn(26))
	}
	src := append([]byte{}, pattern...)
	for len(src) < gap {
		src = append(src, byte('a'+rng.Intn(26)))
	}
	return append(src, pattern...)
}

func TestHashChainFindsMatchAtWindowEdge(t *testing.T) {
	q := &HashChain{WindowBits: 8}
	w := 1 << 8
	src := boundaryInput(w)

	matches := q.FindMatches(nil, src)
	found := false
	pos := 0
	for _, m := range matches {
		pos += m.Unmatched
		if pos == w && m.Length > 0 {
			if m.Distance != w || m.Length != 16 {
				t.Fatalf("match at window edge: length %d distance %d", m.Length, m.Distance)
			}
			found = true
		}
		pos += m.Length
	}
	if !found {
		t.Fatal("no match for a source exactly one window back")
	}
}

func TestHashChainIgnoresSourceOutsideWindow(t *testing.T) {
	q := &HashChain{WindowBits: 8}
	w := 1 << 8
	src := boundaryInput(w + 1)

	q.init()
	q.src = src
	for _, m := range q.Search(nil, w+1, 0, len(src)) {
		if m.Match < 1 {
			t.Fatalf("found %+v reaching past the window", m)
		}
	}
	for _, c := range q.index.candidates(nil, src, w+1) {
		if c < 1 {
			t.Fatalf("candidate %d is outside the window", c)
		}
	}
}

func TestHashChainCandidatesStayInWindow(t *testing.T) {
	q := &HashChain{WindowBits: 10}
	w := 1 << 10
	src := testText(20000)
	q.init()
	q.src = src

	for pos := 0; pos+3 <= len(src); pos += 37 {
		q.Search(nil, pos, 0, len(src))
		for _, c := range q.index.candidates(nil, src, pos) {
			if c < pos-w || c >= pos {
				t.Fatalf("candidate %d for cursor %d is outside [%d, %d)", c, pos, pos-w, pos)
			}
		}
		for h := range q.index.count {
			if n := q.index.chainLength(uint32(h)); n > q.ChainLimit {
				t.Fatalf("bucket %d has %d nodes, limit is %d", h, n, q.ChainLimit)
			}
		}
	}
}

func TestHashChainEmptiesIndex(t *testing.T) {
	q := new(HashChain)
	q.FindMatches(nil, testText(30000))
	if q.index.live != 0 {
		t.Fatalf("%d nodes left in the index", q.index.live)
	}
}

func TestHashChainRepeatedByte(t *testing.T) {
	src := bytes.Repeat([]byte{'a'}, 30)
	matches := new(HashChain).FindMatches(nil, src)
	want := []Match{{Unmatched: 1, Length: 29, Distance: 1}}
	if len(matches) != 1 || matches[0] != want[0] {
		t.Fatalf("got %+v, want %+v", matches, want)
	}
}

func TestHashChainOverlappingPeriod(t *testing.T) {
	src := []byte("abcabcabcabc")
	matches := new(HashChain).FindMatches(nil, src)
	got := string(TextEncoder{}.Encode(nil, src, matches, true))
	if got != "abc<9,3>" {
		t.Fatalf("got %q, want %q", got, "abc<9,3>")
	}
}

func TestHashChainMaxLength(t *testing.T) {
	src := bytes.Repeat([]byte("xy"), 100)
	q := &HashChain{MaxLength: 20}
	matches := q.FindMatches(nil, src)
	total := 0
	for _, m := range matches {
		if m.Length > 20 {
			t.Fatalf("match of length %d exceeds MaxLength", m.Length)
		}
		total += m.Unmatched + m.Length
	}
	if total != len(src) {
		t.Fatalf("matches cover %d bytes, want %d", total, len(src))
	}
}

func TestHashChainPrefersOldestOfEqualLength(t *testing.T) {
	// "abcd" appears at 0 and 5; at 10 both give a 4-byte match.
	src := []byte("abcd-abcd.abcd!")
	q := new(HashChain)
	q.init()
	q.src = src
	matches := q.Search(nil, 10, 0, len(src))
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if m := matches[0]; m.End-m.Start != 4 || m.Match != 0 {
		t.Fatalf("got %+v, want the 4-byte match at 0", m)
	}
}

func TestHashChainShortInput(t *testing.T) {
	for _, s := range []string{"", "a", "ab", "abc"} {
		matches := new(HashChain).FindMatches(nil, []byte(s))
		total := 0
		for _, m := range matches {
			if m.Length != 0 {
				t.Fatalf("%q: unexpected match %+v", s, m)
			}
			total += m.Unmatched
		}
		if total != len(s) {
			t.Fatalf("%q: matches cover %d bytes", s, total)
		}
	}
}
