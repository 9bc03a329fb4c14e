package wjr

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// HashChain is an implementation of the MatchFinder interface that
// uses hash chaining over a sliding window to find the longest match at each
// position.
//
// A HashChain must not be used by more than one goroutine at a time, but
// separate HashChains share nothing.
type HashChain struct {
	// WindowBits is the base-2 logarithm of the window size: the farthest
	// back a match can reach. The default is 13 (8 KiB).
	WindowBits int

	// HashBits is the base-2 logarithm of the number of hash buckets.
	// The default is 14.
	HashBits int

	// ChainLimit is how many positions a hash bucket holds before its oldest
	// entry is dropped. The default is 16.
	ChainLimit int

	// MaxLength is the longest match to look for. The default and maximum
	// is MaxMatchLength.
	MaxLength int

	// Parser chooses which matches to use. The default is a GreedyParser.
	Parser Parser

	index   windowIndex
	src     []byte
	indexed int // next position to be added to the index
}

func (q *HashChain) Reset() {
	q.index.reset()
	q.src = nil
	q.indexed = 0
}

func (q *HashChain) init() {
	q.WindowBits = clamp(q.WindowBits, DefaultWindowBits, minWindowBits, maxWindowBits)
	q.HashBits = clamp(q.HashBits, DefaultHashBits, minHashBits, maxHashBits)
	q.ChainLimit = clamp(q.ChainLimit, DefaultChainLimit, 1, 1<<q.WindowBits)
	q.MaxLength = clamp(q.MaxLength, MaxMatchLength, MinMatchLength, MaxMatchLength)
	if q.Parser == nil {
		q.Parser = &GreedyParser{}
	}
	q.index.init(q.WindowBits, q.HashBits, q.ChainLimit)
	q.src = nil
	q.indexed = 0
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// Each call starts with an empty window.
func (q *HashChain) FindMatches(dst []Match, src []byte) []Match {
	q.init()
	q.src = src

	dst = q.Parser.Parse(dst, q, 0, len(src))

	q.advance(len(src))
	q.evictWindow()
	if debugEncoder && q.index.live != 0 {
		printf("wjr: %d nodes left in index after FindMatches", q.index.live)
	}
	q.src = nil
	return dst
}

// hashable reports whether there are enough bytes at pos to hash.
func (q *HashChain) hashable(pos int) bool {
	return pos+MinMatchLength <= len(q.src)
}

// advance adds every position before pos to the index, dropping the
// positions that fall out of the window.
func (q *HashChain) advance(pos int) {
	w := 1 << q.WindowBits
	for ; q.indexed < pos; q.indexed++ {
		p := q.indexed
		if old := p - w; old >= 0 && q.hashable(old) {
			q.index.evict(q.src, old)
		}
		if q.hashable(p) {
			q.index.insert(q.src, p)
		}
	}
}

// evictWindow removes the positions still in the window, leaving the index
// empty.
func (q *HashChain) evictWindow() {
	start := q.indexed - 1<<q.WindowBits
	if start < 0 {
		start = 0
	}
	for p := start; p < q.indexed; p++ {
		if q.hashable(p) {
			q.index.evict(q.src, p)
		}
	}
}

// Search looks for the longest match at pos, within the window and ending
// before max. It appends at most one match to dst. Every position before pos
// is indexed first, so pos must not decrease between calls.
func (q *HashChain) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	if pos < q.indexed {
		panic("wjr: HashChain.Search called out of order")
	}
	q.advance(pos)

	length, offset := q.findLongestMatch(pos, max)
	if length == 0 {
		return dst
	}
	return append(dst, AbsoluteMatch{
		Start: pos,
		End:   pos + length,
		Match: pos - offset - 1,
	})
}

// findLongestMatch returns the length and offset (distance minus one) of the
// longest match at cursor that ends at or before end. It returns 0, 0 if
// there is no match of at least MinMatchLength bytes. Among matches of equal
// length the oldest candidate wins.
func (q *HashChain) findLongestMatch(cursor, end int) (length, offset int) {
	if end > len(q.src) {
		end = len(q.src)
	}
	if cursor+MinMatchLength > end {
		return 0, 0
	}
	maxLen := end - cursor
	if maxLen > q.MaxLength {
		maxLen = q.MaxLength
	}
	src := q.src[:cursor+maxLen]
	x := &q.index

	for n := x.first[x.hash(src, cursor)]; n != 0; n = x.next[n] {
		c := x.key[n]
		// A candidate that differs at the current best length can't beat it.
		if src[c+length] != src[cursor+length] {
			continue
		}
		l := extendMatch(src, c, cursor) - cursor
		if l > length {
			length = l
			offset = cursor - c - 1
			if length == maxLen {
				break
			}
		}
	}

	if length < MinMatchLength {
		return 0, 0
	}
	return length, offset
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		// As long as we are 8 or more bytes before the end of src, we can load and
		// compare 8 bytes at a time. If those 8 bytes are equal, repeat.
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				// The lowest set bit of the XOR is the first byte that differs.
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	case "386":
		// On a 32-bit CPU, we do it 4 bytes at a time.
		for j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(src[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
