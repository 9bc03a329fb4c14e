package lz4

import (
	"encoding/binary"

	"github.com/wjrlz/wjr"
)

const (
	minMatch    = 4
	maxDistance = 65535

	// The last match must start at least mfLimit bytes before the end of
	// the block, and the block must end with at least lastLiterals literals.
	mfLimit      = 12
	lastLiterals = 5
)

// A BlockEncoder implements the wjr.Encoder interface, writing in the LZ4
// block format. Matches shorter than LZ4's 4-byte minimum, or farther back
// than 65535 bytes, are written as literals.
type BlockEncoder struct {
	matches []wjr.Match
}

func (*BlockEncoder) Header(dst []byte) []byte {
	return dst
}

func (*BlockEncoder) Reset() {}

func (b *BlockEncoder) Encode(dst []byte, src []byte, matches []wjr.Match, lastBlock bool) []byte {
	matches = foldShortMatches(b.matches[:0], matches)
	b.matches = matches[:0]

	// Drop matches from the end until the block ends with enough literals
	// and the last match starts far enough from the end.
	trailing := 0
	for _, m := range matches {
		trailing += m.Unmatched + m.Length
	}
	trailing = len(src) - trailing
	for len(matches) > 0 && (trailing < lastLiterals || trailing+matches[len(matches)-1].Length < mfLimit) {
		lastMatch := matches[len(matches)-1]
		matches = matches[:len(matches)-1]
		trailing += lastMatch.Unmatched + lastMatch.Length
	}

	pos := 0
	for _, m := range matches {
		token := byte(0)
		if m.Unmatched > 14 {
			token |= 0xf0
		} else {
			token |= byte(m.Unmatched << 4)
		}
		if m.Length > 18 {
			token |= 0x0f
		} else {
			token |= byte(m.Length - minMatch)
		}
		dst = append(dst, token)

		if m.Unmatched > 14 {
			dst = appendInt(dst, m.Unmatched-15)
		}
		dst = append(dst, src[pos:pos+m.Unmatched]...)

		dst = binary.LittleEndian.AppendUint16(dst, uint16(m.Distance))
		if m.Length > 18 {
			dst = appendInt(dst, m.Length-19)
		}

		pos += m.Unmatched + m.Length
	}

	// Write the final, literals-only sequence.
	literals := len(src) - pos
	token := byte(0)
	if literals > 14 {
		token |= 0xf0
	} else {
		token |= byte(literals << 4)
	}
	dst = append(dst, token)
	if literals > 14 {
		dst = appendInt(dst, literals-15)
	}
	dst = append(dst, src[pos:]...)

	return dst
}

// foldShortMatches appends matches to dst, turning the ones LZ4 can't
// represent into literals that join the next match's Unmatched count.
func foldShortMatches(dst, matches []wjr.Match) []wjr.Match {
	carry := 0
	for _, m := range matches {
		if m.Length < minMatch || m.Distance > maxDistance {
			carry += m.Unmatched + m.Length
			continue
		}
		m.Unmatched += carry
		carry = 0
		dst = append(dst, m)
	}
	return dst
}

// appendInt appends n to dst in LZ4's variable-length integer format.
func appendInt(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	dst = append(dst, byte(n))
	return dst
}
