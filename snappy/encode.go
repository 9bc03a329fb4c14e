package snappy

import (
	"hash/crc32"

	"github.com/wjrlz/wjr"
)

// MaxBlockSize is the largest amount of uncompressed data in one chunk of a
// framed stream.
const MaxBlockSize = 65536

// An Encoder implements the wjr.Encoder interface, writing in the Snappy
// framing format. Each call to Encode writes one chunk.
type Encoder struct {
	wroteHeader bool
}

var magicChunk = []byte("\xff\x06\x00\x00sNaPpY")

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// crc implements the checksum specified in section 3 of
// https://github.com/google/snappy/blob/master/framing_format.txt
func crc(b []byte) uint32 {
	c := crc32.Update(0, crcTable, b)
	return uint32(c>>15|c<<17) + 0xa282ead8
}

func (e *Encoder) Reset() {
	e.wroteHeader = false
}

// Header appends the stream identifier chunk to dst.
func (e *Encoder) Header(dst []byte) []byte {
	e.wroteHeader = true
	return append(dst, magicChunk...)
}

func (e *Encoder) Encode(dst []byte, src []byte, matches []wjr.Match, lastBlock bool) []byte {
	if len(src) > MaxBlockSize {
		panic("snappy: block too large")
	}

	if !e.wroteHeader {
		dst = e.Header(dst)
	}

	start := len(dst)
	checksum := crc(src)

	dst = append(dst,
		0,       // chunk type: compressed data
		0, 0, 0, // placeholder for compressed length
		byte(checksum), byte(checksum>>8), byte(checksum>>16), byte(checksum>>24),
	)
	dataStart := len(dst)

	dst = AppendBlock(dst, src, matches)

	dataLen := len(dst) - dataStart
	if dataLen >= len(src)-len(src)/8 {
		// The compression isn't saving even 12.5%.
		// Just do an uncompressed chunk.
		dst = append(dst[:dataStart], src...)
		dst[start] = 1 // chunk type: uncompressed data
		dataLen = len(src)
	}

	chunkLen := dataLen + 4
	dst[start+1] = byte(chunkLen)
	dst[start+2] = byte(chunkLen >> 8)
	dst[start+3] = byte(chunkLen >> 16)

	return dst
}

// AppendBlock appends src to dst in the Snappy block format, using matches
// to place copies.
func AppendBlock(dst, src []byte, matches []wjr.Match) []byte {
	dst = appendUvarint(dst, uint64(len(src)))

	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = appendLiteral(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			if m.Distance > maxOffset {
				dst = appendLiteral(dst, src[pos:pos+m.Length])
			} else {
				dst = appendCopy(dst, m.Length, m.Distance)
			}
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = appendLiteral(dst, src[pos:])
	}
	return dst
}

// Encode compresses src into a framed Snappy stream, finding matches with a
// wjr.HashChain.
func Encode(src []byte) []byte {
	var (
		q       wjr.HashChain
		e       Encoder
		matches []wjr.Match
	)
	dst := e.Header(nil)
	for len(src) > 0 {
		n := len(src)
		if n > MaxBlockSize {
			n = MaxBlockSize
		}
		matches = q.FindMatches(matches[:0], src[:n])
		dst = e.Encode(dst, src[:n], matches, n == len(src))
		src = src[n:]
	}
	return dst
}

const (
	tagLiteral = 0x00
	tagCopy1   = 0x01
	tagCopy2   = 0x02

	maxOffset = 1<<16 - 1
)

func appendLiteral(dst, lit []byte) []byte {
	for len(lit) > 0 {
		chunk := lit
		if len(chunk) > 1<<16 {
			chunk = chunk[:1<<16]
		}
		n := len(chunk) - 1
		switch {
		case n < 60:
			dst = append(dst, byte(n)<<2|tagLiteral)
		case n < 1<<8:
			dst = append(dst, 60<<2|tagLiteral, byte(n))
		default:
			dst = append(dst, 61<<2|tagLiteral, byte(n), byte(n>>8))
		}
		dst = append(dst, chunk...)
		lit = lit[len(chunk):]
	}
	return dst
}

func appendCopy(dst []byte, length, offset int) []byte {
	// The maximum length for a single tagCopy1 or tagCopy2 op is 64 bytes. The
	// threshold for this loop is a little higher (at 68 = 64 + 4), and the
	// length emitted down below is is a little lower (at 60 = 64 - 4), because
	// it's shorter to encode a length 67 copy as a length 60 tagCopy2 followed
	// by a length 7 tagCopy1 (which encodes as 3+2 bytes) than to encode it as
	// a length 64 tagCopy2 followed by a length 3 tagCopy2 (which encodes as
	// 3+3 bytes).
	for length >= 68 {
		// Emit a length 64 copy, encoded as 3 bytes.
		dst = append(dst,
			63<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
		length -= 64
	}
	if length > 64 {
		// Emit a length 60 copy, encoded as 3 bytes.
		dst = append(dst,
			59<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
		length -= 60
	}
	// tagCopy1 covers lengths 4 through 11 with offsets below 2048; a
	// 3-byte match needs the 3-byte form.
	if length < 4 || length >= 12 || offset >= 2048 {
		return append(dst,
			byte(length-1)<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
	}
	// Emit the remaining copy, encoded as 2 bytes.
	return append(dst,
		byte(offset>>8)<<5|byte(length-4)<<2|tagCopy1,
		byte(offset),
	)
}

// appendUvarint appends x to dst in varint format.
func appendUvarint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}
