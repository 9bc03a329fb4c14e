package lz4

import (
	"encoding/binary"
	"hash"

	"github.com/pierrec/xxHash/xxHash32"
	"github.com/wjrlz/wjr"
)

const (
	frameMagic = 0x184D2204

	// MaxBlockSize is the largest block a FrameEncoder accepts (4 MiB, as
	// declared in the frame header).
	MaxBlockSize = 4 << 20

	uncompressedFlag = 0x80000000
)

// A FrameEncoder implements the wjr.Encoder interface,
// writing in the LZ4 frame format with a content checksum.
type FrameEncoder struct {
	hasher      hash.Hash32
	blockBuffer []byte
	block       BlockEncoder
}

func (f *FrameEncoder) Reset() {
	f.hasher = nil
}

// Header appends the frame header to dst.
func (f *FrameEncoder) Header(dst []byte) []byte {
	f.hasher = xxHash32.New(0)
	dst = binary.LittleEndian.AppendUint32(dst, frameMagic)
	// Frame header for content checksum enabled, and 4-MB blocks.
	return append(dst, 0x44, 0x70, 0x1d)
}

// Encode appends one block holding src to dst. src must not be longer than
// MaxBlockSize. Blocks that don't shrink are stored uncompressed.
func (f *FrameEncoder) Encode(dst []byte, src []byte, matches []wjr.Match, lastBlock bool) []byte {
	if len(src) > MaxBlockSize {
		panic("lz4: block too large")
	}
	if f.hasher == nil {
		dst = f.Header(dst)
	}

	if len(src) > 0 {
		f.blockBuffer = f.block.Encode(f.blockBuffer[:0], src, matches, lastBlock)
		if len(f.blockBuffer) < len(src) {
			dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.blockBuffer)))
			dst = append(dst, f.blockBuffer...)
		} else {
			dst = binary.LittleEndian.AppendUint32(dst, uncompressedFlag|uint32(len(src)))
			dst = append(dst, src...)
		}
		f.hasher.Write(src)
	}

	if lastBlock {
		dst = append(dst, 0, 0, 0, 0)
		dst = binary.LittleEndian.AppendUint32(dst, f.hasher.Sum32())
		f.hasher = nil
	}

	return dst
}

// Encode compresses src into a complete LZ4 frame, finding matches with a
// wjr.HashChain.
func Encode(src []byte) []byte {
	var (
		q       wjr.HashChain
		f       FrameEncoder
		matches []wjr.Match
	)
	dst := f.Header(nil)
	for {
		n := len(src)
		if n > MaxBlockSize {
			n = MaxBlockSize
		}
		block := src[:n]
		src = src[n:]
		matches = q.FindMatches(matches[:0], block)
		dst = f.Encode(dst, block, matches, len(src) == 0)
		if len(src) == 0 {
			return dst
		}
	}
}
