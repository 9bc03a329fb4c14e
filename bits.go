package wjr

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// byteAppender is an io.ByteWriter that appends to a slice.
type byteAppender struct {
	dst []byte
}

func (a *byteAppender) Write(p []byte) (int, error) {
	a.dst = append(a.dst, p...)
	return len(p), nil
}

func (a *byteAppender) WriteByte(c byte) error {
	a.dst = append(a.dst, c)
	return nil
}

// A bitWriter packs values into bytes, most significant bit first. Bits that
// don't fill a byte yet are held until the next write, so a bitWriter can
// continue a stream across calls that pass different dst slices.
type bitWriter struct {
	out byteAppender
	w   *bitio.Writer
}

// begin directs further output to the end of dst.
func (b *bitWriter) begin(dst []byte) {
	b.out.dst = dst
	if b.w == nil {
		b.w = bitio.NewWriter(&b.out)
	}
}

// writeBits writes the low nb bits of v.
func (b *bitWriter) writeBits(nb uint, v uint64) {
	if nb == 0 {
		return
	}
	if nb < 64 {
		v &= 1<<nb - 1
	}
	b.w.TryWriteBits(v, uint8(nb))
}

func (b *bitWriter) writeByte(c byte) {
	b.w.TryWriteByte(c)
}

// finish pads the last partial byte with zero bits and returns the output.
// The bitWriter can be reused after begin.
func (b *bitWriter) finish() []byte {
	b.w.TryAlign()
	if b.w.TryError != nil {
		// byteAppender never fails.
		panic(b.w.TryError)
	}
	b.w = nil
	dst := b.out.dst
	b.out.dst = nil
	return dst
}

// A bitReader reads values written by a bitWriter. It knows how many bits
// remain, so it never reads past the end of its input.
type bitReader struct {
	r         *bitio.Reader
	remaining uint
}

func newBitReader(src []byte) *bitReader {
	return &bitReader{
		r:         bitio.NewReader(bytes.NewReader(src)),
		remaining: 8 * uint(len(src)),
	}
}

// readBits reads nb bits, returning ErrTruncated without consuming anything
// if fewer than nb are left.
func (b *bitReader) readBits(nb uint) (uint64, error) {
	if nb == 0 {
		return 0, nil
	}
	if nb > b.remaining {
		return 0, ErrTruncated
	}
	v, err := b.r.ReadBits(uint8(nb))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	b.remaining -= nb
	return v, nil
}

func (b *bitReader) readBit() (bool, error) {
	if b.remaining == 0 {
		return false, ErrTruncated
	}
	v, err := b.r.ReadBool()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	b.remaining--
	return v, nil
}

func (b *bitReader) readByte() (byte, error) {
	v, err := b.readBits(8)
	return byte(v), err
}
