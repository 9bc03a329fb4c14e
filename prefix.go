package wjr

import (
	"fmt"
	"math/bits"
)

// Elias gamma and delta codes for positive integers. Zero has no code;
// callers that need it bias their values by one.

// writeGamma writes v as k one bits, a zero bit, and the low k bits of v,
// where k = floor(log2(v)).
func (b *bitWriter) writeGamma(v uint64) {
	if v == 0 {
		panic("wjr: gamma code of 0")
	}
	k := uint(bits.Len64(v)) - 1
	b.writeBits(k+1, (1<<k-1)<<1)
	b.writeBits(k, v-1<<k)
}

// writeDelta writes v as the gamma code of k+1 followed by the low k bits of
// v, where k = floor(log2(v)).
func (b *bitWriter) writeDelta(v uint64) {
	if v == 0 {
		panic("wjr: delta code of 0")
	}
	k := uint(bits.Len64(v)) - 1
	b.writeGamma(uint64(k) + 1)
	b.writeBits(k, v-1<<k)
}

func (b *bitReader) readGamma() (uint64, error) {
	var k uint
	for {
		one, err := b.readBit()
		if err != nil {
			return 0, err
		}
		if !one {
			break
		}
		k++
		if k > 63 {
			return 0, fmt.Errorf("%w: gamma prefix longer than 63 bits", ErrCorruptCode)
		}
	}
	low, err := b.readBits(k)
	if err != nil {
		return 0, err
	}
	return 1<<k | low, nil
}

func (b *bitReader) readDelta() (uint64, error) {
	n, err := b.readGamma()
	if err != nil {
		return 0, err
	}
	if n > 64 {
		return 0, fmt.Errorf("%w: delta length %d", ErrCorruptCode, n)
	}
	k := uint(n - 1)
	low, err := b.readBits(k)
	if err != nil {
		return 0, err
	}
	return 1<<k | low, nil
}
