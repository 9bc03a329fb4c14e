package wjr

import (
	"bytes"
	"errors"
	"testing"
)

func TestGammaKnownCodes(t *testing.T) {
	for _, c := range []struct {
		v    uint64
		want []byte
	}{
		{1, []byte{0x00}},  // 0
		{2, []byte{0x80}},  // 100
		{3, []byte{0xa0}},  // 101
		{5, []byte{0xc8}},  // 11001
		{15, []byte{0xee}}, // 1110111
	} {
		var bw bitWriter
		bw.begin(nil)
		bw.writeGamma(c.v)
		if got := bw.finish(); !bytes.Equal(got, c.want) {
			t.Errorf("gamma(%d) = %08b, want %08b", c.v, got, c.want)
		}
	}
}

func TestDeltaKnownCodes(t *testing.T) {
	for _, c := range []struct {
		v    uint64
		want []byte
	}{
		{1, []byte{0x00}},        // 0
		{2, []byte{0x80}},        // 100 0
		{3, []byte{0x90}},        // 100 1
		{4, []byte{0xa0}},        // 101 00
		{29, []byte{0xce, 0x80}}, // 11001 1101
	} {
		var bw bitWriter
		bw.begin(nil)
		bw.writeDelta(c.v)
		if got := bw.finish(); !bytes.Equal(got, c.want) {
			t.Errorf("delta(%d) = %08b, want %08b", c.v, got, c.want)
		}
	}
}

func prefixTestValues() []uint64 {
	var values []uint64
	for v := uint64(1); v <= 4096; v++ {
		values = append(values, v)
	}
	for k := uint(12); k < 64; k++ {
		p := uint64(1) << k
		values = append(values, p-1, p, p+1)
	}
	return append(values, ^uint64(0))
}

func TestGammaInverse(t *testing.T) {
	values := prefixTestValues()
	var bw bitWriter
	bw.begin(nil)
	for _, v := range values {
		bw.writeGamma(v)
	}
	br := newBitReader(bw.finish())
	for _, v := range values {
		got, err := br.readGamma()
		if err != nil {
			t.Fatalf("reading gamma(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("got %d, want %d", got, v)
		}
	}
}

func TestDeltaInverse(t *testing.T) {
	values := prefixTestValues()
	var bw bitWriter
	bw.begin(nil)
	for _, v := range values {
		bw.writeDelta(v)
	}
	br := newBitReader(bw.finish())
	for _, v := range values {
		got, err := br.readDelta()
		if err != nil {
			t.Fatalf("reading delta(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("got %d, want %d", got, v)
		}
	}
}

func TestGammaCorrupt(t *testing.T) {
	br := newBitReader(bytes.Repeat([]byte{0xff}, 10))
	if _, err := br.readGamma(); !errors.Is(err, ErrCorruptCode) {
		t.Fatalf("got %v, want ErrCorruptCode", err)
	}
}

func TestGammaTruncated(t *testing.T) {
	br := newBitReader([]byte{0xfe})
	if _, err := br.readGamma(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}
