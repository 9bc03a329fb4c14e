package snappy

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/s2"
	"github.com/wjrlz/wjr"
)

func testData() []byte {
	rng := rand.New(rand.NewSource(1))
	words := strings.Fields("the of and to in that light colours rays glass prism refraction reflected")
	var b bytes.Buffer
	for b.Len() < 300000 {
		b.WriteString(words[rng.Intn(len(words))])
		b.WriteByte(' ')
		if rng.Intn(40) == 0 {
			b.WriteString("abcab")
		}
	}
	return b.Bytes()
}

func TestEncode(t *testing.T) {
	data := testData()
	compressed := Encode(data)
	sr := snappy.NewReader(bytes.NewReader(compressed))
	decompressed, err := ioutil.ReadAll(sr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("decompressed output doesn't match")
	}
}

func TestEncodeIncompressible(t *testing.T) {
	data := make([]byte, 100000)
	rand.New(rand.NewSource(2)).Read(data)
	compressed := Encode(data)
	decompressed, err := ioutil.ReadAll(snappy.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("decompressed output doesn't match")
	}
}

func TestAppendBlock(t *testing.T) {
	data := testData()[:MaxBlockSize]
	matches := new(wjr.HashChain).FindMatches(nil, data)
	block := AppendBlock(nil, data, matches)

	decompressed, err := snappy.Decode(nil, block)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("golang/snappy: decompressed output doesn't match")
	}

	decompressed, err = s2.Decode(nil, block)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("s2: decompressed output doesn't match")
	}
}

func TestAppendCopyShort(t *testing.T) {
	for _, s := range []string{"abcabc", "abcXabc", strings.Repeat("z", 200)} {
		data := []byte(s)
		matches := new(wjr.HashChain).FindMatches(nil, data)
		decompressed, err := snappy.Decode(nil, AppendBlock(nil, data, matches))
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if string(decompressed) != s {
			t.Fatalf("got %q, want %q", decompressed, s)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	data := testData()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ReportMetric(float64(len(data))/float64(len(Encode(data))), "ratio")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Encode(data)
	}
}

func BenchmarkEncodeGolangSnappy(b *testing.B) {
	data := testData()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	buf := new(bytes.Buffer)
	w := snappy.NewBufferedWriter(buf)
	w.Write(data)
	w.Close()
	b.ReportMetric(float64(len(data))/float64(buf.Len()), "ratio")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Reset(ioutil.Discard)
		w.Write(data)
		w.Close()
	}
}
