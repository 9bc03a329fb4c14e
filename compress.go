package wjr

import "sync"

var hashChainPool = sync.Pool{
	New: func() any {
		return new(HashChain)
	},
}

// Compress returns the wjr compressed form of src, using the default
// parameters. It is safe to call from multiple goroutines.
func Compress(src []byte) []byte {
	q := hashChainPool.Get().(*HashChain)
	defer hashChainPool.Put(q)
	q.Reset()

	matches := q.FindMatches(nil, src)

	var e TokenEncoder
	dst := e.Header(make([]byte, 0, len(magic)+len(src)/2+8))
	return e.Encode(dst, src, matches, true)
}

// Decompress returns the decompressed form of src. Input without the wjr
// marker is returned unchanged. See Decoder.Decode for the errors it
// returns.
func Decompress(src []byte) ([]byte, error) {
	var d Decoder
	return d.Decode(nil, src)
}
