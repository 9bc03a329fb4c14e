package wjr

// Wire format parameters. An Encoder and a Decoder must agree on WindowBits
// and RunThreshold; the defaults below are the wjr format as written by
// Compress.
const (
	// MinMatchLength is the shortest back-reference the format carries.
	MinMatchLength = 3

	// MaxMatchLength is the longest back-reference a single token carries.
	// Longer matches are split.
	MaxMatchLength = 1<<16 - 1

	DefaultWindowBits   = 13
	DefaultHashBits     = 14
	DefaultChainLimit   = 16
	DefaultRunThreshold = 8
	DefaultMaxRun       = 1<<16 - 1

	minWindowBits = 4
	maxWindowBits = 24
	minHashBits   = 8
	maxHashBits   = 24
)

// Token values. Any value above codeLiteralRun is a match length.
const (
	codeLiteral    = 1
	codeLiteralRun = 2
)

// fibMul is the 32-bit Fibonacci hashing multiplier, 2^32 / phi.
const fibMul = 2654435769

var magic = []byte("wjr")

// HasMagic reports whether src starts with the wjr format marker.
func HasMagic(src []byte) bool {
	return len(src) >= len(magic) &&
		src[0] == magic[0] && src[1] == magic[1] && src[2] == magic[2]
}

func clamp(v, def, lo, hi int) int {
	switch {
	case v == 0:
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
