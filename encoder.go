package wjr

// TokenEncoder implements the Encoder interface, writing the wjr bitstream.
//
// Each token starts with a delta-coded value v:
//
//	v == 1: one literal byte follows
//	v == 2: a literal run; delta(n - RunThreshold) and n raw bytes follow
//	v >= 3: a match of length v; WindowBits bits of distance-1 follow
//
// The zero value writes the default format.
type TokenEncoder struct {
	// WindowBits is the width of the offset field. It must match the
	// HashChain that produced the matches, and the Decoder. The default is
	// 13.
	WindowBits int

	// RunThreshold is the longest stretch of literals written one token per
	// byte. Longer stretches become literal runs. The default is 8.
	RunThreshold int

	// MaxRun is the longest literal run a single token carries.
	// The default is 65535.
	MaxRun int

	bw      bitWriter
	started bool
	written int // bytes of input encoded in earlier calls
}

func (e *TokenEncoder) Reset() {
	e.bw = bitWriter{}
	e.started = false
	e.written = 0
}

func (e *TokenEncoder) init() {
	e.WindowBits = clamp(e.WindowBits, DefaultWindowBits, minWindowBits, maxWindowBits)
	e.RunThreshold = clamp(e.RunThreshold, DefaultRunThreshold, 1, DefaultMaxRun)
	e.MaxRun = clamp(e.MaxRun, DefaultMaxRun, e.RunThreshold+1, 1<<30)
}

// Header appends the wjr format marker to dst.
func (e *TokenEncoder) Header(dst []byte) []byte {
	return append(dst, magic...)
}

// Encode appends the tokens for src to dst. A stream may be encoded in
// several calls; the final partial byte is padded with zero bits only when
// lastBlock is set.
func (e *TokenEncoder) Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte {
	if !e.started {
		e.init()
		e.started = true
	}
	e.bw.begin(dst)

	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			e.emitLiterals(src[pos : pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			e.emitMatch(src[pos:pos+m.Length], m.Distance, e.written+pos)
			pos += m.Length
		}
	}
	if pos < len(src) {
		e.emitLiterals(src[pos:])
	}

	e.written += len(src)
	if !lastBlock {
		dst = e.bw.out.dst
		e.bw.out.dst = nil
		return dst
	}
	e.started = false
	e.written = 0
	return e.bw.finish()
}

// emitLiterals writes lits as single literals or as runs of at most MaxRun
// bytes.
func (e *TokenEncoder) emitLiterals(lits []byte) {
	for len(lits) > 0 {
		n := len(lits)
		if n > e.MaxRun {
			n = e.MaxRun
		}
		if n <= e.RunThreshold {
			for _, c := range lits[:n] {
				e.bw.writeDelta(codeLiteral)
				e.bw.writeByte(c)
			}
		} else {
			if debugEncoder {
				printf("literal run %d", n)
			}
			e.bw.writeDelta(codeLiteralRun)
			e.bw.writeDelta(uint64(n - e.RunThreshold))
			for _, c := range lits[:n] {
				e.bw.writeByte(c)
			}
		}
		lits = lits[n:]
	}
}

// emitMatch writes a copy of len(data) bytes from distance bytes back, with
// pos bytes of the stream before it. Matches the offset field can't reach
// are written as literals, and matches longer than MaxMatchLength are split.
func (e *TokenEncoder) emitMatch(data []byte, distance, pos int) {
	length := len(data)
	if distance < 1 || distance > 1<<e.WindowBits || distance > pos || length < MinMatchLength {
		e.emitLiterals(data)
		return
	}
	for length > 0 {
		n := length
		if n > MaxMatchLength {
			n = MaxMatchLength
			if length-n < MinMatchLength {
				n = length - MinMatchLength
			}
		}
		if debugEncoder {
			printf("match length=%d distance=%d", n, distance)
		}
		e.bw.writeDelta(uint64(n))
		e.bw.writeBits(uint(e.WindowBits), uint64(distance-1))
		length -= n
	}
}
