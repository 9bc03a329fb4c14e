package wjr

import "fmt"

// A Decoder reads the wjr bitstream written by TokenEncoder.
// The zero value reads the default format.
type Decoder struct {
	// WindowBits and RunThreshold must match the TokenEncoder's.
	WindowBits   int
	RunThreshold int

	// MaxOutput limits how many bytes Decode may produce (0 = no limit).
	MaxOutput int
}

// Decode appends the decompressed form of src to dst and returns it.
//
// If src doesn't start with the wjr marker, it is appended unchanged. If the
// stream ends in the middle of a token, the bytes up to the last complete
// token are returned along with ErrTruncated. A final partial byte with any
// bit set counts as such a token. Matches reach back only into
// the output of this call, never into the original contents of dst.
func (d *Decoder) Decode(dst, src []byte) ([]byte, error) {
	if !HasMagic(src) {
		return append(dst, src...), nil
	}
	windowBits := uint(clamp(d.WindowBits, DefaultWindowBits, minWindowBits, maxWindowBits))
	threshold := clamp(d.RunThreshold, DefaultRunThreshold, 1, DefaultMaxRun)

	base := len(dst)
	out := dst
	br := newBitReader(src[len(magic):])

	// grow checks that n more bytes fit under MaxOutput.
	grow := func(n int) error {
		if d.MaxOutput > 0 && len(out)-base+n > d.MaxOutput {
			return ErrOutputTooLarge
		}
		return nil
	}

	for br.remaining > 0 {
		mark := len(out)

		// Every token is at least 8 bits long, so a shorter tail is either
		// the zero padding after the last token or the start of a token cut
		// off at a byte boundary. Set bits mean the latter.
		if br.remaining < 8 {
			if pad, err := br.readBits(br.remaining); err != nil || pad != 0 {
				return out, ErrTruncated
			}
			break
		}

		v, err := br.readDelta()
		if err != nil {
			return out[:mark], err
		}

		switch {
		case v == codeLiteral:
			c, err := br.readByte()
			if err != nil {
				return out[:mark], err
			}
			if err := grow(1); err != nil {
				return out[:mark], err
			}
			out = append(out, c)

		case v == codeLiteralRun:
			extra, err := br.readDelta()
			if err != nil {
				return out[:mark], err
			}
			left := uint64(br.remaining / 8)
			if left < uint64(threshold) || extra > left-uint64(threshold) {
				return out[:mark], fmt.Errorf("%w: literal run of %d bytes with %d bytes left", ErrTruncated, extra+uint64(threshold), left)
			}
			n := int(extra) + threshold
			if err := grow(n); err != nil {
				return out[:mark], err
			}
			if debugDecoder {
				printf("literal run %d", n)
			}
			for i := 0; i < n; i++ {
				c, err := br.readByte()
				if err != nil {
					return out[:mark], err
				}
				out = append(out, c)
			}

		default:
			if v > MaxMatchLength {
				return out[:mark], fmt.Errorf("%w: match length %d", ErrCorruptCode, v)
			}
			length := int(v)
			offset, err := br.readBits(windowBits)
			if err != nil {
				return out[:mark], err
			}
			distance := int(offset) + 1
			if distance > len(out)-base {
				return nil, fmt.Errorf("%w: distance %d at position %d", ErrInvalidBackReference, distance, len(out)-base)
			}
			if err := grow(length); err != nil {
				return out[:mark], err
			}
			if debugDecoder {
				printf("match length=%d distance=%d", length, distance)
			}
			// Byte by byte, since the source may overlap what is being written.
			from := len(out) - distance
			for i := 0; i < length; i++ {
				out = append(out, out[from+i])
			}
		}
	}

	return out, nil
}
