package wjr

import "errors"

// Sentinel errors for decompression.
var (
	// ErrTruncated is returned when the bitstream ends in the middle of a
	// token. The bytes decoded up to the last complete token are returned
	// along with it.
	ErrTruncated = errors.New("wjr: stream truncated")

	// ErrInvalidBackReference is returned when a match refers to data before
	// the start of the output.
	ErrInvalidBackReference = errors.New("wjr: back-reference before start of output")

	// ErrCorruptCode is returned when a prefix code or token value cannot
	// occur in a valid stream.
	ErrCorruptCode = errors.New("wjr: corrupt prefix code")

	// ErrOutputTooLarge is returned when decoding would exceed
	// Decoder.MaxOutput.
	ErrOutputTooLarge = errors.New("wjr: output exceeds MaxOutput")
)
