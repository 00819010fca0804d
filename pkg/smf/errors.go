package smf

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader is returned when the MThd chunk has bad magic, a
	// length other than 6, or an unknown format code.
	ErrMalformedHeader = errors.New("malformed MIDI header")

	// ErrMalformedTrackHeader is returned when a track chunk does not start with MTrk.
	ErrMalformedTrackHeader = errors.New("malformed track header")

	// ErrMalformedVLQ is returned when a variable-length quantity needs a fifth
	// byte or runs past the end of the data.
	ErrMalformedVLQ = errors.New("malformed variable-length quantity")

	// ErrUnsupportedMessage is returned for messages the decoder recognizes but
	// declines to decode (System Exclusive).
	ErrUnsupportedMessage = errors.New("unsupported MIDI message")

	// ErrUnrecognizedStatus is returned when a status byte maps to no known message.
	ErrUnrecognizedStatus = errors.New("unrecognized status byte")

	// ErrTruncated is returned when a message's data bytes lie past the end of the data.
	ErrTruncated = errors.New("unexpected end of MIDI data")
)

// DecodeError describes where decoding stopped. It wraps one of the sentinel
// errors above, so callers can test it with errors.Is.
type DecodeError struct {
	// Op is the decoding step that failed: "header", "track", "vlq" or "message".
	Op string

	// Track is the zero-based track index, or -1 outside of a track.
	Track int

	// Offset is the buffer offset at which the failing step started.
	Offset int

	// Err is the underlying sentinel, optionally wrapped with detail.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Track >= 0 {
		return fmt.Sprintf("smf: %s at offset %d (track %d): %v", e.Op, e.Offset, e.Track, e.Err)
	}
	return fmt.Sprintf("smf: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(op string, offset int, err error) *DecodeError {
	return &DecodeError{Op: op, Track: -1, Offset: offset, Err: err}
}

// withTrack tags err with a track index. Errors that already carry one are
// left alone.
func withTrack(err error, track int) error {
	var de *DecodeError
	if errors.As(err, &de) {
		if de.Track < 0 {
			tagged := *de
			tagged.Track = track
			return &tagged
		}
		return err
	}
	return &DecodeError{Op: "track", Track: track, Err: err}
}
