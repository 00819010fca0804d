package smf

import "fmt"

// Format is the file organisation declared in the header.
type Format uint16

const (
	// SingleTrack files hold one track.
	SingleTrack Format = 1
	// MultipleSynchronous files hold several tracks played together.
	MultipleSynchronous Format = 2
	// MultipleAsynchronous files hold several independent tracks.
	MultipleAsynchronous Format = 3
)

// Valid reports whether f is one of the three known format codes.
func (f Format) Valid() bool {
	return f >= SingleTrack && f <= MultipleAsynchronous
}

func (f Format) String() string {
	switch f {
	case SingleTrack:
		return "Single track"
	case MultipleSynchronous:
		return "Multiple tracks, synchronous"
	case MultipleAsynchronous:
		return "Multiple tracks, asynchronous"
	}
	return fmt.Sprintf("Format(%d)", uint16(f))
}

// Header is the decoded MThd chunk.
type Header struct {
	Format              Format
	TrackCount          uint16
	TicksPerQuarterNote uint16
}

// DecodeHeader parses the 14-byte header chunk at the start of buf.
//
// The chunk must read "MThd", declare a length of exactly 6 and carry a known
// format code. Anything else fails with ErrMalformedHeader.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < headerChunkSize {
		return Header{}, newDecodeError("header", 0,
			fmt.Errorf("%w: need %d bytes, have %d", ErrMalformedHeader, headerChunkSize, len(buf)))
	}
	if !hasMagic(buf, 0, headerMagic) {
		return Header{}, newDecodeError("header", 0,
			fmt.Errorf("%w: bad magic %q", ErrMalformedHeader, buf[0:4]))
	}
	if size := uint32At(buf, 4); size != headerDataSize {
		return Header{}, newDecodeError("header", 4,
			fmt.Errorf("%w: expected length %d, found %d", ErrMalformedHeader, headerDataSize, size))
	}

	format := Format(uint16At(buf, 8))
	if !format.Valid() {
		return Header{}, newDecodeError("header", 8,
			fmt.Errorf("%w: unknown format %d", ErrMalformedHeader, uint16(format)))
	}

	return Header{
		Format:              format,
		TrackCount:          uint16At(buf, 10),
		TicksPerQuarterNote: uint16At(buf, 12),
	}, nil
}
