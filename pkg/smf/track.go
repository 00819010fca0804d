package smf

import "fmt"

// Event is a message with the number of ticks since the previous event in the
// same track.
type Event struct {
	DeltaTime uint32
	Message   Message
}

// Track is a decoded MTrk chunk. ByteLength is the payload size declared in
// the chunk header.
type Track struct {
	ByteLength uint32
	Events     []Event
}

// trackContext carries the read position and running status from one event
// to the next. It is passed by value.
type trackContext struct {
	offset     int
	lastStatus byte
}

// chunk is the location of a track chunk inside the file buffer.
type chunk struct {
	start  int
	length uint32
}

// dataStart is the offset of the first event.
func (c chunk) dataStart() int {
	return c.start + chunkHeaderSize
}

// end is the offset just past the declared payload.
func (c chunk) end() int {
	return c.dataStart() + int(c.length)
}

// readChunkHeader validates the MTrk magic at offset and reads the payload length.
func readChunkHeader(buf []byte, offset int) (chunk, error) {
	if offset < 0 || offset+chunkHeaderSize > len(buf) {
		return chunk{}, newDecodeError("track", offset,
			fmt.Errorf("%w: chunk header past end of data", ErrMalformedTrackHeader))
	}
	if !hasMagic(buf, offset, trackMagic) {
		return chunk{}, newDecodeError("track", offset,
			fmt.Errorf("%w: bad magic %q", ErrMalformedTrackHeader, buf[offset:offset+4]))
	}
	return chunk{start: offset, length: uint32At(buf, offset+4)}, nil
}

// DecodeTrack decodes the track chunk that starts at offset.
//
// Events are read until the declared payload length is used up. Running
// status starts out empty, so a track whose first event omits its status byte
// fails. Any failure discards the whole track.
func DecodeTrack(buf []byte, offset int) (Track, error) {
	c, err := readChunkHeader(buf, offset)
	if err != nil {
		return Track{}, err
	}
	return decodeEvents(buf, c)
}

func decodeEvents(buf []byte, c chunk) (Track, error) {
	var events []Event
	ctx := trackContext{offset: c.dataStart()}
	end := c.end()

	for ctx.offset < end {
		var (
			ev  Event
			err error
		)
		ev, ctx, err = decodeEvent(buf, ctx)
		if err != nil {
			return Track{}, err
		}
		events = append(events, ev)
	}

	return Track{ByteLength: c.length, Events: events}, nil
}

// decodeEvent reads one delta time and message and returns the context for
// the next event.
func decodeEvent(buf []byte, ctx trackContext) (Event, trackContext, error) {
	delta, next, err := DecodeVLQ(buf, ctx.offset)
	if err != nil {
		return Event{}, ctx, err
	}
	msg, next, err := DecodeMessage(buf, next, ctx.lastStatus)
	if err != nil {
		return Event{}, ctx, err
	}
	return Event{DeltaTime: delta, Message: msg},
		trackContext{offset: next, lastStatus: StatusByte(msg)}, nil
}
