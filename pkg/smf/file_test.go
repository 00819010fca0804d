package smf

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	buf := midiFile(2, 96,
		trackChunk(0x00, 0xC0, 0x05, 0x60, 0x90, 0x3C, 0x64),
		trackChunk(0x00, 0x99, 0x24, 0x7F, 0x83, 0x60, 0x24, 0x00),
		trackChunk(),
	)

	file, err := Decode(buf)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Equal(t, Header{Format: MultipleSynchronous, TrackCount: 3, TicksPerQuarterNote: 96}, file.Header)
	require.Len(t, file.Tracks, 3)

	assert.Equal(t, Track{ByteLength: 7, Events: []Event{
		{DeltaTime: 0, Message: ProgramChange{Channel: 0, Program: 5}},
		{DeltaTime: 96, Message: NoteOn{Channel: 0, Key: 60, Velocity: 100}},
	}}, file.Tracks[0])
	assert.Equal(t, Track{ByteLength: 8, Events: []Event{
		{DeltaTime: 0, Message: NoteOn{Channel: 9, Key: 36, Velocity: 127}},
		{DeltaTime: 480, Message: NoteOn{Channel: 9, Key: 36, Velocity: 0}},
	}}, file.Tracks[1])
	assert.Equal(t, uint32(0), file.Tracks[2].ByteLength)
	assert.Empty(t, file.Tracks[2].Events)
}

func TestDecode_RunningStatusDoesNotCrossTracks(t *testing.T) {
	buf := midiFile(2, 96,
		trackChunk(0x00, 0x90, 0x3C, 0x64),
		trackChunk(0x00, 0x3C, 0x00),
	)

	file, err := Decode(buf)
	require.ErrorIs(t, err, ErrUnrecognizedStatus)
	assert.Nil(t, file)
}

func TestDecode_NoTracks(t *testing.T) {
	file, err := Decode(midiFile(1, 480))
	require.NoError(t, err)
	assert.Empty(t, file.Tracks)
	assert.Equal(t, uint16(0), file.Header.TrackCount)
}

func TestDecode_Failures(t *testing.T) {
	valid := trackChunk(0x00, 0x90, 0x3C, 0x64)
	sysex := trackChunk(0x00, 0xF0, 0x7E, 0x7F)

	tests := []struct {
		name  string
		buf   []byte
		want  error
		track int
	}{
		{
			name:  "bad header",
			buf:   append([]byte{'M', 'T', 'h', 'd', 0, 0, 0, 7}, make([]byte, 10)...),
			want:  ErrMalformedHeader,
			track: -1,
		},
		{
			name:  "second chunk is not a track",
			buf:   concat(headerChunk(1, 2, 96), valid, []byte{'X', 'Y', 'Z', 'W', 0, 0, 0, 0}),
			want:  ErrMalformedTrackHeader,
			track: 1,
		},
		{
			name:  "fewer tracks than declared",
			buf:   concat(headerChunk(1, 2, 96), valid),
			want:  ErrMalformedTrackHeader,
			track: 1,
		},
		{
			name:  "system exclusive in last track",
			buf:   midiFile(2, 96, valid, valid, sysex),
			want:  ErrUnsupportedMessage,
			track: 2,
		},
		{
			name:  "first failing track wins",
			buf:   concat(headerChunk(2, 3, 96), valid, sysex, []byte{'B', 'A', 'D', '!', 0, 0, 0, 0}),
			want:  ErrUnsupportedMessage,
			track: 1,
		},
	}

	for _, tt := range tests {
		for _, parallelism := range []int{0, 4} {
			t.Run(tt.name, func(t *testing.T) {
				d := Decoder{Parallelism: parallelism}
				file, err := d.Decode(tt.buf)
				require.ErrorIs(t, err, tt.want)
				assert.Nil(t, file, "no partial file may be returned")

				var de *DecodeError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.track, de.Track)
			})
		}
	}
}

func TestDecoder_ParallelMatchesSequential(t *testing.T) {
	buf := midiFile(3, 240,
		trackChunk(0x00, 0xB0, 0x07, 0x64, 0x00, 0x0A, 0x40),
		trackChunk(0x10, 0xE1, 0x00, 0x40, 0x10, 0x7F, 0x7F),
		trackChunk(0x00, 0xF8, 0x60, 0xFA, 0x60, 0xFC),
		trackChunk(0x00, 0xF2, 0x10, 0x01, 0x00, 0xF3, 0x02, 0x00, 0xFE),
	)

	sequential, err := Decode(buf)
	require.NoError(t, err)

	d := Decoder{Parallelism: 3}
	parallel, err := d.Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestDecoder_Logging(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	d := Decoder{Logger: logger}
	_, err := d.Decode(midiFile(1, 96, trackChunk(0x00, 0xFF)))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "track decoded")
	assert.Contains(t, out.String(), "events=1")

	out.Reset()
	_, err = d.Decode(midiFile(1, 96, trackChunk(0x00, 0xF0)))
	require.Error(t, err)
	assert.Contains(t, out.String(), "track decode failed")
	assert.Contains(t, out.String(), "level=WARN")
}

func TestDecodeError_Message(t *testing.T) {
	_, err := Decode(midiFile(1, 96, trackChunk(0x00, 0xF0)))
	require.Error(t, err)
	assert.Equal(t,
		"smf: message at offset 23 (track 0): unsupported MIDI message: SystemExclusive (0xF0)",
		err.Error())
}

// genTrackPayload builds a valid event stream of note and controller
// messages, some of which rely on running status.
func genTrackPayload() gopter.Gen {
	return gen.SliceOf(gen.UInt32Range(0, MaxVLQ)).Map(func(deltas []uint32) []byte {
		var payload []byte
		for i, delta := range deltas {
			payload = append(payload, encodeVLQ(delta)...)
			switch {
			case i%3 == 2:
				// running status
				payload = append(payload, byte(delta&0x7F), byte(i&0x7F))
			case i%2 == 0:
				payload = append(payload, 0x90|byte(i&0x0F), byte(delta&0x7F), 0x40)
			default:
				payload = append(payload, 0xB0|byte(i&0x0F), 0x07, byte(delta&0x7F))
			}
		}
		return payload
	})
}

func TestProperty_ParallelDecodeMatchesSequential(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("parallel decoding returns the same file in the same order", prop.ForAll(
		func(payloads [][]byte, parallelism int) bool {
			chunks := make([][]byte, len(payloads))
			for i, p := range payloads {
				chunks[i] = trackChunk(p...)
			}
			buf := midiFile(3, 480, chunks...)

			sequential, err := Decode(buf)
			if err != nil {
				return false
			}
			d := Decoder{Parallelism: parallelism}
			parallel, err := d.Decode(buf)
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(sequential, parallel)
		},
		gen.SliceOfN(6, genTrackPayload()),
		gen.IntRange(2, 8),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
