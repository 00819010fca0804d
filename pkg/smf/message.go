package smf

import "fmt"

// Kind identifies a Message variant.
type Kind uint8

const (
	KindInvalidStatus Kind = iota
	KindNoteOff
	KindNoteOn
	KindAftertouch
	KindControlChange
	KindProgramChange
	KindChannelPressure
	KindPitchWheel
	KindSystemExclusive
	KindMidiTimeCode
	KindSongPositionPointer
	KindSongSelect
	KindTuneRequest
	KindMidiClock
	KindMidiStart
	KindMidiContinue
	KindMidiStop
	KindActiveSense
	KindReset
	kindCount
)

// invalidStatus is the status byte reported for InvalidStatus. 0xFD is
// undefined in the MIDI standard, so no real message maps to it.
const invalidStatus byte = 0xFD

// kindInfo is the dispatch table row for one variant. For channel messages
// status holds only the high nibble.
type kindInfo struct {
	name      string
	status    byte
	channel   bool
	dataBytes int
	supported bool
}

var kinds = [kindCount]kindInfo{
	KindInvalidStatus: {name: "InvalidStatus", status: invalidStatus},

	KindNoteOff:         {name: "NoteOff", status: 0x80, channel: true, dataBytes: 2, supported: true},
	KindNoteOn:          {name: "NoteOn", status: 0x90, channel: true, dataBytes: 2, supported: true},
	KindAftertouch:      {name: "Aftertouch", status: 0xA0, channel: true, dataBytes: 2, supported: true},
	KindControlChange:   {name: "ControlChange", status: 0xB0, channel: true, dataBytes: 2, supported: true},
	KindProgramChange:   {name: "ProgramChange", status: 0xC0, channel: true, dataBytes: 1, supported: true},
	KindChannelPressure: {name: "ChannelPressure", status: 0xD0, channel: true, dataBytes: 1, supported: true},
	KindPitchWheel:      {name: "PitchWheel", status: 0xE0, channel: true, dataBytes: 2, supported: true},

	// The body length of a System Exclusive message cannot be known here.
	KindSystemExclusive:     {name: "SystemExclusive", status: 0xF0},
	KindMidiTimeCode:        {name: "MidiTimeCode", status: 0xF1, dataBytes: 2, supported: true},
	KindSongPositionPointer: {name: "SongPositionPointer", status: 0xF2, dataBytes: 2, supported: true},
	KindSongSelect:          {name: "SongSelect", status: 0xF3, dataBytes: 1, supported: true},
	KindTuneRequest:         {name: "TuneRequest", status: 0xF6, supported: true},
	KindMidiClock:           {name: "MidiClock", status: 0xF8, supported: true},
	KindMidiStart:           {name: "MidiStart", status: 0xFA, supported: true},
	KindMidiContinue:        {name: "MidiContinue", status: 0xFB, supported: true},
	KindMidiStop:            {name: "MidiStop", status: 0xFC, supported: true},
	KindActiveSense:         {name: "ActiveSense", status: 0xFE, supported: true},
	KindReset:               {name: "Reset", status: 0xFF, supported: true},
}

// statusKinds maps every status byte to its variant. Unmapped bytes stay
// KindInvalidStatus.
var statusKinds [256]Kind

func init() {
	for k := KindInvalidStatus + 1; k < kindCount; k++ {
		info := kinds[k]
		if !info.channel {
			statusKinds[info.status] = k
			continue
		}
		for ch := byte(0); ch <= lowNibbleMask; ch++ {
			statusKinds[info.status|ch] = k
		}
	}
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kinds[k].name
}

// HasChannel reports whether messages of this kind carry a channel number.
func (k Kind) HasChannel() bool {
	return k < kindCount && kinds[k].channel
}

// Message is a decoded MIDI message. The set of implementations is closed;
// switch on the concrete type or on Kind.
type Message interface {
	Kind() Kind
	String() string
	message()
}

// channeled is implemented by the channel voice variants.
type channeled interface {
	channel() uint8
}

// NoteOff releases a note.
type NoteOff struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// NoteOn starts a note.
type NoteOn struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// Aftertouch is polyphonic key pressure applied to a sounding note.
type Aftertouch struct {
	Channel  uint8
	Key      uint8
	Pressure uint8
}

// ControlChange moves a controller such as a slider, knob or switch.
type ControlChange struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

// ProgramChange assigns a program (instrument, patch) to a channel.
type ProgramChange struct {
	Channel uint8
	Program uint8
}

// ChannelPressure applies pressure to the whole channel.
type ChannelPressure struct {
	Channel  uint8
	Pressure uint8
}

// PitchWheel bends the pitch of a channel.
type PitchWheel struct {
	Channel uint8
	LSB     uint8
	MSB     uint8
}

// Value combines LSB and MSB into the 14-bit wheel position; 0x2000 is centre.
func (m PitchWheel) Value() uint16 {
	return uint16(m.MSB)<<7 | uint16(m.LSB)
}

// SystemExclusive is never produced by DecodeMessage; it exists so the kind
// has a type.
type SystemExclusive struct{}

// MidiTimeCode is a time code quarter frame.
type MidiTimeCode struct {
	MessageType uint8
	Values      uint8
}

// SongPositionPointer cues the sequence to a position.
type SongPositionPointer struct {
	LSB uint8
	MSB uint8
}

// Beats combines LSB and MSB into the 14-bit position, in sixteenth notes.
func (m SongPositionPointer) Beats() uint16 {
	return uint16(m.MSB)<<7 | uint16(m.LSB)
}

// SongSelect picks a sequence for playback.
type SongSelect struct {
	Song uint8
}

type (
	TuneRequest  struct{}
	MidiClock    struct{}
	MidiStart    struct{}
	MidiContinue struct{}
	MidiStop     struct{}
	ActiveSense  struct{}
	Reset        struct{}
)

// InvalidStatus stands for a status byte that maps to no message. DecodeMessage
// reports ErrUnrecognizedStatus instead of returning it.
type InvalidStatus struct{}

func (NoteOff) Kind() Kind             { return KindNoteOff }
func (NoteOn) Kind() Kind              { return KindNoteOn }
func (Aftertouch) Kind() Kind          { return KindAftertouch }
func (ControlChange) Kind() Kind       { return KindControlChange }
func (ProgramChange) Kind() Kind       { return KindProgramChange }
func (ChannelPressure) Kind() Kind     { return KindChannelPressure }
func (PitchWheel) Kind() Kind          { return KindPitchWheel }
func (SystemExclusive) Kind() Kind     { return KindSystemExclusive }
func (MidiTimeCode) Kind() Kind        { return KindMidiTimeCode }
func (SongPositionPointer) Kind() Kind { return KindSongPositionPointer }
func (SongSelect) Kind() Kind          { return KindSongSelect }
func (TuneRequest) Kind() Kind         { return KindTuneRequest }
func (MidiClock) Kind() Kind           { return KindMidiClock }
func (MidiStart) Kind() Kind           { return KindMidiStart }
func (MidiContinue) Kind() Kind        { return KindMidiContinue }
func (MidiStop) Kind() Kind            { return KindMidiStop }
func (ActiveSense) Kind() Kind         { return KindActiveSense }
func (Reset) Kind() Kind               { return KindReset }
func (InvalidStatus) Kind() Kind       { return KindInvalidStatus }

func (NoteOff) message()             {}
func (NoteOn) message()              {}
func (Aftertouch) message()          {}
func (ControlChange) message()       {}
func (ProgramChange) message()       {}
func (ChannelPressure) message()     {}
func (PitchWheel) message()          {}
func (SystemExclusive) message()     {}
func (MidiTimeCode) message()        {}
func (SongPositionPointer) message() {}
func (SongSelect) message()          {}
func (TuneRequest) message()         {}
func (MidiClock) message()           {}
func (MidiStart) message()           {}
func (MidiContinue) message()        {}
func (MidiStop) message()            {}
func (ActiveSense) message()         {}
func (Reset) message()               {}
func (InvalidStatus) message()       {}

func (m NoteOff) channel() uint8         { return m.Channel }
func (m NoteOn) channel() uint8          { return m.Channel }
func (m Aftertouch) channel() uint8      { return m.Channel }
func (m ControlChange) channel() uint8   { return m.Channel }
func (m ProgramChange) channel() uint8   { return m.Channel }
func (m ChannelPressure) channel() uint8 { return m.Channel }
func (m PitchWheel) channel() uint8      { return m.Channel }

func (m NoteOff) String() string {
	return fmt.Sprintf("NoteOff -- channel: %d, key: %d, velocity: %d", m.Channel, m.Key, m.Velocity)
}

func (m NoteOn) String() string {
	return fmt.Sprintf("NoteOn -- channel: %d, key: %d, velocity: %d", m.Channel, m.Key, m.Velocity)
}

func (m Aftertouch) String() string {
	return fmt.Sprintf("Aftertouch -- channel: %d, key: %d, pressure: %d", m.Channel, m.Key, m.Pressure)
}

func (m ControlChange) String() string {
	return fmt.Sprintf("ControlChange -- channel: %d, controller: %d, value: %d", m.Channel, m.Controller, m.Value)
}

func (m ProgramChange) String() string {
	return fmt.Sprintf("ProgramChange -- channel: %d, program: %d", m.Channel, m.Program)
}

func (m ChannelPressure) String() string {
	return fmt.Sprintf("ChannelPressure -- channel: %d, pressure: %d", m.Channel, m.Pressure)
}

func (m PitchWheel) String() string {
	return fmt.Sprintf("PitchWheel -- channel: %d, lsb: %d, msb: %d", m.Channel, m.LSB, m.MSB)
}

func (m MidiTimeCode) String() string {
	return fmt.Sprintf("MidiTimeCode -- message type: %d, values: %d", m.MessageType, m.Values)
}

func (m SongPositionPointer) String() string {
	return fmt.Sprintf("SongPositionPointer -- lsb: %d, msb: %d", m.LSB, m.MSB)
}

func (m SongSelect) String() string {
	return fmt.Sprintf("SongSelect -- song: %d", m.Song)
}

func (SystemExclusive) String() string { return KindSystemExclusive.String() }
func (TuneRequest) String() string     { return KindTuneRequest.String() }
func (MidiClock) String() string       { return KindMidiClock.String() }
func (MidiStart) String() string       { return KindMidiStart.String() }
func (MidiContinue) String() string    { return KindMidiContinue.String() }
func (MidiStop) String() string        { return KindMidiStop.String() }
func (ActiveSense) String() string     { return KindActiveSense.String() }
func (Reset) String() string           { return KindReset.String() }
func (InvalidStatus) String() string   { return KindInvalidStatus.String() }

// newMessage builds the variant for kind from the channel and masked data bytes.
func newMessage(kind Kind, ch byte, data [2]byte) Message {
	switch kind {
	case KindNoteOff:
		return NoteOff{Channel: ch, Key: data[0], Velocity: data[1]}
	case KindNoteOn:
		return NoteOn{Channel: ch, Key: data[0], Velocity: data[1]}
	case KindAftertouch:
		return Aftertouch{Channel: ch, Key: data[0], Pressure: data[1]}
	case KindControlChange:
		return ControlChange{Channel: ch, Controller: data[0], Value: data[1]}
	case KindProgramChange:
		return ProgramChange{Channel: ch, Program: data[0]}
	case KindChannelPressure:
		return ChannelPressure{Channel: ch, Pressure: data[0]}
	case KindPitchWheel:
		return PitchWheel{Channel: ch, LSB: data[0], MSB: data[1]}
	case KindSystemExclusive:
		return SystemExclusive{}
	case KindMidiTimeCode:
		return MidiTimeCode{MessageType: data[0], Values: data[1]}
	case KindSongPositionPointer:
		return SongPositionPointer{LSB: data[0], MSB: data[1]}
	case KindSongSelect:
		return SongSelect{Song: data[0]}
	case KindTuneRequest:
		return TuneRequest{}
	case KindMidiClock:
		return MidiClock{}
	case KindMidiStart:
		return MidiStart{}
	case KindMidiContinue:
		return MidiContinue{}
	case KindMidiStop:
		return MidiStop{}
	case KindActiveSense:
		return ActiveSense{}
	case KindReset:
		return Reset{}
	}
	return InvalidStatus{}
}

// StatusByte returns the status byte that governs m. It is the inverse of the
// dispatch in DecodeMessage and is what the track decoder carries as running
// status.
func StatusByte(m Message) byte {
	if m == nil {
		return invalidStatus
	}
	kind := m.Kind()
	if kind >= kindCount {
		return invalidStatus
	}
	info := kinds[kind]
	if c, ok := m.(channeled); ok && info.channel {
		return info.status | c.channel()&lowNibbleMask
	}
	return info.status
}

// DecodeMessage decodes one message at offset.
//
// If the byte at offset is a data byte (or one of the reserved codes 0xF4,
// 0xF5, 0xF7, 0xF9) the message reuses lastStatus and the byte is read as
// data. Data bytes are masked to seven bits. It returns the message and the
// offset just past its last data byte.
func DecodeMessage(buf []byte, offset int, lastStatus byte) (Message, int, error) {
	if offset < 0 || offset >= len(buf) {
		return nil, offset, newDecodeError("message", offset,
			fmt.Errorf("%w: no status byte", ErrTruncated))
	}

	status, pos := lastStatus, offset
	if !isRunningStatus(buf[offset]) {
		status = buf[offset]
		pos++
	}

	kind := statusKinds[status]
	info := kinds[kind]
	switch {
	case kind == KindInvalidStatus:
		return nil, offset, newDecodeError("message", offset,
			fmt.Errorf("%w: 0x%02X", ErrUnrecognizedStatus, status))
	case !info.supported:
		return nil, offset, newDecodeError("message", offset,
			fmt.Errorf("%w: %s (0x%02X)", ErrUnsupportedMessage, info.name, status))
	}

	if pos+info.dataBytes > len(buf) {
		return nil, offset, newDecodeError("message", offset,
			fmt.Errorf("%w: %s needs %d data bytes", ErrTruncated, info.name, info.dataBytes))
	}
	var data [2]byte
	for i := 0; i < info.dataBytes; i++ {
		data[i] = lowerSevenBits(buf[pos+i])
	}

	return newMessage(kind, status&lowNibbleMask, data), pos + info.dataBytes, nil
}
