package smf

import "encoding/binary"

const (
	headerChunkSize = 14
	headerDataSize  = 6
	chunkHeaderSize = 8

	sevenBitMask  = 0x7F
	statusBit     = 0x80
	lowNibbleMask = 0x0F
)

var (
	headerMagic = [4]byte{'M', 'T', 'h', 'd'}
	trackMagic  = [4]byte{'M', 'T', 'r', 'k'}
)

// hasMagic reports whether buf holds magic at offset.
func hasMagic(buf []byte, offset int, magic [4]byte) bool {
	if offset < 0 || offset+len(magic) > len(buf) {
		return false
	}
	return [4]byte(buf[offset:offset+4]) == magic
}

// uint16At assembles a big-endian 16-bit value. The caller checks bounds.
func uint16At(buf []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(buf[offset:])
}

// uint32At assembles a big-endian 32-bit value. The caller checks bounds.
func uint32At(buf []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(buf[offset:])
}

// lowerSevenBits clears the top bit of a data byte.
func lowerSevenBits(b byte) byte {
	return b & sevenBitMask
}

// isRunningStatus reports whether b cannot start a message and must be read as
// a data byte under the previous status. The reserved codes 0xF4, 0xF5, 0xF7
// and 0xF9 are treated the same as data bytes.
func isRunningStatus(b byte) bool {
	switch {
	case b < statusBit:
		return true
	case b == 0xF4, b == 0xF5, b == 0xF7, b == 0xF9:
		return true
	}
	return false
}
