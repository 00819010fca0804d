package smf

import "fmt"

const (
	// MaxVLQBytes is the longest variable-length quantity a MIDI file may hold.
	MaxVLQBytes = 4
	// MaxVLQ is the largest value that fits in MaxVLQBytes.
	MaxVLQ = 1<<(7*MaxVLQBytes) - 1
)

// DecodeVLQ reads a variable-length quantity starting at offset.
//
// Each byte contributes its low seven bits, most significant group first; a
// set top bit means another byte follows. It returns the value and the offset
// just past the last byte read.
func DecodeVLQ(buf []byte, offset int) (uint32, int, error) {
	var value uint32
	for i := 0; i < MaxVLQBytes; i++ {
		pos := offset + i
		if pos < 0 || pos >= len(buf) {
			return 0, offset, newDecodeError("vlq", offset,
				fmt.Errorf("%w: ran out of data after %d bytes", ErrMalformedVLQ, i))
		}
		b := buf[pos]
		value = value<<7 | uint32(lowerSevenBits(b))
		if b&statusBit == 0 {
			return value, pos + 1, nil
		}
	}
	return 0, offset, newDecodeError("vlq", offset,
		fmt.Errorf("%w: longer than %d bytes", ErrMalformedVLQ, MaxVLQBytes))
}
