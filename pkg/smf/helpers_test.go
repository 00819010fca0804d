package smf

import "encoding/binary"

// encodeVLQ is the inverse of DecodeVLQ, used to build test input.
func encodeVLQ(v uint32) []byte {
	out := []byte{byte(v & sevenBitMask)}
	for v >>= 7; v > 0; v >>= 7 {
		out = append([]byte{byte(v&sevenBitMask) | statusBit}, out...)
	}
	return out
}

func headerChunk(format, ntrks, division uint16) []byte {
	buf := []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6}
	buf = binary.BigEndian.AppendUint16(buf, format)
	buf = binary.BigEndian.AppendUint16(buf, ntrks)
	return binary.BigEndian.AppendUint16(buf, division)
}

func trackChunk(payload ...byte) []byte {
	buf := []byte{'M', 'T', 'r', 'k'}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(payload)))
	return append(buf, payload...)
}

func midiFile(format, division uint16, tracks ...[]byte) []byte {
	buf := headerChunk(format, uint16(len(tracks)), division)
	for _, t := range tracks {
		buf = append(buf, t...)
	}
	return buf
}

func concat(parts ...[]byte) []byte {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return buf
}
