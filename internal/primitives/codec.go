package primitives

import "encoding/binary"

// PutUint32BE appends the big-endian encoding of v to buf, matching the
// u32-BE framing used throughout spec §6's wire shapes.
func PutUint32BE(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// Uint32BE decodes a big-endian uint32 from the front of buf.
func Uint32BE(buf []byte) (uint32, error) {
	if len(buf) < 4 {
		return 0, ErrInvalidLength
	}
	return binary.BigEndian.Uint32(buf[:4]), nil
}

// PutUint64LE appends the little-endian encoding of v to buf, used to frame
// a committed value ahead of its blinding factor (spec §4.7).
func PutUint64LE(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
