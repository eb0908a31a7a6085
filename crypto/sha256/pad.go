package sha256

import "encoding/binary"

// Pad returns a new slice holding message, the 0x80 marker, the zero run and
// the 64-bit big-endian bit length of message. The result length is always a
// positive multiple of BlockSize.
func Pad(message []byte) []byte {
	l := uint64(len(message))
	zeroBits := (512 - (l*8+8+64)%512) % 512

	padded := make([]byte, 0, l+1+zeroBits/8+8)
	padded = append(padded, message...)
	padded = append(padded, 0x80)
	padded = append(padded, make([]byte, zeroBits/8)...)

	var length [8]byte
	binary.BigEndian.PutUint64(length[:], l*8)
	return append(padded, length[:]...)
}
