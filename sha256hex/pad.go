package sha256hex

import "encoding/binary"

// pad frames message into whole blocks: a single 0x80
// byte, zeros up to 56 mod 64, then the bit length as a
// big-endian uint64. message is copied, never modified.
func pad(message []byte) []byte {
	n := len(message) + 1 + 8

	// Round up to the next block boundary.
	size := (n + blockSize - 1) / blockSize * blockSize

	buf := make([]byte, size)
	copy(buf, message)
	buf[len(message)] = 0x80

	binary.BigEndian.PutUint64(
		buf[size-8:], uint64(len(message))*8,
	)

	return buf
}
