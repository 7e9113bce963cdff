package sha256hex

import (
	"encoding/binary"
	"encoding/hex"
)

// serialize writes each state word big-endian, in order.
func serialize(h [8]uint32) [digestLen]byte {
	var out [digestLen]byte

	for i, v := range h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}

	return out
}

// swapWords reverses the bytes inside every 4-byte word.
// Word order is kept, so this is not a full little-endian
// reversal of the digest.
func swapWords(d [digestLen]byte) [digestLen]byte {
	var out [digestLen]byte

	for i := 0; i < digestLen; i += 4 {
		out[i] = d[i+3]
		out[i+1] = d[i+2]
		out[i+2] = d[i+1]
		out[i+3] = d[i]
	}

	return out
}

// IsDigest reports whether s looks like a rendered
// digest: exactly 64 lowercase hex characters.
func IsDigest(s string) bool {
	if len(s) != hexLen {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}

func encode(d [digestLen]byte) string {
	return hex.EncodeToString(d[:])
}
