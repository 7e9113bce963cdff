package sha256hex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownByteOrder is returned by ParseByteOrder for
// names it does not recognize.
var ErrUnknownByteOrder = errors.New("unknown byte order")

// ByteOrder selects how digest words are serialized.
type ByteOrder int

const (
	// BigEndian is the standard SHA-256 rendering.
	BigEndian ByteOrder = iota
	// WordSwapped reverses the bytes inside each 32-bit
	// word and keeps the word order.
	WordSwapped
)

// String returns the canonical name of the order.
func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "big-endian"
	case WordSwapped:
		return "word-swapped"
	default:
		return fmt.Sprintf("ByteOrder(%d)", int(o))
	}
}

// ParseByteOrder maps a name to a ByteOrder. An empty
// name yields BigEndian; "little-endian" and "le" are
// accepted as aliases for WordSwapped.
func ParseByteOrder(s string) (ByteOrder, error) {
	const errCtx = "parsing byte order"

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "big-endian", "be":
		return BigEndian, nil
	case "word-swapped", "little-endian", "le":
		return WordSwapped, nil
	default:
		return BigEndian, fmt.Errorf(
			"%s: %w: %q", errCtx, ErrUnknownByteOrder, s,
		)
	}
}

// Hash returns the SHA-256 digest of message as 64
// lowercase hex characters. When littleEndian is set the
// bytes of each digest word are reversed, word order
// unchanged.
func Hash(message []byte, littleEndian bool) string {
	if littleEndian {
		return SumOrder(message, WordSwapped)
	}

	return SumOrder(message, BigEndian)
}

// Sum returns the standard hex digest of message.
func Sum(message []byte) string {
	return SumOrder(message, BigEndian)
}

// SumOrder returns the hex digest of message rendered in
// the given order. Unknown orders render as BigEndian.
func SumOrder(message []byte, order ByteOrder) string {
	d := serialize(digestState(message))

	if order == WordSwapped {
		d = swapWords(d)
	}

	return encode(d)
}
