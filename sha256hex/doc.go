// Package sha256hex computes SHA-256 digests and renders them as lowercase
// hex strings. Besides the standard big-endian rendering it supports a
// word-swapped rendering that reverses the four bytes of every 32-bit digest
// word while keeping the words in their original order.
package sha256hex
