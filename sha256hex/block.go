package sha256hex

import (
	"encoding/binary"
	"math/bits"
)

func rotr(x uint32, n int) uint32 {
	return bits.RotateLeft32(x, -n)
}

func ch(x, y, z uint32) uint32 {
	return (x & y) ^ (^x & z)
}

func maj(x, y, z uint32) uint32 {
	return (x & y) ^ (x & z) ^ (y & z)
}

func bigSigma0(x uint32) uint32 {
	return rotr(x, 2) ^ rotr(x, 13) ^ rotr(x, 22)
}

func bigSigma1(x uint32) uint32 {
	return rotr(x, 6) ^ rotr(x, 11) ^ rotr(x, 25)
}

func smallSigma0(x uint32) uint32 {
	return rotr(x, 7) ^ rotr(x, 18) ^ (x >> 3)
}

func smallSigma1(x uint32) uint32 {
	return rotr(x, 17) ^ rotr(x, 19) ^ (x >> 10)
}

// schedule expands a 64-byte block into the 64-word
// message schedule.
func schedule(block []byte) [64]uint32 {
	var w [64]uint32

	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}

	for i := 16; i < 64; i++ {
		w[i] = smallSigma0(w[i-15]) + smallSigma1(w[i-2]) +
			w[i-7] + w[i-16]
	}

	return w
}

// compress runs the 64 rounds over w and returns the
// updated state. All arithmetic wraps modulo 2^32.
func compress(h [8]uint32, w *[64]uint32) [8]uint32 {
	a, b, c, d := h[0], h[1], h[2], h[3]
	e, f, g, hh := h[4], h[5], h[6], h[7]

	for i := 0; i < 64; i++ {
		t1 := hh + bigSigma1(e) + ch(e, f, g) + k[i] + w[i]
		t2 := bigSigma0(a) + maj(a, b, c)

		hh = g
		g = f
		f = e
		e = d + t1
		d = c
		c = b
		b = a
		a = t1 + t2
	}

	h[0] += a
	h[1] += b
	h[2] += c
	h[3] += d
	h[4] += e
	h[5] += f
	h[6] += g
	h[7] += hh

	return h
}

// digestState drives every block of the padded message
// through schedule and compress, left to right.
func digestState(message []byte) [8]uint32 {
	buf := pad(message)
	h := h0

	for off := 0; off < len(buf); off += blockSize {
		w := schedule(buf[off : off+blockSize])
		h = compress(h, &w)
	}

	return h
}
