package game

import (
	"crypto/rc4"
	"unicode/utf16"
)

const (
	luckChunks       = 6
	luckWidth        = 256.0
	luckStartDenom   = 281474976710656.0  // 256^6
	luckSignificance = 4503599627370496.0 // 2^52
	luckOverflow     = 9007199254740992.0 // 2^53
)

// Luck maps seed to a stable value in [0, 1).
//
// The stream is ARC4 keyed by the seed string with the first 256 bytes
// dropped, read 52 bits at a time the same way the browser build of the game
// did, so a coordinate has the same token in both.
func Luck(seed string) float64 {
	stream := newLuckStream(luckKey(seed))

	n := float64(stream.next(luckChunks))
	d := luckStartDenom
	var x uint64
	for n < luckSignificance {
		n = (n + float64(x)) * luckWidth
		d *= luckWidth
		x = stream.next(1)
	}
	for n >= luckOverflow {
		n /= 2
		d /= 2
		x >>= 1
	}
	return (n + float64(x)) / d
}

// luckKey smears the UTF-16 code units of seed into a key of at most 256 bytes.
func luckKey(seed string) []byte {
	units := utf16.Encode([]rune(seed))
	key := make([]int, 0, min(len(units), 256))
	smear := 0
	for j, unit := range units {
		idx := j & 0xff
		if idx < len(key) {
			smear ^= key[idx] * 19
			key[idx] = (smear + int(unit)) & 0xff
			continue
		}
		key = append(key, (smear+int(unit))&0xff)
	}

	if len(key) == 0 {
		return []byte{0}
	}
	out := make([]byte, len(key))
	for i, k := range key {
		out[i] = byte(k)
	}
	return out
}

type luckStream struct {
	cipher *rc4.Cipher
	buf    [luckChunks]byte
}

func newLuckStream(key []byte) *luckStream {
	// key length is always within 1..256, NewCipher cannot fail here
	cipher, _ := rc4.NewCipher(key)
	drop := make([]byte, 256)
	cipher.XORKeyStream(drop, drop)
	return &luckStream{cipher: cipher}
}

// next reads count keystream bytes as a big-endian integer.
func (s *luckStream) next(count int) uint64 {
	b := s.buf[:count]
	clear(b)
	s.cipher.XORKeyStream(b, b)
	var r uint64
	for _, v := range b {
		r = r<<8 | uint64(v)
	}
	return r
}
