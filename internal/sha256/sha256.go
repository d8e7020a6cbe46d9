// Package sha256 implements FIPS 180-4 SHA-256 as a streaming hasher with a
// fixed-size context and no allocation in the hot path, used as the
// loader's image digest (C2). The Ed25519 verifier's SHA-512 lives in
// internal/sha512 and does not build on this package.
package sha256

const (
	blockSize = 64
	// Size is the digest length in bytes.
	Size = 32
)

var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

var initState = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// Ctx is a streaming SHA-256 context. The zero value is not valid; call
// Init before Update.
type Ctx struct {
	h        [8]uint32
	buf      [blockSize]byte
	fill     int
	totalLen uint64
}

// Init resets ctx to the initial SHA-256 state.
func (c *Ctx) Init() {
	*c = Ctx{h: initState}
}

// Update folds p into the running hash, buffering any partial block.
// update(a); update(b) is equivalent to update(a∥b) for any split.
func (c *Ctx) Update(p []byte) {
	c.totalLen += uint64(len(p))

	if c.fill > 0 {
		n := copy(c.buf[c.fill:], p)
		c.fill += n
		p = p[n:]
		if c.fill == blockSize {
			c.block(c.buf[:])
			c.fill = 0
		}
	}

	for len(p) >= blockSize {
		c.block(p[:blockSize])
		p = p[blockSize:]
	}

	if len(p) > 0 {
		c.fill = copy(c.buf[:], p)
	}
}

// Finalize appends padding, runs the final compression(s), and writes the
// 32-byte digest into out. After Finalize the context is zeroed; it must be
// re-Init'd before reuse.
func (c *Ctx) Finalize(out *[Size]byte) {
	bitLen := c.totalLen * 8

	c.buf[c.fill] = 0x80
	c.fill++

	if c.fill > blockSize-8 {
		for i := c.fill; i < blockSize; i++ {
			c.buf[i] = 0
		}
		c.block(c.buf[:])
		c.fill = 0
	}
	for i := c.fill; i < blockSize-8; i++ {
		c.buf[i] = 0
	}
	for i := range 8 {
		c.buf[blockSize-8+i] = byte(bitLen >> (56 - 8*i))
	}
	c.block(c.buf[:])

	for i, word := range c.h {
		out[4*i] = byte(word >> 24)
		out[4*i+1] = byte(word >> 16)
		out[4*i+2] = byte(word >> 8)
		out[4*i+3] = byte(word)
	}

	*c = Ctx{}
}

func (c *Ctx) block(p []byte) {
	var w [64]uint32
	for i := range 16 {
		w[i] = uint32(p[4*i])<<24 | uint32(p[4*i+1])<<16 | uint32(p[4*i+2])<<8 | uint32(p[4*i+3])
	}
	for i := 16; i < 64; i++ {
		s0 := rotr32(w[i-15], 7) ^ rotr32(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr32(w[i-2], 17) ^ rotr32(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, cc, d, e, f, g, h := c.h[0], c.h[1], c.h[2], c.h[3], c.h[4], c.h[5], c.h[6], c.h[7]

	for i := range 64 {
		s1 := rotr32(e, 6) ^ rotr32(e, 11) ^ rotr32(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + k[i] + w[i]
		s0 := rotr32(a, 2) ^ rotr32(a, 13) ^ rotr32(a, 22)
		maj := (a & b) ^ (a & cc) ^ (b & cc)
		t2 := s0 + maj

		h = g
		g = f
		f = e
		e = d + t1
		d = cc
		cc = b
		b = a
		a = t1 + t2
	}

	c.h[0] += a
	c.h[1] += b
	c.h[2] += cc
	c.h[3] += d
	c.h[4] += e
	c.h[5] += f
	c.h[6] += g
	c.h[7] += h
}

func rotr32(x uint32, n uint) uint32 {
	return (x >> n) | (x << (32 - n))
}

// Sum256 computes the SHA-256 digest of p in one call.
func Sum256(p []byte) [Size]byte {
	var c Ctx
	c.Init()
	c.Update(p)
	var out [Size]byte
	c.Finalize(&out)
	return out
}
