// Package field25519 implements arithmetic in GF(2^255-19), the base field
// the Ed25519 verifier's curve operations run over. Elements are held as
// five 51-bit limbs (radix 2^51, the split used by the widely deployed
// "donna" style 64-bit field implementations) rather than as a
// general-purpose big integer, so the verifier never allocates and never
// depends on math/big.
package field25519

import "math/bits"

const mask51 = (1 << 51) - 1

// Elem is a field element stored as five unsigned 51-bit limbs, least
// significant first. Limbs may temporarily exceed 2^51 between operations;
// Freeze brings an element back to its unique canonical representative in
// [0, p).
type Elem [5]uint64

// pLimb is p in limb form. Freeze does not read it: it subtracts p by
// adding 19 and carrying out of bit 255.
var pLimb = Elem{(1 << 51) - 19, mask51, mask51, mask51, mask51}

// twoPLimb biases Sub so that the limb-wise subtraction never underflows.
var twoPLimb = Elem{2*((1<<51)-19) + 0, 2 * mask51, 2 * mask51, 2 * mask51, 2 * mask51}

// One is the field element 1.
var One = Elem{1, 0, 0, 0, 0}

// Zero is the field element 0.
var Zero = Elem{}

// D is the Edwards curve constant -121665/121666 mod p.
var D = Elem{0x34dca135978a3, 0x1a8283b156ebd, 0x5e7a26001c029, 0x739c663a03cbb, 0x52036cee2b6ff}

// SqrtM1 is a square root of -1 mod p, used to correct the candidate square
// root when recovering a point's x-coordinate.
var SqrtM1 = Elem{0x61b274a0ea0b0, 0xd5a5fc8f189d, 0x7ef5e9cbd0c60, 0x78595a6804c9e, 0x2b8324804fc1d}

// reduce carries each limb down to 51 bits, wrapping the final overflow back
// into limb 0 multiplied by 19 (since 2^255 = 19 mod p). It does not produce
// a canonical representative: the result may still be as large as p+something
// small; call Freeze before encoding or comparing values.
func reduce(t *Elem) {
	c := t[0] >> 51
	t[0] &= mask51
	t[1] += c
	c = t[1] >> 51
	t[1] &= mask51
	t[2] += c
	c = t[2] >> 51
	t[2] &= mask51
	t[3] += c
	c = t[3] >> 51
	t[3] &= mask51
	t[4] += c
	c = t[4] >> 51
	t[4] &= mask51
	t[0] += c * 19
	c = t[0] >> 51
	t[0] &= mask51
	t[1] += c
}

// Add returns f+g.
func Add(f, g Elem) Elem {
	var h Elem
	for i := range h {
		h[i] = f[i] + g[i]
	}
	reduce(&h)
	return h
}

// Sub returns f-g.
func Sub(f, g Elem) Elem {
	var h Elem
	for i := range h {
		h[i] = f[i] + twoPLimb[i] - g[i]
	}
	reduce(&h)
	return h
}

// Neg returns -f.
func Neg(f Elem) Elem {
	return Sub(Zero, f)
}

// u128 is a 128-bit accumulator built from math/bits primitives, standing in
// for the compiler intrinsic 128-bit multiply/add used by C implementations
// of this same algorithm.
type u128 struct {
	hi, lo uint64
}

func mul64(a, b uint64) u128 {
	hi, lo := bits.Mul64(a, b)
	return u128{hi, lo}
}

func (x u128) add(y u128) u128 {
	lo, carry := bits.Add64(x.lo, y.lo, 0)
	hi, _ := bits.Add64(x.hi, y.hi, carry)
	return u128{hi, lo}
}

func (x u128) addSmall(n uint64) u128 {
	lo, carry := bits.Add64(x.lo, n, 0)
	return u128{x.hi + carry, lo}
}

func (x u128) shiftRight51() uint64 {
	return x.hi<<13 | x.lo>>51
}

func (x u128) low51() uint64 {
	return x.lo & mask51
}

// Mul returns f*g mod p (not yet frozen to canonical form).
func Mul(f, g Elem) Elem {
	g1_19 := 19 * g[1]
	g2_19 := 19 * g[2]
	g3_19 := 19 * g[3]
	g4_19 := 19 * g[4]

	r0 := mul64(f[0], g[0]).add(mul64(f[1], g4_19)).add(mul64(f[2], g3_19)).add(mul64(f[3], g2_19)).add(mul64(f[4], g1_19))
	r1 := mul64(f[0], g[1]).add(mul64(f[1], g[0])).add(mul64(f[2], g4_19)).add(mul64(f[3], g3_19)).add(mul64(f[4], g2_19))
	r2 := mul64(f[0], g[2]).add(mul64(f[1], g[1])).add(mul64(f[2], g[0])).add(mul64(f[3], g4_19)).add(mul64(f[4], g3_19))
	r3 := mul64(f[0], g[3]).add(mul64(f[1], g[2])).add(mul64(f[2], g[1])).add(mul64(f[3], g[0])).add(mul64(f[4], g4_19))
	r4 := mul64(f[0], g[4]).add(mul64(f[1], g[3])).add(mul64(f[2], g[2])).add(mul64(f[3], g[1])).add(mul64(f[4], g[0]))

	return carryWide(r0, r1, r2, r3, r4)
}

// Square returns f*f mod p. Separate from Mul so the doubled cross terms can
// be folded in directly instead of computed twice.
func Square(f Elem) Elem {
	f0_2 := 2 * f[0]
	f1_2 := 2 * f[1]
	f2_2 := 2 * f[2]
	f3_2 := 2 * f[3]

	f3_19 := 19 * f[3]
	f4_19 := 19 * f[4]

	r0 := mul64(f[0], f[0]).add(mul64(f1_2, f4_19)).add(mul64(f2_2, f3_19))
	r1 := mul64(f0_2, f[1]).add(mul64(f2_2, f4_19)).add(mul64(f[3], f3_19))
	r2 := mul64(f0_2, f[2]).add(mul64(f[1], f[1])).add(mul64(f3_2, f4_19))
	r3 := mul64(f0_2, f[3]).add(mul64(f1_2, f[2])).add(mul64(f[4], f4_19))
	r4 := mul64(f0_2, f[4]).add(mul64(f1_2, f[3])).add(mul64(f[2], f[2]))

	return carryWide(r0, r1, r2, r3, r4)
}

// carryWide folds five wide (up to ~2^110) partial sums down into a properly
// carried Elem, the way the final reduction step of a schoolbook 5-limb
// multiply always does.
func carryWide(r0, r1, r2, r3, r4 u128) Elem {
	c := r0.shiftRight51()
	h0 := r0.low51()
	r1 = r1.addSmall(c)
	c = r1.shiftRight51()
	h1 := r1.low51()
	r2 = r2.addSmall(c)
	c = r2.shiftRight51()
	h2 := r2.low51()
	r3 = r3.addSmall(c)
	c = r3.shiftRight51()
	h3 := r3.low51()
	r4 = r4.addSmall(c)
	c = r4.shiftRight51()
	h4 := r4.low51()

	h0 += c * 19
	c = h0 >> 51
	h0 &= mask51
	h1 += c

	return Elem{h0, h1, h2, h3, h4}
}

// Freeze reduces f to its unique representative in [0, p).
func Freeze(f Elem) Elem {
	t := f
	reduce(&t)

	q := (t[0] + 19) >> 51
	q = (t[1] + q) >> 51
	q = (t[2] + q) >> 51
	q = (t[3] + q) >> 51
	q = (t[4] + q) >> 51

	t[0] += 19 * q
	t[1] += t[0] >> 51
	t[0] &= mask51
	t[2] += t[1] >> 51
	t[1] &= mask51
	t[3] += t[2] >> 51
	t[2] &= mask51
	t[4] += t[3] >> 51
	t[3] &= mask51
	t[4] &= mask51

	return t
}

// sq repeatedly squares f n times.
func sq(f Elem, n int) Elem {
	for range n {
		f = Square(f)
	}
	return f
}

// Invert returns f^-1 mod p (0 maps to 0), via Fermat's little theorem using
// the standard ref10 addition chain for the exponent p-2.
func Invert(z Elem) Elem {
	t0 := Square(z)
	t1 := sq(t0, 2)
	t1 = Mul(z, t1)
	t0 = Mul(t0, t1)
	t2 := Square(t0)
	t1 = Mul(t1, t2)
	t2 = sq(t1, 5)
	t1 = Mul(t2, t1)
	t2 = sq(t1, 10)
	t2 = Mul(t2, t1)
	t3 := sq(t2, 20)
	t2 = Mul(t3, t2)
	t2 = sq(t2, 10)
	t1 = Mul(t2, t1)
	t2 = sq(t1, 50)
	t2 = Mul(t2, t1)
	t3 = sq(t2, 100)
	t2 = Mul(t3, t2)
	t2 = sq(t2, 50)
	t1 = Mul(t2, t1)
	t1 = sq(t1, 5)
	return Mul(t1, t0)
}

// Pow22523 returns z^((p-5)/8), the exponent used (after one extra
// multiply) to recover a candidate square root during point decompression.
func Pow22523(z Elem) Elem {
	t0 := Square(z)
	t1 := sq(t0, 2)
	t1 = Mul(z, t1)
	t0 = Mul(t0, t1)
	t0 = Square(t0)
	t0 = Mul(t1, t0)
	t1 = sq(t0, 5)
	t0 = Mul(t1, t0)
	t1 = sq(t0, 10)
	t1 = Mul(t1, t0)
	t2 := sq(t1, 20)
	t1 = Mul(t2, t1)
	t1 = sq(t1, 10)
	t0 = Mul(t1, t0)
	t1 = sq(t0, 50)
	t1 = Mul(t1, t0)
	t2 = sq(t1, 100)
	t1 = Mul(t2, t1)
	t1 = sq(t1, 50)
	t0 = Mul(t1, t0)
	t0 = sq(t0, 2)
	return Mul(t0, z)
}

// CondSwap exchanges f and g in constant time when b is 1, and leaves them
// unchanged when b is 0. b must be 0 or 1.
func CondSwap(f, g *Elem, b uint64) {
	mask := -b
	for i := range f {
		t := mask & (f[i] ^ g[i])
		f[i] ^= t
		g[i] ^= t
	}
}

// IsNegative reports whether f's canonical representative is odd, the
// "sign" bit used by point compression.
func IsNegative(f Elem) bool {
	return Freeze(f)[0]&1 == 1
}

// Decode loads the 255-bit little-endian integer encoded in b (the top bit
// of b[31], the point-compression sign bit, is ignored) into a field
// element.
func Decode(b *[32]byte) Elem {
	var out Elem
	for i := range out {
		bitOff := uint(i * 51)
		byteIdx := bitOff / 8
		shift := bitOff % 8
		var v uint64
		for k := uint(0); k < 8; k++ {
			idx := byteIdx + k
			if int(idx) < len(b) {
				v |= uint64(b[idx]) << (8 * k)
			}
		}
		out[i] = (v >> shift) & mask51
	}
	return out
}

// Encode writes f's canonical little-endian 255-bit representation into a
// 32-byte buffer; bit 255 (b[31] bit 7) is left clear for the caller to set
// as a sign bit.
func Encode(f Elem) [32]byte {
	c := Freeze(f)
	var out [32]byte
	var buf uint64
	var nbits uint
	idx := 0
	for _, limb := range c {
		buf |= limb << nbits
		nbits += 51
		for nbits >= 8 {
			out[idx] = byte(buf)
			buf >>= 8
			nbits -= 8
			idx++
		}
	}
	if nbits > 0 {
		out[idx] = byte(buf)
	}
	return out
}
