// Package ed25519verify implements Ed25519 signature verification from
// scratch: field arithmetic, twisted Edwards curve operations, and scalar
// reduction over the field/curve primitives in internal/field25519 and
// internal/edwards25519, plus a SHA-512 challenge hash built on
// internal/sha512. It verifies only — there is no signing path, since the
// loader never produces a signature, only checks one against a compiled-in
// public key.
package ed25519verify

import (
	"encoding/hex"

	"github.com/sentryboot/sentryboot/internal/edwards25519"
	"github.com/sentryboot/sentryboot/internal/sha512"
)

// PublicKey is a compressed Ed25519 public key.
type PublicKey [32]byte

// Signature is a detached Ed25519 signature: a compressed point R followed
// by a scalar s.
type Signature [64]byte

// basePoint is Ed25519's conventional generator, decompressed once at
// package init from its well-known compressed form.
var basePoint edwards25519.Point

func init() {
	const compressed = "5866666666666666666666666666666666666666666666666666666666666666"
	raw, err := hex.DecodeString(compressed)
	if err != nil || len(raw) != 32 {
		panic("ed25519verify: malformed base point constant")
	}
	var b [32]byte
	copy(b[:], raw)
	p, ok := edwards25519.Decompress(b)
	if !ok {
		panic("ed25519verify: base point does not decompress")
	}
	basePoint = p
}

// Verify reports whether sig is a valid Ed25519 signature over msg by pub.
//
// It follows RFC 8032 §5.1.7 with the cofactor-free (non-batch) check:
//  1. reject if s is not a canonical scalar strictly less than the group
//     order L (this alone rules out the classic malleability of accepting
//     s and s+L as equivalent signatures);
//  2. decompress A (the public key) and R (the signature's first half),
//     rejecting if either is not a valid curve point;
//  3. compute k = SHA-512(R ‖ A ‖ msg) mod L;
//  4. check that s*B equals R + k*A by computing s*B - k*A and comparing
//     its compressed encoding to R.
func Verify(pub PublicKey, msg []byte, sig Signature) bool {
	var rBytes [32]byte
	copy(rBytes[:], sig[:32])
	var sBytes [32]byte
	copy(sBytes[:], sig[32:])

	s, ok := edwards25519.CheckReduced(sBytes)
	if !ok {
		return false
	}

	A, ok := edwards25519.Decompress(pub)
	if !ok {
		return false
	}
	_, ok = edwards25519.Decompress(rBytes)
	if !ok {
		return false
	}

	hash := sha512.Sum512(rBytes[:], pub[:], msg)
	k := edwards25519.ReduceWide(hash)

	sB := edwards25519.ScalarMult(basePoint, s)
	kNegA := edwards25519.ScalarMult(edwards25519.Negate(A), k)
	check := edwards25519.Add(sB, kNegA)

	return edwards25519.Compress(check) == rBytes
}
