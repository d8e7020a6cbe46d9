package ed25519verify

import (
	"encoding/hex"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDecode32(t *testing.T, s string) [32]byte {
	t.Helper()
	raw, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, raw, 32)
	var out [32]byte
	copy(out[:], raw)
	return out
}

func mustDecode64(t *testing.T, s string) [64]byte {
	t.Helper()
	raw, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, raw, 64)
	var out [64]byte
	copy(out[:], raw)
	return out
}

type vector struct {
	name string
	pk   string
	sig  string
	msg  []byte
}

var vectors = []vector{
	{
		name: "empty message",
		pk:   "8a88e3dd7409f195fd52db2d3cba5d72ca6709bf1d94121bf3748801b40f6f5c",
		sig:  "778cda0634c021fae8b1a9fa655ba13230f6fcfc5c5d519afb0872ec9bf1d64241cc3eed8ad47270d86d30e762ad17677c6fb1797e35bca7eba30388257e020f",
		msg:  []byte{},
	},
	{
		name: "short message",
		pk:   "197f6b23e16c8532c6abc838facd5ea789be0c76b2920334039bfa8b3d368d61",
		sig:  "756b747359a15dc72d71e2a266e38a9d51f9a0a474219d40ebc3809b6e8e5f09523cbca954ca354605345fda7551e30a98bf813fcee982eb42152b25f29bad0b",
		msg:  []byte("hello world"),
	},
	{
		name: "multi-block message",
		pk:   "b2a942ff4c98718bed76e255987f6d59b1a72d3b2cd2510003e6170ac63a9ffb",
		sig:  "7c12b1229663a7e9cf09ab46aef2b93e6fac03d31beb9cbe73d8dc170bef4d607198becfd7daa4c8fa64e85386029d5fc361ed8c614f39e7697b5621c4155503",
		msg:  allBytes(),
	},
}

func allBytes() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestVerifyValidSignatures(t *testing.T) {
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			pub := PublicKey(mustDecode32(t, v.pk))
			sig := Signature(mustDecode64(t, v.sig))
			require.True(t, Verify(pub, v.msg, sig))
		})
	}
}

func TestVerifyRejectsFlippedSignatureBit(t *testing.T) {
	v := vectors[0]
	pub := PublicKey(mustDecode32(t, v.pk))
	sig := Signature(mustDecode64(t, v.sig))
	sig[0] ^= 1
	require.False(t, Verify(pub, v.msg, sig))
}

func TestVerifyRejectsFlippedPublicKeyBit(t *testing.T) {
	v := vectors[0]
	pub := PublicKey(mustDecode32(t, v.pk))
	sig := Signature(mustDecode64(t, v.sig))
	pub[0] ^= 1
	require.False(t, Verify(pub, v.msg, sig))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	v := vectors[1]
	pub := PublicKey(mustDecode32(t, v.pk))
	sig := Signature(mustDecode64(t, v.sig))
	msg := append([]byte(nil), v.msg...)
	msg[0] ^= 1
	require.False(t, Verify(pub, msg, sig))
}

func TestVerifyRejectsMalleableScalar(t *testing.T) {
	v := vectors[0]
	pub := PublicKey(mustDecode32(t, v.pk))
	sig := Signature(mustDecode64(t, v.sig))

	// Adding the group order L to s must not produce an equally valid
	// signature: a verifier that reduces s instead of rejecting
	// non-canonical scalars is vulnerable to this.
	var sWord [4]uint64
	for i := 0; i < 4; i++ {
		for k := 0; k < 8; k++ {
			sWord[i] |= uint64(sig[32+8*i+k]) << (8 * k)
		}
	}
	order := [4]uint64{0x5812631a5cf5d3ed, 0x14def9dea2f79cd6, 0, 0x1000000000000000}
	var sum [4]uint64
	var carry uint64
	for i := 0; i < 4; i++ {
		sum[i], carry = bits.Add64(sWord[i], order[i], carry)
	}

	for i := 0; i < 4; i++ {
		for k := 0; k < 8; k++ {
			sig[32+8*i+k] = byte(sum[i] >> (8 * k))
		}
	}
	require.False(t, Verify(pub, v.msg, sig))
}

func TestVerifyRejectsAllZeroSignature(t *testing.T) {
	pub := PublicKey(mustDecode32(t, vectors[0].pk))
	var zeroSig Signature
	require.False(t, Verify(pub, []byte("anything"), zeroSig))
}
