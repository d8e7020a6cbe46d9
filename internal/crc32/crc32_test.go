package crc32

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumVector(t *testing.T) {
	require.Equal(t, uint32(0xCBF43926), Checksum([]byte("123456789")))
}

func TestChecksumEmpty(t *testing.T) {
	require.Equal(t, uint32(0), Checksum(nil))
}

func TestStreamingMatchesOneShot(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, 1234567890")
	want := Checksum(data)

	for split := 0; split <= len(data); split++ {
		s := New()
		s.UpdateBytes(data[:split])
		s.UpdateBytes(data[split:])
		require.Equalf(t, want, s.Sum(), "split at %d", split)
	}
}

func TestByteAtATime(t *testing.T) {
	data := []byte("per-byte update must match bulk update")
	want := Checksum(data)

	s := New()
	for _, b := range data {
		s.Update(b)
	}
	require.Equal(t, want, s.Sum())
}
