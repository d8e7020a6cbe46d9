package sha512

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{
			"",
			"cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		},
		{
			"abc",
			"ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		},
	}
	for _, tc := range cases {
		got := Sum512([]byte(tc.in))
		require.Equal(t, tc.want, hex.EncodeToString(got[:]))
	}
}

func TestConcatenatedPartsMatchSingleBuffer(t *testing.T) {
	a := []byte("the first part of the message, ")
	b := []byte("the second part of the message")

	require.Equal(t, Sum512(append(append([]byte{}, a...), b...)), Sum512(a, b))
}

func TestLongMessageCrossesTwoBlocks(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i * 3)
	}
	var parts [][]byte
	for i := 0; i < len(data); i += 37 {
		end := min(i+37, len(data))
		parts = append(parts, data[i:end])
	}
	require.Equal(t, Sum512(data), Sum512(parts...))
}
