package sha256

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
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tc := range cases {
		got := Sum256([]byte(tc.in))
		require.Equal(t, tc.want, hex.EncodeToString(got[:]))
	}
}

func TestStreamingInvariance(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i * 7)
	}
	want := Sum256(data)

	for split := 0; split <= len(data); split++ {
		var c Ctx
		c.Init()
		c.Update(data[:split])
		c.Update(data[split:])
		var got [Size]byte
		c.Finalize(&got)
		require.Equalf(t, want, got, "split at %d", split)
	}
}

func TestMultiBlockSplits(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}
	want := Sum256(data)

	var c Ctx
	c.Init()
	for _, chunk := range [][2]int{{0, 1}, {1, 63}, {63, 64}, {64, 65}, {65, 1000}} {
		c.Update(data[chunk[0]:chunk[1]])
	}
	var got [Size]byte
	c.Finalize(&got)
	require.Equal(t, want, got)
}
