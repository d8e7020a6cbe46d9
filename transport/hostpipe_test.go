package transport_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentryboot/sentryboot/transport"
)

func TestFeedAndReadByteRoundTrip(t *testing.T) {
	p := transport.New()
	require.True(t, p.Feed('A'))
	require.True(t, p.Feed('B'))

	b, ok := p.ReadByte()
	require.True(t, ok)
	require.Equal(t, byte('A'), b)

	b, ok = p.ReadByte()
	require.True(t, ok)
	require.Equal(t, byte('B'), b)

	_, ok = p.ReadByte()
	require.False(t, ok)
}

func TestWriteByteAccumulatesInOut(t *testing.T) {
	p := transport.New()
	for _, b := range []byte("OK BOOT v1.0\n") {
		p.WriteByte(b)
	}
	require.Equal(t, "OK BOOT v1.0\n", string(p.Out()))
}

func TestConcurrentProducerFeedsRXLikeAnInterruptBottomHalf(t *testing.T) {
	p := transport.New()
	msg := []byte("HELLO\n")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, b := range msg {
			for !p.Feed(b) {
			}
		}
	}()
	<-done

	var got []byte
	for {
		b, ok := p.ReadByte()
		if !ok {
			break
		}
		got = append(got, b)
	}
	require.Equal(t, msg, got)
}
