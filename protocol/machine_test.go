package protocol_test

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentryboot/sentryboot/config"
	"github.com/sentryboot/sentryboot/ed25519verify"
	"github.com/sentryboot/sentryboot/flash"
	"github.com/sentryboot/sentryboot/flash/simnvm"
	"github.com/sentryboot/sentryboot/internal/crc32"
	"github.com/sentryboot/sentryboot/internal/sha256"
	"github.com/sentryboot/sentryboot/protocol"
)

// fakeTransport is an in-process loopback: Feed drives it directly, and
// written bytes accumulate in Out for the test to inspect. WritePump is a
// no-op, matching the host-buildable backend SPEC describes.
type fakeTransport struct {
	Out []byte
}

func (f *fakeTransport) ReadByte() (byte, bool) { return 0, false }
func (f *fakeTransport) WriteByte(b byte)       { f.Out = append(f.Out, b) }
func (f *fakeTransport) WritePump()             {}

type fakeLauncher struct {
	jumped bool
}

func (l *fakeLauncher) Jump() { l.jumped = true }

func newTestMachine(t *testing.T) (*protocol.Machine, *fakeTransport, *fakeLauncher, *simnvm.Controller, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	var pk ed25519verify.PublicKey
	copy(pk[:], pub)

	ctrl := simnvm.New()
	engine := flash.NewEngine(ctrl)
	tr := &fakeTransport{}
	launcher := &fakeLauncher{}
	m := protocol.NewMachine(tr, engine, pk, launcher)
	return m, tr, launcher, ctrl, priv
}

func feedLine(m *protocol.Machine, line string) {
	for i := 0; i < len(line); i++ {
		m.Feed(line[i])
	}
	m.Feed('\n')
}

func feedBytes(m *protocol.Machine, data []byte) {
	for _, b := range data {
		m.Feed(b)
	}
}

func TestHelloReportsBootVersion(t *testing.T) {
	m, tr, _, _, _ := newTestMachine(t)
	feedLine(m, "HELLO")
	require.Equal(t, fmt.Sprintf("OK BOOT v%d.%d\n", config.BootMajor, config.BootMinor), string(tr.Out))
}

func TestUnknownCommand(t *testing.T) {
	m, tr, _, _, _ := newTestMachine(t)
	feedLine(m, "FROBNICATE")
	require.Equal(t, "ERR UNKNOWN\n", string(tr.Out))
}

func TestEraseAppReplies(t *testing.T) {
	m, tr, _, ctrl, _ := newTestMachine(t)
	feedLine(m, "ERASE APP")
	require.Equal(t, "OK ERASE\n", string(tr.Out))
	for _, b := range ctrl.ReadBytes(config.AppStart, 1024) {
		require.Equal(t, byte(0xFF), b)
	}
}

func TestWriteThenCorrectCRCProgramsAndReplies(t *testing.T) {
	m, tr, _, ctrl, _ := newTestMachine(t)
	feedLine(m, "ERASE APP")
	tr.Out = nil

	payload := []byte("ABCD")
	crc := crc32.Checksum(payload)
	feedLine(m, fmt.Sprintf("WRITE 0x%x 4 0x%x", config.AppStart, crc))
	feedBytes(m, payload)

	require.Equal(t, "OK WRITE\n", string(tr.Out))
	got := ctrl.ReadBytes(config.AppStart, flash.PageSize)
	require.Equal(t, payload, got[:4])
	for _, b := range got[4:] {
		require.Equal(t, byte(0xFF), b)
	}
}

func TestWriteWrongCRCStillProgramsButReportsError(t *testing.T) {
	m, tr, _, ctrl, _ := newTestMachine(t)
	feedLine(m, "ERASE APP")
	tr.Out = nil

	payload := []byte("ABCD")
	feedLine(m, fmt.Sprintf("WRITE 0x%x 4 0x0", config.AppStart))
	feedBytes(m, payload)

	require.Equal(t, "ERR CRC\n", string(tr.Out))
	got := ctrl.ReadBytes(config.AppStart, 4)
	require.Equal(t, payload, got)
}

func TestWriteBelowAppStartIsRejected(t *testing.T) {
	m, tr, _, _, _ := newTestMachine(t)
	feedLine(m, "WRITE 0 4 0xDEADBEEF")
	require.Equal(t, "ERR PARAM\n", string(tr.Out))
	require.Equal(t, protocol.StateWaitCmd, m.State())
}

func TestWriteBeyondFlashSizeIsRejected(t *testing.T) {
	m, tr, _, _, _ := newTestMachine(t)
	feedLine(m, fmt.Sprintf("WRITE 0x%x 4 0", config.FlashSize-2))
	require.Equal(t, "ERR PARAM\n", string(tr.Out))
}

func TestWriteMissingArgsIsFormatError(t *testing.T) {
	m, tr, _, _, _ := newTestMachine(t)
	feedLine(m, fmt.Sprintf("WRITE 0x%x 4", config.AppStart))
	require.Equal(t, "ERR FORMAT\n", string(tr.Out))
}

func TestDoneMalformedHexIsFormatError(t *testing.T) {
	m, tr, _, _, _ := newTestMachine(t)
	feedLine(m, "DONE nothex")
	require.Equal(t, "ERR FORMAT\n", string(tr.Out))
}

func TestDoneValidSignatureInstallsAndJumps(t *testing.T) {
	m, tr, launcher, ctrl, priv := newTestMachine(t)
	feedLine(m, "ERASE APP")
	tr.Out = nil

	payload := []byte("firmware-image-bytes")
	crc := crc32.Checksum(payload)
	feedLine(m, fmt.Sprintf("WRITE 0x%x %d 0x%x", config.AppStart, len(payload), crc))
	feedBytes(m, payload)
	require.Equal(t, "OK WRITE\n", string(tr.Out))
	tr.Out = nil

	digest := sha256.Sum256(payload)
	sig := ed25519.Sign(priv, digest[:])
	feedLine(m, "DONE "+hex.EncodeToString(sig))

	require.Equal(t, "OK DONE\n", string(tr.Out))
	require.True(t, launcher.jumped)

	marker := ctrl.ReadBytes(config.AppValidAddr, 4)
	magic := uint32(config.AppValidMagic)
	require.Equal(t, byte(magic), marker[0])
}

func TestDoneInvalidSignatureStaysResident(t *testing.T) {
	m, tr, launcher, ctrl, _ := newTestMachine(t)
	feedLine(m, "ERASE APP")
	tr.Out = nil

	payload := []byte("firmware-image-bytes")
	crc := crc32.Checksum(payload)
	feedLine(m, fmt.Sprintf("WRITE 0x%x %d 0x%x", config.AppStart, len(payload), crc))
	feedBytes(m, payload)
	tr.Out = nil

	_, otherPriv, _ := ed25519.GenerateKey(nil)
	digest := sha256.Sum256(payload)
	sig := ed25519.Sign(otherPriv, digest[:])
	feedLine(m, "DONE "+hex.EncodeToString(sig))

	require.Equal(t, "ERR SIGNATURE\n", string(tr.Out))
	require.False(t, launcher.jumped)

	marker := ctrl.ReadBytes(config.AppValidAddr, 4)
	for _, b := range marker {
		require.Equal(t, byte(0xFF), b)
	}
}
