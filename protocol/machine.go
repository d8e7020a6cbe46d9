// Package protocol implements the line-and-binary command state machine the
// loader runs over the CDC-ACM byte pipe: WAIT_CMD accumulates and
// dispatches textual commands; WRITE opens a WRITE_DATA window that fans
// each incoming byte out to a block CRC, the running image hash, and the
// flash page accumulator.
package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sentryboot/sentryboot/config"
	"github.com/sentryboot/sentryboot/ed25519verify"
	"github.com/sentryboot/sentryboot/flash"
	"github.com/sentryboot/sentryboot/internal/crc32"
	"github.com/sentryboot/sentryboot/internal/sha256"
)

// Transport is the byte pipe the state machine is driven over. ReadByte is
// non-blocking; WriteByte may spin pumping WritePump until the TX ring has
// room. WritePump services whatever outstanding USB task needs servicing
// and is a no-op on a host loopback transport.
type Transport interface {
	ReadByte() (byte, bool)
	WriteByte(b byte)
	WritePump()
}

// Launcher transfers control to the installed application. Jump does not
// return on real hardware; the host test implementation records the call
// instead of performing an unportable absolute jump.
type Launcher interface {
	Jump()
}

// cmdBufSize is the command accumulation buffer's capacity; spec requires
// at least 128 bytes, and a full DONE line ("DONE " plus 128 hex
// characters) needs 133.
const cmdBufSize = 256

// State is one of the two states the machine can be in.
type State int

const (
	StateWaitCmd State = iota
	StateWriteData
)

// writeTxn holds the state of a WRITE in progress. It is reset to its zero
// value when the transaction closes.
type writeTxn struct {
	dstAddr  uint32
	expected uint32
	wantCRC  uint32
	received uint32
	crc      crc32.State
	page     [flash.PageSize]byte
	pageFill int
}

// Machine is the protocol state machine. Construct with NewMachine; all of
// its state is owned by a single thread of control, matching the loader's
// single-main-loop concurrency model.
type Machine struct {
	transport Transport
	engine    *flash.Engine
	pubKey    ed25519verify.PublicKey
	launcher  Launcher

	state  State
	cmdBuf [cmdBufSize]byte
	cmdLen int

	hasher sha256.Ctx
	wr     writeTxn
}

// NewMachine returns a Machine in WAIT_CMD with a freshly initialized image
// hasher.
func NewMachine(t Transport, e *flash.Engine, pubKey ed25519verify.PublicKey, l Launcher) *Machine {
	m := &Machine{transport: t, engine: e, pubKey: pubKey, launcher: l}
	m.hasher.Init()
	return m
}

// State reports the machine's current state, for tests.
func (m *Machine) State() State { return m.state }

// Run services the transport forever, feeding one byte at a time to the
// state machine. It is the production main loop; it does not return.
func (m *Machine) Run() {
	for {
		m.transport.WritePump()
		b, ok := m.transport.ReadByte()
		if !ok {
			continue
		}
		m.Feed(b)
	}
}

// Feed advances the state machine by exactly one byte.
func (m *Machine) Feed(b byte) {
	switch m.state {
	case StateWaitCmd:
		m.feedCmd(b)
	case StateWriteData:
		m.feedWriteData(b)
	}
}

func (m *Machine) feedCmd(b byte) {
	switch b {
	case '\r':
		// Dropped.
	case '\n':
		line := string(m.cmdBuf[:m.cmdLen])
		m.cmdLen = 0
		m.dispatch(line)
	default:
		if m.cmdLen >= cmdBufSize {
			// Overflow: the line so far cannot be a valid command anyway;
			// silently discard it and start accumulating fresh.
			m.cmdLen = 0
			return
		}
		m.cmdBuf[m.cmdLen] = b
		m.cmdLen++
	}
}

func (m *Machine) feedWriteData(b byte) {
	m.wr.crc.Update(b)
	m.hasher.Update([]byte{b})
	m.wr.page[m.wr.pageFill] = b
	m.wr.pageFill++
	m.wr.received++

	if m.wr.pageFill == flash.PageSize {
		m.flushPage(flash.PageSize)
	}

	if m.wr.received == m.wr.expected {
		if m.wr.pageFill > 0 {
			m.flushPage(m.wr.pageFill)
		}
		if m.wr.crc.Sum() == m.wr.wantCRC {
			m.reply("OK WRITE\n")
		} else {
			m.reply("ERR CRC\n")
		}
		m.wr = writeTxn{}
		m.state = StateWaitCmd
	}
}

// flushPage programs the first n bytes of the page accumulator to the
// current destination address and advances it by n. The error from
// flash.Engine.Program is discarded: dispatchWrite checks only that the
// range lies inside [AppStart, FlashSize), so a destination that is not
// page-aligned or not erased leaves those bytes unprogrammed, and the
// WRITE reply still reflects only the CRC of the received bytes.
func (m *Machine) flushPage(n int) {
	_ = m.engine.Program(m.wr.dstAddr, m.wr.page[:n])
	m.wr.dstAddr += uint32(n)
	m.wr.pageFill = 0
}

func (m *Machine) reply(s string) {
	for i := 0; i < len(s); i++ {
		m.transport.WriteByte(s[i])
	}
}

func (m *Machine) dispatch(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		m.reply("ERR UNKNOWN\n")
		return
	}

	switch {
	case line == "HELLO":
		m.reply(fmt.Sprintf("OK BOOT v%d.%d\n", config.BootMajor, config.BootMinor))
	case len(fields) == 2 && fields[0] == "ERASE" && fields[1] == "APP":
		m.dispatchEraseApp()
	case fields[0] == "WRITE":
		m.dispatchWrite(fields[1:])
	case fields[0] == "DONE":
		m.dispatchDone(fields[1:])
	default:
		m.reply("ERR UNKNOWN\n")
	}
}

func (m *Machine) dispatchEraseApp() {
	_ = m.engine.EraseApplication()
	m.hasher.Init()
	m.reply("OK ERASE\n")
}

func (m *Machine) dispatchWrite(args []string) {
	if len(args) != 3 {
		m.reply("ERR FORMAT\n")
		return
	}
	addr, ok := parseNumber(args[0])
	if !ok {
		m.reply("ERR FORMAT\n")
		return
	}
	length, ok := parseNumber(args[1])
	if !ok {
		m.reply("ERR FORMAT\n")
		return
	}
	wantCRC, ok := parseNumber(args[2])
	if !ok {
		m.reply("ERR FORMAT\n")
		return
	}

	if addr < config.AppStart || addr+length > config.FlashSize {
		m.reply("ERR PARAM\n")
		return
	}

	m.wr = writeTxn{
		dstAddr:  uint32(addr),
		expected: uint32(length),
		wantCRC:  uint32(wantCRC),
		crc:      crc32.New(),
	}
	if length == 0 {
		// Nothing to receive; close the transaction immediately the way
		// the final-byte path would. The CRC of zero bytes is 0, so only a
		// declared CRC of 0 gets OK WRITE.
		if m.wr.crc.Sum() == m.wr.wantCRC {
			m.reply("OK WRITE\n")
		} else {
			m.reply("ERR CRC\n")
		}
		m.wr = writeTxn{}
		return
	}
	m.state = StateWriteData
}

const sigHexLen = 128 // 64 raw bytes, two hex characters each

func (m *Machine) dispatchDone(args []string) {
	if len(args) != 1 || len(args[0]) != sigHexLen {
		m.reply("ERR FORMAT\n")
		return
	}
	raw, err := hex.DecodeString(args[0])
	if err != nil || len(raw) != 64 {
		m.reply("ERR FORMAT\n")
		return
	}
	var sig ed25519verify.Signature
	copy(sig[:], raw)

	var digest [32]byte
	m.hasher.Finalize(&digest)
	m.hasher.Init()

	if !ed25519verify.Verify(m.pubKey, digest[:], sig) {
		m.reply("ERR SIGNATURE\n")
		return
	}

	m.reply("OK DONE\n")
	_ = m.engine.SetAppValid()
	m.launcher.Jump()
}
