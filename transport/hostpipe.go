// Package transport provides the host-buildable Transport backend: an
// in-process byte pipe built directly on usbring's SPSC rings, the same
// queues the tinygo-tagged USB backend uses for its interrupt bottom half.
// It is what cmd/sentryctl drives the protocol state machine over when
// exercising it against flash/simnvm instead of real hardware, and what
// tests use to model "interrupt writes RX, main loop reads RX" with a
// second goroutine standing in for the interrupt.
package transport

import "github.com/sentryboot/sentryboot/usbring"

// HostPipe implements protocol.Transport without depending on the protocol
// package (the interface is small enough to satisfy structurally).
type HostPipe struct {
	rx usbring.Ring
	tx usbring.Ring
}

// New returns an empty HostPipe.
func New() *HostPipe {
	return &HostPipe{}
}

// Feed pushes a byte into the RX ring, as if it had just arrived from the
// host. It reports false if the RX ring is full.
func (p *HostPipe) Feed(b byte) bool {
	return p.rx.Push(b)
}

// ReadByte implements protocol.Transport by popping the next RX byte.
func (p *HostPipe) ReadByte() (byte, bool) {
	return p.rx.Pop()
}

// WriteByte implements protocol.Transport. It spins (WritePump is a no-op
// on this backend, so the spin only ends once the caller drains Out) until
// the TX ring has room.
func (p *HostPipe) WriteByte(b byte) {
	for !p.tx.Push(b) {
		p.WritePump()
	}
}

// WritePump is a no-op: there is no USB task to service on the host.
func (p *HostPipe) WritePump() {}

// Out pops every byte currently queued on the TX side and returns it.
func (p *HostPipe) Out() []byte {
	var out []byte
	p.tx.Drain(func(b byte) bool {
		out = append(out, b)
		return true
	})
	return out
}
