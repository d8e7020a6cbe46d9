// On-target Transport: the RX/TX rings usbring provides, with WritePump
// draining TX into the CDC-ACM IN endpoint. The USB device stack and
// class driver that feed RX from an interrupt bottom half and accept TX
// bytes are explicitly out of this loader's scope (see the top-level
// design notes); HardwareWrite is the seam that bring-up code for a given
// target wires to its own endpoint-write routine.
//
//go:build tinygo

package transport

import "github.com/sentryboot/sentryboot/usbring"

// HardwareWrite, once wired by platform bring-up code, attempts to push b
// into the USB IN endpoint's hardware FIFO and reports whether it
// accepted. The default always reports false, so WritePump drains nothing
// and WriteByte keeps spinning on a full TX ring (rather than silently
// dropping bytes) until bring-up code installs the real one.
var HardwareWrite func(b byte) bool = func(byte) bool { return false }

// USBCDC is the on-target Transport over a pair of usbring rings. The
// platform's USB interrupt handler pushes received bytes into RX directly;
// WritePump is called from the main loop to drain TX into hardware.
type USBCDC struct {
	RX usbring.Ring
	TX usbring.Ring
}

// NewUSBCDC returns an empty USBCDC transport.
func NewUSBCDC() *USBCDC {
	return &USBCDC{}
}

func (u *USBCDC) ReadByte() (byte, bool) {
	return u.RX.Pop()
}

func (u *USBCDC) WriteByte(b byte) {
	for !u.TX.Push(b) {
		u.WritePump()
	}
}

func (u *USBCDC) WritePump() {
	u.TX.Drain(HardwareWrite)
}
