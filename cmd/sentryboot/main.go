// cmd/sentryboot is the firmware entrypoint: it wires the real NVM
// controller, the on-target USB transport, and the protocol state machine
// together and runs the main loop forever. Clock/power/GPIO bring-up, the
// CDC-ACM class driver, and the 1200-baud touch/entry decision that
// precedes this package's main loop are out of scope (see the top-level
// design notes) and are expected to be supplied by platform-specific
// startup code that calls Run only after deciding to stay resident.
//
//go:build tinygo

package main

import (
	"encoding/hex"

	"github.com/sentryboot/sentryboot/ed25519verify"
	"github.com/sentryboot/sentryboot/entry"
	"github.com/sentryboot/sentryboot/flash"
	"github.com/sentryboot/sentryboot/flash/hwnvm"
	"github.com/sentryboot/sentryboot/protocol"
	"github.com/sentryboot/sentryboot/transport"
)

// builtinPublicKey is the Ed25519 public key compiled into this binary.
// It must be replaced with the key that matches the private key used by
// the host's `sentryctl sign` tool before shipping a real image.
const builtinPublicKey = "8a88e3dd7409f195fd52db2d3cba5d72ca6709bf1d94121bf3748801b40f6f5c"

func main() {
	var pub ed25519verify.PublicKey
	raw, err := hex.DecodeString(builtinPublicKey)
	if err != nil || len(raw) != 32 {
		panic("sentryboot: malformed builtin public key")
	}
	copy(pub[:], raw)

	ctrl := hwnvm.New()
	e := flash.NewEngine(ctrl)
	launcher := entry.NewReal()
	usb := transport.NewUSBCDC()

	m := protocol.NewMachine(usb, e, pub, launcher)
	m.Run()
}
