// Package entry implements the boot-time decision between staying resident
// in the loader and jumping to the installed application, and the launcher
// that performs the jump.
package entry

import "github.com/sentryboot/sentryboot/config"

// LineCoding mirrors the subset of the USB CDC SET_LINE_CODING request the
// predicate below needs: the baud rate the host most recently asked for.
// The full request also carries stop bits, parity, and data bits, which no
// part of this loader's entry decision cares about.
type LineCoding struct {
	BaudRate uint32
}

// touchBaud is the conventional "stay in the loader" baud rate a host opens
// the port at.
const touchBaud = 1200

// ShouldStayResident reports whether the loader must remain resident
// rather than jump to the application: either the host has asked to stay
// (the 1200-baud touch) or the application region has no valid installed
// image (the marker at app_start-4 does not hold the expected magic).
func ShouldStayResident(marker uint32, lineCoding LineCoding) bool {
	return lineCoding.BaudRate == touchBaud || marker != config.AppValidMagic
}
