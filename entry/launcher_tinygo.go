// Real hardware vector-table install and jump. The sequence is: disable
// interrupts, point SCB.VTOR at the application's vector table, load its
// initial stack pointer and reset handler from the first two words of the
// application region, then switch the processor's stack pointer and branch
// to the reset handler. None of this is expressible in portable Go; it is
// isolated behind the Launcher interface so everything else in this
// package stays host-testable.
//
//go:build tinygo

package entry

import (
	"unsafe"

	"github.com/sentryboot/sentryboot/config"
)

// scbVTOR is the Cortex-M System Control Block's Vector Table Offset
// Register.
const scbVTOR = 0xE000ED08

// Real is the production Launcher: it performs an unreturning jump to the
// installed application.
type Real struct{}

// NewReal returns the hardware Launcher.
func NewReal() *Real { return &Real{} }

// Jump disables interrupts, installs the application's vector table, and
// transfers control to its reset handler. It does not return.
func (l *Real) Jump() {
	disableInterrupts()

	appBase := uint32(config.AppStart)
	*(*uint32)(unsafe.Pointer(uintptr(scbVTOR))) = appBase

	sp := *(*uint32)(unsafe.Pointer(uintptr(appBase)))
	pc := *(*uint32)(unsafe.Pointer(uintptr(appBase + 4)))

	jumpTo(sp, pc)

	// Unreachable: jumpTo never returns.
	for {
	}
}

// disableInterrupts and jumpTo are implemented in processor-specific
// assembly (CPSID i; MSR MSP, r0; BX r1) and are not expressible in
// portable Go.
func disableInterrupts()
func jumpTo(sp, pc uint32)
