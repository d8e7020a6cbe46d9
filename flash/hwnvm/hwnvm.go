// Package hwnvm drives the target's on-chip NVM controller directly through
// its memory-mapped register block. It implements flash.NVMController and is
// only ever linked into the tinygo-built firmware image; host builds and
// tests use flash/simnvm instead.
//
//go:build tinygo

package hwnvm

import (
	"unsafe"

	"github.com/sentryboot/sentryboot/config"
	"github.com/sentryboot/sentryboot/flash"
)

// Register offsets and bit positions for the NVM controller block, named the
// way a datasheet names them rather than by what the loader uses them for.
const (
	nvmctrlBase = 0x41004000

	regCTRLA  = 0x00 // command register
	regCTRLB  = 0x04 // manual write / auto-erase configuration
	regSTATUS = 0x18
	regADDR   = 0x1c

	ctrlaCMDEX   = 0xA500 // command execute key, OR'd with the command below
	cmdEraseRow  = 0x01
	cmdWritePage = 0x04

	statusReady = 1 << 2
)

func reg32(offset uintptr) *uint32 {
	return (*uint32)(unsafe.Pointer(uintptr(nvmctrlBase) + offset))
}

func load(offset uintptr) uint32 {
	return *reg32(offset)
}

func store(offset uintptr, v uint32) {
	*reg32(offset) = v
}

// Controller drives the real NVM peripheral. The zero value is ready to use;
// Init configures manual-write mode so ProgramPage controls exactly when a
// page write commits.
type Controller struct{}

func New() *Controller {
	return &Controller{}
}

func (c *Controller) Init() {
	store(regCTRLB, 1) // manual write mode: a page buffer commits only on an explicit write command
	c.WaitReady()
}

func (c *Controller) WaitReady() {
	for load(regSTATUS)&statusReady == 0 {
	}
}

func (c *Controller) EraseRow(addr uint32) error {
	if addr%config.RowSize != 0 {
		return errAlignment("erase", addr)
	}
	c.WaitReady()
	store(regADDR, addr)
	store(regCTRLA, ctrlaCMDEX|cmdEraseRow)
	c.WaitReady()
	return nil
}

func (c *Controller) ProgramPage(addr uint32, page [flash.PageSize]byte) error {
	if addr%config.PageSize != 0 {
		return errAlignment("program", addr)
	}
	c.WaitReady()

	// The page buffer is written through a pointer into flash address space
	// itself; the controller latches the words and only commits them to NVM
	// on the write-page command below.
	flashWords := (*[flash.PageSize / 4]uint32)(unsafe.Pointer(uintptr(addr)))
	pageWords := (*[flash.PageSize / 4]uint32)(unsafe.Pointer(&page[0]))
	*flashWords = *pageWords

	store(regADDR, addr)
	store(regCTRLA, ctrlaCMDEX|cmdWritePage)
	c.WaitReady()
	return nil
}

func errAlignment(op string, addr uint32) error {
	return &alignmentError{op: op, addr: addr}
}

type alignmentError struct {
	op   string
	addr uint32
}

func (e *alignmentError) Error() string {
	return "hwnvm: " + e.op + " address is misaligned"
}
