// Package simnvm is a []byte-backed model of the target's NVM controller,
// used by unit tests, by cmd/sentryctl's flash/verify subcommands, and by
// anything else that wants to exercise flash.Engine and the protocol state
// machine without real hardware. It implements flash.NVMController.
package simnvm

import (
	"fmt"

	"github.com/sentryboot/sentryboot/config"
	"github.com/sentryboot/sentryboot/flash"
)

// Controller is an in-memory NVM model. The zero value is not ready for
// use; call New.
type Controller struct {
	mem [config.FlashSize]byte
}

// New returns a Controller with every byte in the erased (0xFF) state.
func New() *Controller {
	c := &Controller{}
	for i := range c.mem {
		c.mem[i] = 0xFF
	}
	return c
}

// Init is a no-op; the model has no wait-state or mode configuration to do.
func (c *Controller) Init() {}

// WaitReady is a no-op; the model never takes time to complete a command.
func (c *Controller) WaitReady() {}

// EraseRow sets every byte of the row at addr back to 0xFF. addr must be
// row-aligned.
func (c *Controller) EraseRow(addr uint32) error {
	if addr%config.RowSize != 0 {
		return fmt.Errorf("simnvm: erase address 0x%x is not row-aligned", addr)
	}
	if uint64(addr)+config.RowSize > config.FlashSize {
		return fmt.Errorf("simnvm: erase row 0x%x exceeds flash size", addr)
	}
	for i := uint32(0); i < config.RowSize; i++ {
		c.mem[addr+i] = 0xFF
	}
	return nil
}

// ProgramPage copies page into the flash model at addr, which must be
// page-aligned. It returns flash.ErrNotErased if any target byte is not
// currently 0xFF, modeling the hardware requirement that a page be erased
// before it is programmed.
func (c *Controller) ProgramPage(addr uint32, page [flash.PageSize]byte) error {
	if addr%config.PageSize != 0 {
		return fmt.Errorf("simnvm: program address 0x%x is not page-aligned", addr)
	}
	if uint64(addr)+config.PageSize > config.FlashSize {
		return fmt.Errorf("simnvm: program page 0x%x exceeds flash size", addr)
	}
	for i := uint32(0); i < config.PageSize; i++ {
		if c.mem[addr+i] != 0xFF {
			return fmt.Errorf("%w: byte at 0x%x is 0x%02x", flash.ErrNotErased, addr+i, c.mem[addr+i])
		}
	}
	copy(c.mem[addr:addr+config.PageSize], page[:])
	return nil
}

// ReadByte returns the current contents of the flash model at addr, for
// tests and tooling that want to inspect the result of a program/erase
// sequence.
func (c *Controller) ReadByte(addr uint32) byte {
	return c.mem[addr]
}

// ReadBytes returns a copy of the flash model contents in [addr, addr+n).
func (c *Controller) ReadBytes(addr, n uint32) []byte {
	out := make([]byte, n)
	copy(out, c.mem[addr:addr+n])
	return out
}
