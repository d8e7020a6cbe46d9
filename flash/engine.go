// Package flash implements the page/row programming discipline the loader
// enforces on top of whatever on-chip NVM controller a target exposes: it
// never depends on a concrete controller, only on the NVMController
// interface below, so the same Engine drives both a real register-poking
// backend (flash/hwnvm) and an in-memory model used by tests and host
// tooling (flash/simnvm).
package flash

import (
	"errors"
	"fmt"

	"github.com/sentryboot/sentryboot/config"
)

// PageSize and RowSize mirror the build-time flash geometry constants; they
// are re-exported here so callers that only import flash don't also need
// the root config package.
const (
	PageSize = config.PageSize
	RowSize  = config.RowSize
)

// ErrNotErased is returned by a NVMController.ProgramPage implementation
// (simnvm's, in particular) when asked to program into a byte that is not
// in the erased (0xFF) state.
var ErrNotErased = errors.New("flash: target page is not erased")

// NVMController is the minimal set of operations the engine needs from a
// concrete NVM peripheral: erase one row, program one page, wait for the
// controller to report it is idle.
type NVMController interface {
	Init()
	EraseRow(addr uint32) error
	ProgramPage(addr uint32, page [PageSize]byte) error
	WaitReady()
}

// Engine enforces the page-granular program / row-granular erase
// discipline described by the target's NVM controller, on top of any
// NVMController implementation.
type Engine struct {
	ctrl NVMController
}

// NewEngine returns an Engine driving ctrl, after calling its Init.
func NewEngine(ctrl NVMController) *Engine {
	ctrl.Init()
	return &Engine{ctrl: ctrl}
}

// EraseRange erases every row overlapping [addr, addr+length), aligning addr
// down to a row boundary and clamping the upper bound at config.FlashSize.
// A length of zero is a no-op.
func (e *Engine) EraseRange(addr, length uint32) error {
	if length == 0 {
		return nil
	}
	start := addr - addr%RowSize
	end := addr + length
	if end > config.FlashSize {
		end = config.FlashSize
	}
	for row := start; row < end; row += RowSize {
		if err := e.ctrl.EraseRow(row); err != nil {
			return fmt.Errorf("flash: erase row 0x%x: %w", row, err)
		}
		e.ctrl.WaitReady()
	}
	return nil
}

// EraseApplication erases every row in [config.AppStart, config.FlashSize),
// the entire application region, without touching the bootloader's own
// rows below AppStart.
func (e *Engine) EraseApplication() error {
	return e.EraseRange(config.AppStart, config.FlashSize-config.AppStart)
}

// Program writes data to addr, which must be page-aligned; data may span
// multiple pages. The final partial page, if any, is padded with 0xFF
// before being programmed. It is an error for addr+len(data) to exceed
// config.FlashSize.
func (e *Engine) Program(addr uint32, data []byte) error {
	if addr%PageSize != 0 {
		return fmt.Errorf("flash: program address 0x%x is not page-aligned", addr)
	}
	if uint64(addr)+uint64(len(data)) > config.FlashSize {
		return fmt.Errorf("flash: program range [0x%x, 0x%x) exceeds flash size", addr, uint64(addr)+uint64(len(data)))
	}

	for off := 0; off < len(data); off += PageSize {
		var page [PageSize]byte
		for i := range page {
			page[i] = 0xFF
		}
		copy(page[:], data[off:])
		pageAddr := addr + uint32(off)
		if err := e.ctrl.ProgramPage(pageAddr, page); err != nil {
			return fmt.Errorf("flash: program page 0x%x: %w", pageAddr, err)
		}
		e.ctrl.WaitReady()
	}
	return nil
}

// SetAppValid writes config.AppValidMagic into the word immediately before
// config.AppStart. Because the NVM controller only programs whole pages,
// this is a read-modify-program over the containing page: every other byte
// of that page is programmed as 0xFF, and the whole page must already be
// erased. The marker lies in the row just below AppStart, which
// EraseApplication does not erase; SetAppValid does not erase it either.
func (e *Engine) SetAppValid() error {
	pageAddr := uint32(config.AppValidAddr - config.AppValidAddr%PageSize)
	offset := config.AppValidAddr - pageAddr
	magic := uint32(config.AppValidMagic)

	var page [PageSize]byte
	for i := range page {
		page[i] = 0xFF
	}
	page[offset] = byte(magic)
	page[offset+1] = byte(magic >> 8)
	page[offset+2] = byte(magic >> 16)
	page[offset+3] = byte(magic >> 24)

	if err := e.ctrl.ProgramPage(pageAddr, page); err != nil {
		return fmt.Errorf("flash: program validity marker: %w", err)
	}
	e.ctrl.WaitReady()
	return nil
}
