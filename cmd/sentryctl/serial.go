package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// openSerial opens path as a raw, non-canonical serial port and sets its
// baud rate. It replaces the hand-rolled TIOCGETA/TIOCSETA syscalls a
// terminal tool would use with x/sys/unix's portable termios accessors, so
// the same code opens the CDC-ACM tty on any of the platforms x/sys/unix
// supports, not just the one the ioctl numbers happen to match.
func openSerial(path string, baud uint32) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	term, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("get termios: %w", err)
	}

	term.Ispeed = baud
	term.Ospeed = baud
	term.Cflag |= unix.CREAD | unix.CLOCAL
	term.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	term.Cc[unix.VMIN] = 1
	term.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, term); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set termios: %w", err)
	}

	return os.NewFile(uintptr(fd), path), nil
}

// touchBaud is the CDC "stay resident" convention from the entry
// predicate: briefly opening the port at 1200 baud.
const touchBaud = 1200

// touch opens path at 1200 baud and immediately closes it, the host side
// of entry.ShouldStayResident's line-coding check.
func touch(path string) error {
	f, err := openSerial(path, touchBaud)
	if err != nil {
		return err
	}
	return f.Close()
}
