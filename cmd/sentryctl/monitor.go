package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// monitorCommand opens a serial port and pumps stdin to it and its
// received bytes to stdout, the interactive complement to sign/flash/verify
// for talking to real target hardware. It is the adaptation of a plain
// terminal tool to this domain: raw mode on both ends, and a -touch flag
// that performs the 1200-baud entry-signaling convention before attaching.
func monitorCommand(args []string) {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	var (
		baud      uint
		touchFlag bool
	)
	fs.UintVar(&baud, "baud", 115200, "baud rate to open the port at")
	fs.BoolVar(&touchFlag, "touch", false, "perform the 1200-baud touch before attaching")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fatalUsage("usage: sentryctl monitor [-baud N] [-touch] <device>")
	}
	path := fs.Arg(0)

	if touchFlag {
		if err := touch(path); err != nil {
			fatalf("touch: %v", err)
		}
	}

	f, err := openSerial(path, uint32(baud))
	if err != nil {
		fatalf("%v", err)
	}
	defer f.Close()

	stdinFD := int(os.Stdin.Fd())
	stdinTerm, err := unix.IoctlGetTermios(stdinFD, ioctlGetTermios)
	if err == nil {
		raw := *stdinTerm
		raw.Lflag &^= unix.ICANON | unix.ECHO
		raw.Cc[unix.VMIN] = 1
		raw.Cc[unix.VTIME] = 0
		unix.IoctlSetTermios(stdinFD, ioctlSetTermios, &raw)
		defer unix.IoctlSetTermios(stdinFD, ioctlSetTermios, stdinTerm)
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if _, err := f.Write(buf[:n]); err != nil {
				return
			}
		}
	}()

	buf := make([]byte, 256)
	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}
		fmt.Print(string(buf[:n]))
	}
}
