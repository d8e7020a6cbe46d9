package main

import (
	"flag"
	"fmt"
	"os"
)

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func fatalUsage(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
	sentryctl <command> [arguments]

Commands:
	sign	 sign a firmware image with an Ed25519 private key
	flash	 flash an image against the in-memory NVM model
	verify	 dry-run an ERASE/WRITE/DONE install against the in-memory NVM model
	monitor	 attach an interactive serial session to a target
`)
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
	}

	switch cmd := flag.Arg(0); cmd {
	case "sign":
		signCommand(flag.Args()[1:])
	case "flash":
		flashCommand(flag.Args()[1:])
	case "verify":
		verifyCommand(flag.Args()[1:])
	case "monitor":
		monitorCommand(flag.Args()[1:])
	case "help":
		usage()
	default:
		fatalUsage("unknown command %q", cmd)
	}
}
