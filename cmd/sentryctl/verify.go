package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sentryboot/sentryboot/config"
	"github.com/sentryboot/sentryboot/ed25519verify"
	"github.com/sentryboot/sentryboot/entry"
	"github.com/sentryboot/sentryboot/flash"
	"github.com/sentryboot/sentryboot/flash/simnvm"
	"github.com/sentryboot/sentryboot/internal/crc32"
	"github.com/sentryboot/sentryboot/protocol"
	"github.com/sentryboot/sentryboot/transport"
)

// verifyCommand drives the exact ERASE APP / WRITE / DONE wire sequence a
// real host would send, over an in-process pipe, against the in-memory NVM
// model — a dry run of a complete install with no target hardware
// involved. It reports the loader's replies and whether the image was
// accepted.
func verifyCommand(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var (
		imagePath string
		pubPath   string
		sigHex    string
	)
	fs.StringVar(&imagePath, "f", "", "image file")
	fs.StringVar(&pubPath, "pub", "", "raw 32-byte Ed25519 public key file")
	fs.StringVar(&sigHex, "sig", "", "128-hex-char Ed25519 signature over the image's SHA-256 digest")
	fs.Parse(args)

	if imagePath == "" || pubPath == "" || sigHex == "" {
		fatalUsage("-f, -pub, and -sig are required")
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		fatalf("read image: %v", err)
	}
	pubBytes, err := os.ReadFile(pubPath)
	if err != nil {
		fatalf("read public key: %v", err)
	}
	if len(pubBytes) != 32 {
		fatalf("public key file must be 32 raw bytes, got %d", len(pubBytes))
	}
	var pub ed25519verify.PublicKey
	copy(pub[:], pubBytes)

	ctrl := simnvm.New()
	e := flash.NewEngine(ctrl)
	launcher := entry.NewHost()
	pipe := transport.New()
	m := protocol.NewMachine(pipe, e, pub, launcher)

	send := func(line string) string {
		for _, b := range []byte(line) {
			m.Feed(b)
		}
		m.Feed('\n')
		return string(pipe.Out())
	}
	sendRaw := func(data []byte) {
		for _, b := range data {
			m.Feed(b)
		}
	}

	fmt.Print(send("ERASE APP"))

	crc := crc32.Checksum(image)
	fmt.Print(send(fmt.Sprintf("WRITE %d %d 0x%x", config.AppStart, len(image), crc)))
	sendRaw(image)
	fmt.Print(string(pipe.Out()))

	reply := send("DONE " + sigHex)
	fmt.Print(reply)

	if launcher.Jumped {
		fmt.Println("verify: image accepted, loader would jump to the application")
		return
	}
	fmt.Println("verify: image rejected, loader remains resident")
	os.Exit(1)
}
