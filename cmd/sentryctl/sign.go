package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"flag"
	"os"

	"github.com/sentryboot/sentryboot/internal/sha256"
)

// signCommand loads an Ed25519 private key and signs the SHA-256 digest of
// an input image, printing the DONE command line the loader expects. With
// -gen-key it instead generates a new private key, writes it to the given
// path, and signs nothing. Signing is ordinary host tooling with no bare-metal or
// allocation constraint, so it uses crypto/ed25519 from the standard
// library rather than the on-target from-scratch verifier.
func signCommand(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	var (
		imagePath string
		keyPath   string
		genKey    string
	)
	fs.StringVar(&imagePath, "f", "", "image file to sign")
	fs.StringVar(&keyPath, "k", "", "raw 64-byte Ed25519 private key file")
	fs.StringVar(&genKey, "gen-key", "", "generate a new private key and write it to this path instead of signing")
	fs.Parse(args)

	if genKey != "" {
		_, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			fatalf("generate key: %v", err)
		}
		if err := os.WriteFile(genKey, priv, 0600); err != nil {
			fatalf("write key: %v", err)
		}
		return
	}

	if imagePath == "" || keyPath == "" {
		fatalUsage("-f and -k are required (or use -gen-key)")
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		fatalf("read image: %v", err)
	}
	keyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		fatalf("read key: %v", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		fatalf("key file must be %d raw bytes, got %d", ed25519.PrivateKeySize, len(keyBytes))
	}
	priv := ed25519.PrivateKey(keyBytes)

	digest := sha256.Sum256(image)
	sig := ed25519.Sign(priv, digest[:])

	os.Stdout.WriteString("DONE " + hex.EncodeToString(sig) + "\n")
}
