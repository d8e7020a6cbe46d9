package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sentryboot/sentryboot/config"
	"github.com/sentryboot/sentryboot/flash"
	"github.com/sentryboot/sentryboot/flash/simnvm"
)

// flashCommand demonstrates the flash engine's page/row discipline against
// the in-memory NVM model, without touching target hardware or speaking
// the wire protocol: it erases the application region and programs an
// image file directly through flash.Engine.
func flashCommand(args []string) {
	fs := flag.NewFlagSet("flash", flag.ExitOnError)
	var imagePath string
	fs.StringVar(&imagePath, "f", "", "image file to program")
	fs.Parse(args)

	if imagePath == "" {
		fatalUsage("-f is required")
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		fatalf("read image: %v", err)
	}
	if uint64(config.AppStart)+uint64(len(image)) > config.FlashSize {
		fatalf("image of %d bytes does not fit in the application region", len(image))
	}

	ctrl := simnvm.New()
	e := flash.NewEngine(ctrl)

	if err := e.EraseApplication(); err != nil {
		fatalf("erase: %v", err)
	}
	if err := e.Program(config.AppStart, image); err != nil {
		fatalf("program: %v", err)
	}

	fmt.Printf("programmed %d bytes at 0x%x\n", len(image), config.AppStart)
}
