// Command ricoh runs iNES ROMs: windowed through Ebitengine, or
// headless for automation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"ricoh/internal/cartridge"
	"ricoh/internal/graphics"
	"ricoh/internal/nes"
	"ricoh/internal/version"
)

func main() {
	var (
		romFile     = flag.String("rom", "", "path to an iNES ROM file")
		headless    = flag.Bool("headless", false, "run without a window")
		frames      = flag.Int("frames", 120, "frames to run in headless mode")
		dump        = flag.String("dump", "", "write the final headless framebuffer as a PPM file")
		scale       = flag.Int("scale", 3, "window scale factor")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *romFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -rom <file.nes> [-headless -frames N -dump out.ppm] [-scale N]\n", os.Args[0])
		os.Exit(1)
	}

	cart, err := cartridge.LoadFromFile(*romFile)
	if err != nil {
		log.Printf("failed to load ROM: %v", err)
		os.Exit(1)
	}

	system := nes.New(cart)

	var backend graphics.Backend
	if *headless {
		backend = &graphics.HeadlessBackend{Frames: *frames, DumpPPM: *dump}
	} else {
		backend = graphics.NewEbitengineBackend("ricoh", *scale)
	}

	if err := backend.Run(system); err != nil {
		log.Printf("%s backend: %v", backend.Name(), err)
		os.Exit(1)
	}

	if system.Halted() {
		log.Printf("CPU halted")
	}
}
