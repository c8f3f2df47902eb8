package graphics

import (
	"fmt"
	"os"

	"ricoh/internal/ppu"
)

// HeadlessBackend runs a fixed number of frames without a window,
// optionally dumping the final framebuffer as a PPM image. Used for
// testing and automation.
type HeadlessBackend struct {
	Frames  int
	DumpPPM string
}

// NewHeadlessBackend creates a backend whose Run steps the core for
// frames frames, with no PPM dump.
func NewHeadlessBackend(frames int) *HeadlessBackend {
	return &HeadlessBackend{Frames: frames}
}

// Name identifies the backend.
func (b *HeadlessBackend) Name() string {
	return "headless"
}

// Run steps the core frame by frame, stopping early if the CPU halts.
func (b *HeadlessBackend) Run(core Core) error {
	for i := 0; i < b.Frames; i++ {
		if core.Halted() {
			break
		}
		core.StepFrame()
	}

	if b.DumpPPM == "" {
		return nil
	}
	file, err := os.Create(b.DumpPPM)
	if err != nil {
		return fmt.Errorf("headless: %w", err)
	}
	defer file.Close()
	return WritePPM(file, core.Framebuffer(), ppu.Width, ppu.Height)
}
