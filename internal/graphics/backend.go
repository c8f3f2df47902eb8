// Package graphics provides framebuffer sinks for the emulator: an
// Ebitengine window and a headless runner.
package graphics

// Core is the emulation a backend drives: one frame at a time, reading
// the finished framebuffer back and feeding controller state in.
type Core interface {
	StepFrame()
	Framebuffer() []uint32
	SetController(port int, buttons uint8)
	Halted() bool
}

// Backend runs a Core until it halts or the frontend quits.
type Backend interface {
	Run(core Core) error
	Name() string
}
