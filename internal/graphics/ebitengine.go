package graphics

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"ricoh/internal/input"
	"ricoh/internal/ppu"
)

// EbitengineBackend opens a scaled window, uploads the framebuffer
// every frame and polls the keyboard for controller 1.
type EbitengineBackend struct {
	title string
	scale int
}

// NewEbitengineBackend creates a windowed backend. Scale multiplies
// the native 256x240 resolution.
func NewEbitengineBackend(title string, scale int) *EbitengineBackend {
	if scale < 1 {
		scale = 1
	}
	return &EbitengineBackend{title: title, scale: scale}
}

// Name identifies the backend.
func (b *EbitengineBackend) Name() string {
	return "ebitengine"
}

// Run drives the core inside the Ebitengine game loop until the window
// closes, Escape is pressed, or the CPU halts.
func (b *EbitengineBackend) Run(core Core) error {
	ebiten.SetWindowSize(ppu.Width*b.scale, ppu.Height*b.scale)
	ebiten.SetWindowTitle(b.title)

	g := &game{
		core:   core,
		frame:  ebiten.NewImage(ppu.Width, ppu.Height),
		pixels: make([]byte, ppu.Width*ppu.Height*4),
	}
	return ebiten.RunGame(g)
}

type game struct {
	core   Core
	frame  *ebiten.Image
	pixels []byte
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || g.core.Halted() {
		return ebiten.Termination
	}
	g.core.SetController(0, pollButtons())
	g.core.StepFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	ConvertARGB(g.core.Framebuffer(), g.pixels)
	g.frame.WritePixels(g.pixels)
	screen.DrawImage(g.frame, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

// keyMap binds the keyboard to the controller byte: arrows for the
// D-pad, Z/X for B/A, Enter for Start, right shift or space for
// Select.
var keyMap = []struct {
	key    ebiten.Key
	button input.Button
}{
	{ebiten.KeyX, input.ButtonA},
	{ebiten.KeyZ, input.ButtonB},
	{ebiten.KeyShiftRight, input.ButtonSelect},
	{ebiten.KeySpace, input.ButtonSelect},
	{ebiten.KeyEnter, input.ButtonStart},
	{ebiten.KeyArrowUp, input.ButtonUp},
	{ebiten.KeyArrowDown, input.ButtonDown},
	{ebiten.KeyArrowLeft, input.ButtonLeft},
	{ebiten.KeyArrowRight, input.ButtonRight},
}

func pollButtons() uint8 {
	var buttons uint8
	for _, m := range keyMap {
		if ebiten.IsKeyPressed(m.key) {
			buttons |= uint8(m.button)
		}
	}
	return buttons
}
