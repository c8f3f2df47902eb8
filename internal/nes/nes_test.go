package nes

import (
	"bytes"
	"testing"

	"ricoh/internal/cartridge"
)

// testSystem builds a system around a synthetic one-bank NROM image
// with the given program at $8000 and, optionally, an NMI handler.
func testSystem(t *testing.T, program []uint8, nmiHandler []uint8) *System {
	t.Helper()

	header := make([]byte, 16)
	copy(header, []byte{0x4E, 0x45, 0x53, 0x1A})
	header[4] = 1 // PRG banks
	header[5] = 1 // CHR banks

	prg := make([]byte, 16384)
	copy(prg, program)
	copy(prg[0x0100:], nmiHandler) // CPU $8100
	prg[0x3FFA] = 0x00             // NMI vector -> $8100
	prg[0x3FFB] = 0x81
	prg[0x3FFC] = 0x00 // reset vector -> $8000
	prg[0x3FFD] = 0x80

	chr := make([]byte, 8192)

	image := append(append(header, prg...), chr...)
	cart, err := cartridge.LoadFromReader(bytes.NewReader(image))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	return New(cart)
}

// jmpSelf is a tight loop at $8000.
var jmpSelf = []uint8{0x4C, 0x00, 0x80}

func TestResetVectorInstalled(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)
	if sys.CPU.PC != 0x8000 {
		t.Errorf("PC = $%04X, want $8000", sys.CPU.PC)
	}
}

func TestRAMMirroring(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	sys.Write(0x0005, 0xAA)
	for _, mirror := range []uint16{0x0805, 0x1005, 0x1805} {
		if got := sys.Read(mirror); got != 0xAA {
			t.Errorf("[$%04X] = $%02X, want $AA (RAM mirror)", mirror, got)
		}
	}

	sys.Write(0x1FFF, 0x55)
	if got := sys.Read(0x07FF); got != 0x55 {
		t.Error("write through a mirror did not land in RAM")
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	// $200B/$200C and $3FF3/$3FF4 mirror OAMADDR/OAMDATA
	sys.Write(0x200B, 0x20)
	sys.Write(0x200C, 0xCD)
	sys.Write(0x3FF3, 0x20)
	if got := sys.Read(0x3FF4); got != 0xCD {
		t.Errorf("OAM readback through $3FF4 = $%02X, want $CD", got)
	}
}

func TestAPUStub(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	for _, addr := range []uint16{0x4000, 0x4008, 0x4015, 0x401F} {
		if got := sys.Read(addr); got != 0 {
			t.Errorf("[$%04X] = $%02X, want 0 (APU stub)", addr, got)
		}
	}
	// Writes are discarded without effect
	sys.Write(0x4000, 0xFF)
	if got := sys.Read(0x4000); got != 0 {
		t.Error("APU stub retained a write")
	}
}

func TestCartridgeSpaceVisible(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	if got := sys.Read(0xFFFC); got != 0x00 {
		t.Errorf("[$FFFC] = $%02X, want $00", got)
	}
	if got := sys.Read(0xFFFD); got != 0x80 {
		t.Errorf("[$FFFD] = $%02X, want $80", got)
	}
	if got := sys.Read(0x8000); got != 0x4C {
		t.Errorf("[$8000] = $%02X, want $4C", got)
	}
}

func TestOAMDMA(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	for i := 0; i < 256; i++ {
		sys.Write(uint16(0x0300+i), uint8(i^0x5A))
	}

	before := sys.CPU.Cycles()
	sys.Write(0x4014, 0x03)
	sys.Step()

	if got := sys.CPU.Cycles() - before; got != 514 {
		t.Errorf("DMA charged %d CPU cycles, want 514", got)
	}

	for _, i := range []int{0, 1, 127, 255} {
		sys.Write(0x2003, uint8(i))
		if got := sys.Read(0x2004); got != uint8(i^0x5A) {
			t.Errorf("OAM[%d] = $%02X, want $%02X", i, got, uint8(i^0x5A))
		}
	}
}

func TestOAMDMATicksPPU(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	scanlinesBefore := sys.PPU.Scanline()
	sys.Write(0x4014, 0x00)
	sys.Step()

	// 1542 ticks is more than four scanlines
	if sys.PPU.Scanline() == scanlinesBefore {
		t.Error("DMA stall did not advance the PPU")
	}
}

func TestStepFrameAdvancesFrameCounter(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	start := sys.PPU.Frame()
	sys.StepFrame()
	if sys.PPU.Frame() != start+1 {
		t.Errorf("frame = %d, want %d", sys.PPU.Frame(), start+1)
	}
}

func TestStepFrameStopsWhenHalted(t *testing.T) {
	sys := testSystem(t, []uint8{0x02}, nil) // illegal opcode

	sys.StepFrame()

	if !sys.Halted() {
		t.Error("CPU should be halted")
	}
	// A second call must return immediately rather than spin
	sys.StepFrame()
}

func TestControllerThroughBus(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	sys.SetController(0, 0xA5)
	sys.Write(0x4016, 1)
	sys.Write(0x4016, 0)

	for i := 0; i < 8; i++ {
		want := (uint8(0xA5) >> i) & 1
		if got := sys.Read(0x4016); got != want {
			t.Errorf("$4016 read %d = %d, want %d", i, got, want)
		}
	}
}

func TestSecondControllerIndependent(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	sys.SetController(0, 0x01)
	sys.SetController(1, 0x02)
	sys.Write(0x4016, 1)
	sys.Write(0x4016, 0)

	if got := sys.Read(0x4017); got != 0 {
		t.Errorf("$4017 bit 0 (A) = %d, want 0", got)
	}
	if got := sys.Read(0x4017); got != 1 {
		t.Errorf("$4017 bit 1 (B) = %d, want 1", got)
	}
}

// enableRendering turns on background+sprite output, then loops.
var enableRendering = []uint8{
	0xA9, 0x1E, //       LDA #$1E
	0x8D, 0x01, 0x20, // STA $2001
	0x4C, 0x05, 0x80, // JMP $8005
}

func TestFramebufferCompleteAfterFrame(t *testing.T) {
	sys := testSystem(t, enableRendering, nil)

	sys.StepFrame()
	sys.StepFrame()

	// With rendering on and empty CHR, every pixel is the backdrop
	// color, not the zero value of a never-written buffer.
	fb := sys.Framebuffer()
	if fb[0] == 0 {
		t.Error("framebuffer untouched after a rendered frame")
	}
	for i := 1; i < len(fb); i++ {
		if fb[i] != fb[0] {
			t.Fatalf("pixel %d = $%08X, want uniform backdrop $%08X", i, fb[i], fb[0])
		}
	}
}

// Identical ROM and inputs must produce bit-identical framebuffers.
func TestDeterminism(t *testing.T) {
	a := testSystem(t, enableRendering, nil)
	b := testSystem(t, enableRendering, nil)

	for i := 0; i < 3; i++ {
		a.StepFrame()
		b.StepFrame()
	}

	fbA, fbB := a.Framebuffer(), b.Framebuffer()
	for i := range fbA {
		if fbA[i] != fbB[i] {
			t.Fatalf("pixel %d differs: $%08X vs $%08X", i, fbA[i], fbB[i])
		}
	}
	if a.CPU.Cycles() != b.CPU.Cycles() {
		t.Error("cycle counts diverged")
	}
}

// NMI handler increments $10 each VBlank.
var incOnNMI = []uint8{0xE6, 0x10, 0x40} // INC $10; RTI

var enableNMI = []uint8{
	0xA9, 0x80, //       LDA #$80
	0x8D, 0x00, 0x20, // STA $2000
	0x4C, 0x05, 0x80, // JMP $8005
}

func TestNMIDeliveredAtVBlank(t *testing.T) {
	sys := testSystem(t, enableNMI, incOnNMI)

	sys.StepFrame()
	sys.StepFrame()

	if got := sys.Read(0x0010); got == 0 {
		t.Error("NMI handler never ran")
	}
}

func TestNoNMIWhenOutputDisabled(t *testing.T) {
	sys := testSystem(t, jmpSelf, incOnNMI)

	sys.StepFrame()
	sys.StepFrame()

	if got := sys.Read(0x0010); got != 0 {
		t.Errorf("NMI handler ran %d times with output disabled", got)
	}
}

func TestSystemReset(t *testing.T) {
	sys := testSystem(t, jmpSelf, nil)

	sys.Write(0x0100, 0xEE)
	sys.StepFrame()
	sys.Reset()

	if got := sys.Read(0x0100); got != 0 {
		t.Error("reset did not clear RAM")
	}
	if sys.CPU.PC != 0x8000 {
		t.Errorf("PC = $%04X after reset, want $8000", sys.CPU.PC)
	}
	if sys.PPU.Frame() != 0 {
		t.Error("reset did not rewind the PPU frame counter")
	}
}
