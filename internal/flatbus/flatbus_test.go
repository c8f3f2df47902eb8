package flatbus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadWrite(t *testing.T) {
	b := New()
	b.Write(0x1234, 0xAB)
	if got := b.Read(0x1234); got != 0xAB {
		t.Errorf("[$1234] = $%02X, want $AB", got)
	}
	if got := b.Read(0x0000); got != 0 {
		t.Errorf("fresh bus not zeroed: $%02X", got)
	}
}

func TestLoadAtBase(t *testing.T) {
	b := New()
	if err := b.Load([]uint8{0x01, 0x02, 0x03}, 0x8000); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Read(0x8000) != 0x01 || b.Read(0x8002) != 0x03 {
		t.Error("loaded bytes not readable at base")
	}
}

func TestLoadRejectsOverflow(t *testing.T) {
	b := New()
	data := make([]uint8, 0x200)
	if err := b.Load(data, 0xFF00); err == nil {
		t.Error("expected error for image running past 64KB")
	}
	// Exactly filling the top is fine
	if err := b.Load(make([]uint8, 0x100), 0xFF00); err != nil {
		t.Errorf("image ending at $FFFF rejected: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.bin")
	if err := os.WriteFile(path, []byte{0xA9, 0x42}, 0o644); err != nil {
		t.Fatal(err)
	}

	b := New()
	if err := b.LoadFile(path, 0x0600); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if b.Read(0x0600) != 0xA9 || b.Read(0x0601) != 0x42 {
		t.Error("file contents not loaded at base")
	}
}

func TestLoadFileMissing(t *testing.T) {
	b := New()
	if err := b.LoadFile("/no/such/file.bin", 0); err == nil {
		t.Error("expected error for missing file")
	}
}
