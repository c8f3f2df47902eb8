package graphics

import (
	"bytes"
	"strings"
	"testing"
)

func TestConvertARGB(t *testing.T) {
	src := []uint32{0xFF112233, 0x80FFEEDD}
	dst := make([]byte, 8)

	ConvertARGB(src, dst)

	want := []byte{0x11, 0x22, 0x33, 0xFF, 0xFF, 0xEE, 0xDD, 0x80}
	if !bytes.Equal(dst, want) {
		t.Errorf("dst = % X, want % X", dst, want)
	}
}

func TestWritePPM(t *testing.T) {
	fb := []uint32{0xFFFF0000, 0xFF00FF00, 0xFF0000FF, 0xFF000000}
	var buf bytes.Buffer

	if err := WritePPM(&buf, fb, 2, 2); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "P3\n2 2\n255\n") {
		t.Errorf("PPM header wrong: %q", out)
	}
	if !strings.Contains(out, "255 0 0") || !strings.Contains(out, "0 0 255") {
		t.Errorf("pixel data missing: %q", out)
	}
}
