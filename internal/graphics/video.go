package graphics

import (
	"fmt"
	"io"
)

// ConvertARGB rewrites 0xAARRGGBB pixels into the RGBA byte order
// texture uploads expect. dst must hold 4*len(src) bytes.
func ConvertARGB(src []uint32, dst []byte) {
	for i, p := range src {
		dst[i*4+0] = byte(p >> 16)
		dst[i*4+1] = byte(p >> 8)
		dst[i*4+2] = byte(p)
		dst[i*4+3] = byte(p >> 24)
	}
}

// WritePPM dumps a framebuffer as a plain-text PPM image.
func WritePPM(w io.Writer, fb []uint32, width, height int) error {
	if _, err := fmt.Fprintf(w, "P3\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := fb[y*width+x]
			if _, err := fmt.Fprintf(w, "%d %d %d ", (p>>16)&0xFF, (p>>8)&0xFF, p&0xFF); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
