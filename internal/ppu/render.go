package ppu

// renderScanline draws one full 256-pixel row: background tiles via
// the v register, up to 8 sprites, then composition with priority and
// sprite-0 hit detection. Called at cycle 0 of each visible scanline
// while rendering is enabled.
func (p *PPU) renderScanline() {
	y := p.scanline

	var bgPixel [Width]uint8
	var bgPalette [Width]uint8

	if p.mask&0x08 != 0 {
		v := p.v

		// 33 tiles: one extra to cover the fine-X overshoot
		for tile := 0; tile < 33; tile++ {
			tileID := p.busRead(0x2000 | (v & 0x0FFF))

			attrByte := p.busRead(0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07))
			shift := ((v >> 4) & 0x04) | (v & 0x02)
			pal := (attrByte >> shift) & 0x03

			patternBase := uint16(0x0000)
			if p.ctrl&0x10 != 0 {
				patternBase = 0x1000
			}
			fineY := (v >> 12) & 0x07
			plane0 := p.busRead(patternBase + uint16(tileID)*16 + fineY)
			plane1 := p.busRead(patternBase + uint16(tileID)*16 + fineY + 8)

			for px := 0; px < 8; px++ {
				screenX := tile*8 + px - int(p.fineX)
				if screenX < 0 || screenX >= Width {
					continue
				}
				bit := 7 - px
				pixel := ((plane1>>bit)&1)<<1 | ((plane0 >> bit) & 1)
				bgPixel[screenX] = pixel
				bgPalette[screenX] = pal
			}

			// Advance coarse X in the local copy of v
			if v&0x001F == 31 {
				v &^= 0x001F
				v ^= 0x0400
			} else {
				v++
			}
		}
	}

	var sprColor [Width]uint8
	var sprPriority [Width]uint8
	var sprOpaque [Width]bool
	var sprZero [Width]bool

	if p.mask&0x10 != 0 {
		spriteHeight := 8
		if p.ctrl&0x20 != 0 {
			spriteHeight = 16
		}

		// Scan OAM in order, keeping the first 8 sprites on this line
		var spriteIndices [8]int
		count := 0
		for i := 0; i < 64 && count < 8; i++ {
			sy := int(p.oam[i*4])
			row := y - (sy + 1)
			if row >= 0 && row < spriteHeight {
				spriteIndices[count] = i
				count++
			}
		}

		// Render in reverse so lower OAM indexes overwrite higher ones
		for s := count - 1; s >= 0; s-- {
			i := spriteIndices[s]
			sy := p.oam[i*4+0]
			tile := p.oam[i*4+1]
			attr := p.oam[i*4+2]
			sx := p.oam[i*4+3]

			row := y - (int(sy) + 1)
			if attr&0x80 != 0 { // vertical flip
				row = spriteHeight - 1 - row
			}

			var patternAddr uint16
			if spriteHeight == 8 {
				table := uint16(0x0000)
				if p.ctrl&0x08 != 0 {
					table = 0x1000
				}
				patternAddr = table + uint16(tile)*16 + uint16(row)
			} else {
				// 8x16: bank selected by bit 0 of the tile index
				table := uint16(0x0000)
				if tile&1 != 0 {
					table = 0x1000
				}
				tileNum := tile & 0xFE
				if row >= 8 {
					tileNum++
					row -= 8
				}
				patternAddr = table + uint16(tileNum)*16 + uint16(row)
			}

			plane0 := p.busRead(patternAddr)
			plane1 := p.busRead(patternAddr + 8)

			for px := 0; px < 8; px++ {
				bit := 7 - px
				if attr&0x40 != 0 { // horizontal flip
					bit = px
				}
				pixel := ((plane1>>bit)&1)<<1 | ((plane0 >> bit) & 1)
				if pixel == 0 {
					continue
				}

				screenX := int(sx) + px
				if screenX >= Width {
					continue
				}

				palAddr := 0x10 + uint16(attr&0x03)*4 + uint16(pixel)
				sprColor[screenX] = p.palette[paletteIndex(0x3F00 | palAddr)]
				sprPriority[screenX] = (attr >> 5) & 1
				sprOpaque[screenX] = true
				if i == 0 {
					sprZero[screenX] = true
				}
			}
		}
	}

	// Composite background and sprites into the framebuffer
	for x := 0; x < Width; x++ {
		showBG := bgPixel[x] != 0 && p.mask&0x08 != 0 && (x >= 8 || p.mask&0x02 != 0)
		showSpr := sprOpaque[x] && p.mask&0x10 != 0 && (x >= 8 || p.mask&0x04 != 0)

		if showBG && showSpr && sprZero[x] && x != 255 {
			p.status |= 0x40 // sprite 0 hit
		}

		var color uint8
		switch {
		case !showBG && !showSpr:
			color = p.palette[0]
		case showSpr && !showBG:
			color = sprColor[x]
		case showBG && !showSpr:
			color = p.palette[uint16(bgPalette[x])*4+uint16(bgPixel[x])]
		default:
			if sprPriority[x] == 0 {
				color = sprColor[x]
			} else {
				color = p.palette[uint16(bgPalette[x])*4+uint16(bgPixel[x])]
			}
		}

		p.framebuffer[y*Width+x] = nesPalette[color&0x3F]
	}

	// Post-scanline v updates: fine Y increment, then horizontal copy
	p.incrementY()
	p.copyX()
}
