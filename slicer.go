package dicing

// diceSprite slices a source sprite into a row-major grid of uniform
// units, using ceiling division so non-multiple dimensions keep full
// coverage. Out-of-bounds samples follow Prefs.BorderPad.
func diceSprite(src *SourceSprite, prefs *Prefs) (*spriteGrid, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return nil, &DimensionsError{Sprite: src.Id, Reason: "zero width or height"}
	}
	if len(src.Pixels) != src.Width*src.Height*4 {
		return nil, &DimensionsError{Sprite: src.Id, Reason: "pixel buffer doesn't match dimensions"}
	}

	cols := ceilDiv(src.Width, prefs.UnitSize)
	rows := ceilDiv(src.Height, prefs.UnitSize)
	grid := &spriteGrid{
		src:   src,
		cols:  cols,
		rows:  rows,
		units: make([]*Unit, 0, cols*rows),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			grid.units = append(grid.units, sliceUnit(src, col, row, prefs))
		}
	}
	grid.canon = make([]*CanonicalUnit, len(grid.units))
	return grid, nil
}

func sliceUnit(src *SourceSprite, col, row int, prefs *Prefs) *Unit {
	size := prefs.UnitSize
	pad := prefs.Padding
	x0 := col * size
	y0 := row * size
	inner := samplePixels(src, x0, y0, size, size, prefs.BorderPad)
	padded := samplePixels(src, x0-pad, y0-pad, size+pad*2, size+pad*2, prefs.BorderPad)
	return &Unit{
		Sprite:      src.Id,
		Column:      col,
		Row:         row,
		Pixels:      inner,
		Padded:      padded,
		Transparent: allTransparent(inner),
	}
}

// samplePixels copies a w*h RGBA block starting at (x,y). Samples
// outside the sprite replicate the nearest edge pixel or stay fully
// transparent, per mode.
func samplePixels(src *SourceSprite, x, y, w, h int, mode int) []byte {
	out := make([]byte, w*h*4)
	idx := 0
	for sy := y; sy < y+h; sy++ {
		for sx := x; sx < x+w; sx++ {
			px, py, inside := clampCoord(sx, sy, src.Width, src.Height)
			if inside || mode == BORDER_PAD_REPLICATE {
				from := (py*src.Width + px) * 4
				copy(out[idx:idx+4], src.Pixels[from:from+4])
			}
			idx += 4
		}
	}
	return out
}

func clampCoord(x, y, w, h int) (int, int, bool) {
	inside := x >= 0 && x < w && y >= 0 && y < h
	return saturate(x, w-1), saturate(y, h-1), inside
}

func saturate(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

func allTransparent(pixels []byte) bool {
	for i := 3; i < len(pixels); i += 4 {
		if pixels[i] != 0 {
			return false
		}
	}
	return true
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
