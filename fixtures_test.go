package dicing

import "testing"

var (
	pxR = [4]byte{255, 0, 0, 255}
	pxG = [4]byte{0, 255, 0, 255}
	pxB = [4]byte{0, 0, 255, 255}
	pxY = [4]byte{255, 255, 0, 255}
	pxC = [4]byte{0, 255, 255, 255}
	pxT = [4]byte{0, 0, 0, 0}
)

// mkSprite builds a source sprite from row-major pixel values.
func mkSprite(t *testing.T, id string, w, h int, px ...[4]byte) *SourceSprite {
	t.Helper()
	if len(px) != w*h {
		t.Fatalf("fixture %q: want %d pixels, got %d", id, w*h, len(px))
	}
	buf := make([]byte, 0, len(px)*4)
	for _, p := range px {
		buf = append(buf, p[0], p[1], p[2], p[3])
	}
	return &SourceSprite{Id: id, Width: w, Height: h, Pixels: buf}
}

// fillSprite builds a sprite of uniform blocks: one pixel value per
// blockSize x blockSize cell, cells row-major.
func fillSprite(t *testing.T, id string, cols, rows, blockSize int, blocks ...[4]byte) *SourceSprite {
	t.Helper()
	if len(blocks) != cols*rows {
		t.Fatalf("fixture %q: want %d blocks, got %d", id, cols*rows, len(blocks))
	}
	w := cols * blockSize
	h := rows * blockSize
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b := blocks[(y/blockSize)*cols+x/blockSize]
			copy(buf[(y*w+x)*4:], b[:])
		}
	}
	return &SourceSprite{Id: id, Width: w, Height: h, Pixels: buf}
}

// pref returns minimal test preferences: no insets, unit-scale PPU,
// top-left pivot.
func pref(unit, pad int) *Prefs {
	return &Prefs{
		UnitSize:       unit,
		Padding:        pad,
		AtlasSizeLimit: 2048,
		PPU:            1,
		BorderPad:      BORDER_PAD_REPLICATE,
	}
}

func mustDice(t *testing.T, sources []*SourceSprite, prefs *Prefs) *Artifacts {
	t.Helper()
	arts, err := Dice(sources, prefs)
	if err != nil {
		t.Fatalf("Dice failed: %v", err)
	}
	return arts
}

func mustGrid(t *testing.T, src *SourceSprite, prefs *Prefs) *spriteGrid {
	t.Helper()
	grid, err := diceSprite(src, prefs)
	if err != nil {
		t.Fatalf("diceSprite(%q) failed: %v", src.Id, err)
	}
	return grid
}
