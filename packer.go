package dicing

// packResult holds the baked atlas textures, the per-atlas placement
// tables and the atlas index assigned to every sprite grid.
type packResult struct {
	atlases    []*Texture
	placements []map[*CanonicalUnit]Placement
	// grid index -> atlas index; -1 for grids with no packable content.
	spriteAtlas []int
}

// pack arranges canonical units into one or more atlas textures with a
// deterministic shelf scheme: cells fill rows left to right, rows stack
// top to bottom, a fresh atlas opens when the size limit is reached.
// Whole sprites are grouped per atlas so every diced sprite samples a
// single texture; sprites sharing canonical units are preferred as
// page mates to maximize reuse.
func pack(grids []*spriteGrid, prefs *Prefs) (*packResult, error) {
	cell := prefs.paddedUnitSize()
	if cell > prefs.AtlasSizeLimit {
		return nil, &AtlasOverflowError{Reason: "padded unit size exceeds atlas size limit"}
	}
	perRow := prefs.AtlasSizeLimit / cell
	capacity := perRow * perRow

	res := &packResult{spriteAtlas: make([]int, len(grids))}
	for i := range res.spriteAtlas {
		res.spriteAtlas[i] = -1
	}

	pending := 0
	packed := make([]bool, len(grids))
	for i, g := range grids {
		if len(g.unique) == 0 {
			packed[i] = true
			continue
		}
		pending++
	}

	total := pending
	for pending > 0 {
		prefs.report("packing units", total-pending, total)
		pageUnits, pagedGrids, err := fillPage(grids, packed, capacity)
		if err != nil {
			return nil, err
		}
		atlasIdx := len(res.atlases)
		if prefs.MaxAtlasCount > 0 && atlasIdx >= prefs.MaxAtlasCount {
			return nil, &AtlasOverflowError{Reason: "atlas count limit reached; raise MaxAtlasCount or AtlasSizeLimit"}
		}
		tex, placements := bakeAtlas(atlasIdx, pageUnits, perRow, prefs)
		res.atlases = append(res.atlases, tex)
		res.placements = append(res.placements, placements)
		for _, gi := range pagedGrids {
			res.spriteAtlas[gi] = atlasIdx
			packed[gi] = true
			pending--
		}
	}
	prefs.report("packing units", total, total)
	return res, nil
}

// fillPage greedily picks the pending sprite adding the fewest new
// units to the page until no further sprite fits. Ties resolve to the
// lowest sprite index, keeping the result deterministic.
func fillPage(grids []*spriteGrid, packed []bool, capacity int) ([]*CanonicalUnit, []int, error) {
	var pageUnits []*CanonicalUnit
	onPage := make(map[*CanonicalUnit]bool)
	var pagedGrids []int

	for {
		best := -1
		bestNew := int(^uint(0) >> 1)
		for i, g := range grids {
			if packed[i] || containsInt(pagedGrids, i) {
				continue
			}
			fresh := 0
			for _, c := range g.unique {
				if !onPage[c] {
					fresh++
				}
			}
			if fresh < bestNew {
				best = i
				bestNew = fresh
			}
		}
		if best < 0 {
			break
		}
		if len(pageUnits)+bestNew > capacity {
			if len(pagedGrids) == 0 {
				return nil, nil, &AtlasOverflowError{
					Sprite: grids[best].src.Id,
					Reason: "unique unit count exceeds single atlas capacity; increase AtlasSizeLimit",
				}
			}
			break
		}
		for _, c := range grids[best].unique {
			if !onPage[c] {
				onPage[c] = true
				pageUnits = append(pageUnits, c)
			}
		}
		pagedGrids = append(pagedGrids, best)
	}
	return pageUnits, pagedGrids, nil
}

// bakeAtlas writes the padded pixels of every page unit into a fresh
// texture and records the inner rect and UV rect of each cell.
func bakeAtlas(index int, units []*CanonicalUnit, perRow int, prefs *Prefs) (*Texture, map[*CanonicalUnit]Placement) {
	cell := prefs.paddedUnitSize()
	cols := len(units)
	if cols > perRow {
		cols = perRow
	}
	rows := ceilDiv(len(units), cols)
	width := cols * cell
	height := rows * cell
	if prefs.AtlasPOT {
		side := nextPowerOfTwo(maxInt(width, height))
		width, height = side, side
	} else if prefs.AtlasSquare {
		side := maxInt(width, height)
		width, height = side, side
	}

	pixels := make([]byte, width*height*4)
	placements := make(map[*CanonicalUnit]Placement, len(units))
	for i, c := range units {
		col := i % cols
		row := i / cols
		blitUnit(pixels, width, c.Padded, cell, col*cell, row*cell)
		rect := PixelRect{
			X:      col*cell + prefs.Padding,
			Y:      row*cell + prefs.Padding,
			Width:  prefs.UnitSize,
			Height: prefs.UnitSize,
		}
		placements[c] = Placement{
			Atlas: index,
			Rect:  rect,
			UV:    insetUV(normalizeRect(rect, width, height), prefs.UVInset),
		}
	}
	return createAtlasTexture(index, width, height, pixels), placements
}

func blitUnit(dst []byte, dstWidth int, src []byte, side, x0, y0 int) {
	for y := 0; y < side; y++ {
		from := y * side * 4
		to := ((y0+y)*dstWidth + x0) * 4
		copy(dst[to:to+side*4], src[from:from+side*4])
	}
}

func normalizeRect(r PixelRect, width, height int) Rect {
	return Rect{
		X:      float32(r.X) / float32(width),
		Y:      float32(r.Y) / float32(height),
		Width:  float32(r.Width) / float32(width),
		Height: float32(r.Height) / float32(height),
	}
}

func insetUV(r Rect, inset float32) Rect {
	if inset <= 0 {
		return r
	}
	dx := inset * (r.Width / 2)
	dy := inset * (r.Height / 2)
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width - dx*2, Height: r.Height - dy*2}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func containsInt(s []int, v int) bool {
	for _, n := range s {
		if n == v {
			return true
		}
	}
	return false
}
