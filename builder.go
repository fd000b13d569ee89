package dicing

import (
	"github.com/flywave/go3d/vec2"
)

// meshRegion is a rectangular group of grid cells covered by a single
// quad. Multi-cell regions only ever hold uniform canonical units, so
// stretching the unit rect over the whole region samples the exact
// same pixels as one quad per cell would.
type meshRegion struct {
	col   int
	row   int
	cols  int
	rows  int
	canon *CanonicalUnit
}

// buildSprite turns one sprite grid and its atlas placement table into
// the final mesh arrays. Quads share corner vertices, triangulate with
// the bottom-left to top-right diagonal and keep a uniform winding.
func buildSprite(grid *spriteGrid, placements map[*CanonicalUnit]Placement, atlasIndex int, prefs *Prefs) (*DicedSprite, error) {
	pivot := prefs.Pivot
	if grid.src.Pivot != nil {
		pivot = *grid.src.Pivot
	}
	sprite := &DicedSprite{
		Id:         grid.src.Id,
		AtlasIndex: atlasIndex,
		Pivot:      pivot,
		Size:       [2]int{grid.src.Width, grid.src.Height},
		PPU:        prefs.PPU,
	}

	for i, c := range grid.canon {
		if c == nil && !(prefs.TrimTransparent && grid.units[i].Transparent) {
			return nil, &GridError{Sprite: grid.src.Id, Column: i % grid.cols, Row: i / grid.cols}
		}
	}

	regions := mergeRegions(grid)
	if len(regions) == 0 {
		sprite.AtlasIndex = -1
		return sprite, nil
	}

	b := &meshBuffer{known: make(map[[4]float32]uint32)}
	unit := prefs.UnitSize
	offX := pivot.X * float32(grid.src.Width)
	offY := pivot.Y * float32(grid.src.Height)
	for _, r := range regions {
		x0 := r.col * unit
		y0 := r.row * unit
		x1 := minInt((r.col+r.cols)*unit, grid.src.Width)
		y1 := minInt((r.row+r.rows)*unit, grid.src.Height)

		uv := placements[r.canon].UV
		uv.Width *= float32(x1-x0) / float32(r.cols*unit)
		uv.Height *= float32(y1-y0) / float32(r.rows*unit)

		b.pushQuad(
			Rect{
				X:      (float32(x0) - offX) / prefs.PPU,
				Y:      (float32(y0) - offY) / prefs.PPU,
				Width:  float32(x1-x0) / prefs.PPU,
				Height: float32(y1-y0) / prefs.PPU,
			},
			uv,
		)
	}

	sprite.Vertices = b.vertices
	sprite.UVs = b.uvs
	sprite.Indices = b.indices
	sprite.Rect = meshBounds(b.vertices)
	return sprite, nil
}

// mergeRegions runs the greedy merge: row-wise run-length merge of
// adjacent cells sharing a uniform canonical unit, then vertical joins
// of runs with identical column span in consecutive rows. Non-uniform
// cells always emit their own single-cell region; trimmed transparent
// cells emit nothing. The heuristic is not an optimal rectangle
// decomposition, only a deterministic one.
func mergeRegions(grid *spriteGrid) []*meshRegion {
	type span struct {
		col  int
		cols int
	}
	var regions []*meshRegion
	prev := make(map[span]*meshRegion)
	for row := 0; row < grid.rows; row++ {
		cur := make(map[span]*meshRegion)
		for col := 0; col < grid.cols; {
			c := grid.at(col, row)
			if c == nil {
				col++
				continue
			}
			cols := 1
			if c.Uniform {
				for col+cols < grid.cols && grid.at(col+cols, row) == c {
					cols++
				}
			}
			key := span{col: col, cols: cols}
			if c.Uniform {
				if p := prev[key]; p != nil && p.canon == c && p.row+p.rows == row {
					p.rows++
					cur[key] = p
					col += cols
					continue
				}
			}
			r := &meshRegion{col: col, row: row, cols: cols, rows: 1, canon: c}
			regions = append(regions, r)
			if c.Uniform {
				cur[key] = r
			}
			col += cols
		}
		prev = cur
	}
	return regions
}

type meshBuffer struct {
	vertices []vec2.T
	uvs      []vec2.T
	indices  []uint32
	known    map[[4]float32]uint32
}

// pushQuad appends two triangles covering pos, sampling uv. Corner
// vertices are shared through the (position, uv) lookup.
func (b *meshBuffer) pushQuad(pos Rect, uv Rect) {
	tl := b.vertex(pos.X, pos.Y, uv.X, uv.Y)
	tr := b.vertex(pos.X+pos.Width, pos.Y, uv.X+uv.Width, uv.Y)
	br := b.vertex(pos.X+pos.Width, pos.Y+pos.Height, uv.X+uv.Width, uv.Y+uv.Height)
	bl := b.vertex(pos.X, pos.Y+pos.Height, uv.X, uv.Y+uv.Height)
	b.indices = append(b.indices, bl, br, tr, tr, tl, bl)
}

func (b *meshBuffer) vertex(x, y, u, v float32) uint32 {
	key := [4]float32{x, y, u, v}
	if idx, ok := b.known[key]; ok {
		return idx
	}
	idx := uint32(len(b.vertices))
	b.vertices = append(b.vertices, vec2.T{x, y})
	b.uvs = append(b.uvs, vec2.T{u, v})
	b.known[key] = idx
	return idx
}

func meshBounds(vertices []vec2.T) Rect {
	if len(vertices) == 0 {
		return Rect{}
	}
	minX, minY := vertices[0][0], vertices[0][1]
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		if v[0] < minX {
			minX = v[0]
		}
		if v[0] > maxX {
			maxX = v[0]
		}
		if v[1] < minY {
			minY = v[1]
		}
		if v[1] > maxY {
			maxY = v[1]
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
