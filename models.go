package dicing

import (
	"github.com/flywave/go3d/vec2"
)

// Pivot is the relative (0.0-1.0) position of the sprite origin point,
// counted from the top-left corner of the sprite rectangle.
type Pivot struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Rect is an axis-aligned rectangle in conventional units or in
// normalized texture space.
type Rect struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// PixelRect is an axis-aligned rectangle in pixels, offsets counted
// from the top-left corner of the texture.
type PixelRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SourceSprite is one input of a dicing operation. Pixels is a
// row-major RGBA8 buffer of Width*Height*4 bytes, immutable once
// ingested.
type SourceSprite struct {
	Id     string
	Width  int
	Height int
	Pixels []byte
	// Optional origin override; Prefs.Pivot applies when nil.
	Pivot *Pivot
}

// Unit is one square block sliced from a source sprite. Pixels holds
// the UnitSize square used for fingerprinting; Padded additionally
// carries the anti-bleeding ring baked into atlases. Never mutated
// after slicing.
type Unit struct {
	Sprite      string
	Column      int
	Row         int
	Pixels      []byte
	Padded      []byte
	Transparent bool
}

// CanonicalUnit is the single representative of all content-equivalent
// unit occurrences. Owned by the Deduplicator; Index is the creation
// order within a run.
type CanonicalUnit struct {
	Index       int
	Pixels      []byte
	Padded      []byte
	Transparent bool
	// All pixels identical; such units render identically when a single
	// quad is stretched over several grid cells.
	Uniform bool
}

// Placement is the location assigned to a canonical unit within one
// atlas texture: the inner (unpadded) pixel rect and its UV rect
// normalized to the atlas dimensions, already inset per Prefs.UVInset.
type Placement struct {
	Atlas int
	Rect  PixelRect
	UV    Rect
}

// spriteGrid is the per-sprite working state: raw units in row-major
// order and, after deduplication, the canonical unit of every cell.
type spriteGrid struct {
	src   *SourceSprite
	cols  int
	rows  int
	units []*Unit
	canon []*CanonicalUnit
	// Distinct canonical units referenced by this sprite, in first-use
	// order. Drives atlas page grouping.
	unique []*CanonicalUnit
}

func (g *spriteGrid) at(col, row int) *CanonicalUnit {
	return g.canon[row*g.cols+col]
}

// DicedSprite is the immutable per-sprite product: mesh data plus the
// index of the atlas texture it samples. A sprite with no remaining
// content (fully transparent under TrimTransparent) has empty arrays
// and AtlasIndex -1.
type DicedSprite struct {
	Id         string
	AtlasIndex int
	Vertices   []vec2.T
	UVs        []vec2.T
	Indices    []uint32
	Pivot      Pivot
	// Original pixel dimensions of the source sprite.
	Size [2]int
	// Mesh bounds in conventional units, pivot-anchored.
	Rect Rect
	// Pixels per unit the mesh was built with.
	PPU float32
}

// EvaluateSpriteRect returns the sprite bounding rectangle re-scaled
// for targetPPU pixels per unit. Pure; safe for concurrent use.
func (d *DicedSprite) EvaluateSpriteRect(targetPPU float32) Rect {
	if targetPPU <= 0 || d.PPU <= 0 {
		return Rect{}
	}
	scale := d.PPU / targetPPU
	return Rect{
		X:      d.Rect.X * scale,
		Y:      d.Rect.Y * scale,
		Width:  d.Rect.Width * scale,
		Height: d.Rect.Height * scale,
	}
}

// Artifacts is the complete output of a dicing operation.
type Artifacts struct {
	Atlases []*Texture
	Sprites []*DicedSprite
}
