package dicing

// Progress describes a pipeline stage notification delivered through
// Prefs.OnProgress.
type Progress struct {
	Stage string
	Done  int
	Total int
}

// Prefs holds the configuration of a dicing operation.
type Prefs struct {
	// Size of a single diced unit, in pixels. Larger values produce less
	// mesh overhead but fewer reusable texture regions.
	UnitSize int
	// Pixel ring sampled around each unit and reserved around each atlas
	// cell. Prevents bleeding from neighboring packed units under
	// bilinear filtering. Must not exceed UnitSize.
	Padding int
	// Relative inset (0.0-0.5) of the unit UV rects. Extra anti-bleeding
	// measure that consumes no texture space but may distort the sprite.
	UVInset float32
	// Discard fully-transparent units instead of keeping a single shared
	// canonical unit for them. Changes generated mesh coverage.
	TrimTransparent bool
	// Maximum width or height of a generated atlas texture. Content that
	// does not fit spills into additional atlases.
	AtlasSizeLimit int
	// Force square atlas textures.
	AtlasSquare bool
	// Force power-of-two atlas texture dimensions.
	AtlasPOT bool
	// Maximum number of atlas textures allowed; 0 means unlimited.
	MaxAtlasCount int
	// Pixels per conventional unit used when evaluating mesh vertices.
	PPU float32
	// Fallback sprite origin when a source sprite carries no pivot.
	Pivot Pivot
	// Maximum per-channel difference for two units to share a canonical
	// unit; 0 requires exact pixel equality.
	Tolerance int
	// Sampling policy for unit pixels outside the sprite bounds, one of
	// BORDER_PAD_REPLICATE or BORDER_PAD_TRANSPARENT.
	BorderPad int
	// Optional stage notifications; invoked synchronously.
	OnProgress func(Progress)
}

func DefaultPrefs() *Prefs {
	return &Prefs{
		UnitSize:       64,
		Padding:        2,
		AtlasSizeLimit: 2048,
		PPU:            100,
		Pivot:          Pivot{X: 0.5, Y: 0.5},
		BorderPad:      BORDER_PAD_REPLICATE,
	}
}

func (p *Prefs) Validate() error {
	if p.UnitSize <= 0 {
		return &ConfigError{Field: "UnitSize", Reason: "must be positive"}
	}
	if p.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "can't be negative"}
	}
	if p.Padding > p.UnitSize {
		return &ConfigError{Field: "Padding", Reason: "can't be above unit size"}
	}
	if p.UVInset < 0 || p.UVInset > 0.5 {
		return &ConfigError{Field: "UVInset", Reason: "must be in 0.0 to 0.5 range"}
	}
	if p.AtlasSizeLimit <= p.UnitSize {
		return &ConfigError{Field: "AtlasSizeLimit", Reason: "must be above unit size"}
	}
	if p.MaxAtlasCount < 0 {
		return &ConfigError{Field: "MaxAtlasCount", Reason: "can't be negative"}
	}
	if p.PPU <= 0 {
		return &ConfigError{Field: "PPU", Reason: "must be positive"}
	}
	if p.Tolerance < 0 {
		return &ConfigError{Field: "Tolerance", Reason: "can't be negative"}
	}
	if p.BorderPad != BORDER_PAD_REPLICATE && p.BorderPad != BORDER_PAD_TRANSPARENT {
		return &ConfigError{Field: "BorderPad", Reason: "unknown border padding mode"}
	}
	return nil
}

// paddedUnitSize is the side of one atlas cell: the unit plus its
// anti-bleeding ring.
func (p *Prefs) paddedUnitSize() int {
	return p.UnitSize + p.Padding*2
}

func (p *Prefs) report(stage string, done, total int) {
	if p.OnProgress != nil {
		p.OnProgress(Progress{Stage: stage, Done: done, Total: total})
	}
}
