package dicing

import "sync"

// Dice slices the source sprites into unit grids, merges
// content-equivalent units, packs the unique units into atlas textures
// and rebuilds per-sprite meshes referencing them. The operation is
// all-or-nothing: either every sprite yields a DicedSprite or an error
// is returned and no artifacts are produced.
//
// Output is deterministic for a given input order and configuration:
// slicing runs concurrently per sprite, but canonical unit identity is
// resolved sequentially in sprite order, cells row-major.
func Dice(sources []*SourceSprite, prefs *Prefs) (*Artifacts, error) {
	if prefs == nil {
		prefs = DefaultPrefs()
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	grids, err := diceAll(sources, prefs)
	if err != nil {
		return nil, err
	}

	dedup := newDeduplicator(prefs)
	for i, grid := range grids {
		prefs.report("merging units", i, len(grids))
		registerGrid(dedup, grid)
	}
	prefs.report("merging units", len(grids), len(grids))

	packed, err := pack(grids, prefs)
	if err != nil {
		return nil, err
	}

	arts := &Artifacts{Atlases: packed.atlases}
	for i, grid := range grids {
		prefs.report("building meshes", i, len(grids))
		atlasIdx := packed.spriteAtlas[i]
		var placements map[*CanonicalUnit]Placement
		if atlasIdx >= 0 {
			placements = packed.placements[atlasIdx]
		}
		sprite, err := buildSprite(grid, placements, atlasIdx, prefs)
		if err != nil {
			return nil, err
		}
		arts.Sprites = append(arts.Sprites, sprite)
	}
	prefs.report("building meshes", len(grids), len(grids))
	return arts, nil
}

// diceAll slices every sprite on its own goroutine; results land in
// input order, and the first error (by sprite order) wins.
func diceAll(sources []*SourceSprite, prefs *Prefs) ([]*spriteGrid, error) {
	grids := make([]*spriteGrid, len(sources))
	errs := make([]error, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src *SourceSprite) {
			defer wg.Done()
			grids[i], errs[i] = diceSprite(src, prefs)
		}(i, src)
	}
	wg.Wait()
	for i, err := range errs {
		prefs.report("dicing source textures", i, len(sources))
		if err != nil {
			return nil, err
		}
	}
	prefs.report("dicing source textures", len(sources), len(sources))
	return grids, nil
}

// registerGrid resolves every cell of a grid to its canonical unit and
// collects the sprite's distinct units in first-use order.
func registerGrid(dedup *Deduplicator, grid *spriteGrid) {
	seen := make(map[*CanonicalUnit]bool)
	for i, u := range grid.units {
		c := dedup.Register(u)
		grid.canon[i] = c
		if c != nil && !seen[c] {
			seen[c] = true
			grid.unique = append(grid.unique, c)
		}
	}
}
