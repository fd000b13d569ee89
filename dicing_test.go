package dicing

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/flywave/go3d/vec2"
)

func TestDiceValidatesPrefsEagerly(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Prefs)
		field string
	}{
		{"zero unit size", func(p *Prefs) { p.UnitSize = 0 }, "UnitSize"},
		{"negative padding", func(p *Prefs) { p.Padding = -1 }, "Padding"},
		{"padding above unit", func(p *Prefs) { p.Padding = p.UnitSize + 1 }, "Padding"},
		{"uv inset above 0.5", func(p *Prefs) { p.UVInset = 0.85 }, "UVInset"},
		{"atlas limit below unit", func(p *Prefs) { p.AtlasSizeLimit = p.UnitSize }, "AtlasSizeLimit"},
		{"zero ppu", func(p *Prefs) { p.PPU = 0 }, "PPU"},
		{"negative tolerance", func(p *Prefs) { p.Tolerance = -1 }, "Tolerance"},
		{"bad border mode", func(p *Prefs) { p.BorderPad = 7 }, "BorderPad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := DefaultPrefs()
			tt.tweak(prefs)
			_, err := Dice(nil, prefs)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("want ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("error names field %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

// Two 2x2-unit sprites: A = [red, transparent, transparent, red] and
// B = [red, transparent, blue, transparent]. Expect three canonical
// units (red, shared transparent, blue) on one atlas, with both
// sprites sampling the same transparent cell.
func TestDiceSharedContentScenario(t *testing.T) {
	unit := 8
	a := fillSprite(t, "a", 2, 2, unit, pxR, pxT, pxT, pxR)
	b := fillSprite(t, "b", 2, 2, unit, pxR, pxT, pxB, pxT)

	arts := mustDice(t, []*SourceSprite{a, b}, pref(unit, 0))
	if len(arts.Atlases) != 1 {
		t.Fatalf("atlas count = %d, want 1", len(arts.Atlases))
	}
	// Three canonical units in one shelf row.
	if arts.Atlases[0].Size != [2]uint64{3 * uint64(unit), uint64(unit)} {
		t.Errorf("atlas size = %v, want %dx%d", arts.Atlases[0].Size, 3*unit, unit)
	}
	for _, sp := range arts.Sprites {
		if sp.AtlasIndex != 0 {
			t.Errorf("sprite %q on atlas %d, want 0", sp.Id, sp.AtlasIndex)
		}
		checkMeshConsistency(t, sp)
	}

	// Registration order: a row-major gives red then transparent, b
	// adds blue. The transparent cell starts at u = 1/3.
	transparentUV := vec2.T{1.0 / 3, 0}
	for _, sp := range arts.Sprites {
		if !hasUV(sp, transparentUV) {
			t.Errorf("sprite %q doesn't reference the shared transparent placement", sp.Id)
		}
	}
}

func hasUV(sp *DicedSprite, want vec2.T) bool {
	const eps = 1e-6
	for _, uv := range sp.UVs {
		du := uv[0] - want[0]
		dv := uv[1] - want[1]
		if du < eps && du > -eps && dv < eps && dv > -eps {
			return true
		}
	}
	return false
}

func TestDiceIsDeterministic(t *testing.T) {
	sources := func() []*SourceSprite {
		return []*SourceSprite{
			fillSprite(t, "a", 3, 2, 4, pxR, pxG, pxT, pxB, pxR, pxT),
			fillSprite(t, "b", 2, 2, 4, pxT, pxC, pxY, pxR),
			fillSprite(t, "c", 1, 1, 4, pxG),
		}
	}
	prefs := func() *Prefs {
		p := pref(4, 1)
		p.Pivot = Pivot{X: 0.5, Y: 0.5}
		return p
	}

	first := mustDice(t, sources(), prefs())
	second := mustDice(t, sources(), prefs())

	if len(first.Atlases) != len(second.Atlases) {
		t.Fatalf("atlas counts differ: %d vs %d", len(first.Atlases), len(second.Atlases))
	}
	for i := range first.Atlases {
		if !bytes.Equal(first.Atlases[i].Data, second.Atlases[i].Data) {
			t.Errorf("atlas %d payloads differ between runs", i)
		}
	}
	if !reflect.DeepEqual(first.Sprites, second.Sprites) {
		t.Error("sprite meshes differ between runs")
	}
}

func TestDiceFailsAsAWhole(t *testing.T) {
	arts, err := Dice([]*SourceSprite{
		mkSprite(t, "good", 1, 1, pxR),
		{Id: "empty", Width: 0, Height: 0},
	}, pref(1, 0))
	if err == nil {
		t.Fatal("want error for zero-size sprite")
	}
	if arts != nil {
		t.Error("artifacts returned alongside an error")
	}
}

func TestDiceReportsProgress(t *testing.T) {
	var stages []string
	prefs := pref(1, 0)
	prefs.OnProgress = func(p Progress) {
		if len(stages) == 0 || stages[len(stages)-1] != p.Stage {
			stages = append(stages, p.Stage)
		}
	}
	mustDice(t, []*SourceSprite{mkSprite(t, "s", 1, 1, pxR)}, prefs)
	want := []string{"dicing source textures", "merging units", "packing units", "building meshes"}
	if !reflect.DeepEqual(stages, want) {
		t.Errorf("stages = %v, want %v", stages, want)
	}
}

func TestTrimTransparentDropsGeometry(t *testing.T) {
	prefs := pref(1, 0)
	prefs.TrimTransparent = true
	arts := mustDice(t, []*SourceSprite{
		mkSprite(t, "ghost", 2, 1, pxT, pxT),
		mkSprite(t, "half", 2, 1, pxR, pxT),
	}, prefs)

	ghost := arts.Sprites[0]
	if ghost.AtlasIndex != -1 || len(ghost.Vertices) != 0 || len(ghost.Indices) != 0 {
		t.Errorf("fully transparent sprite should have no geometry, got %+v", ghost)
	}
	half := arts.Sprites[1]
	if len(half.Indices) != 6 {
		t.Errorf("trimmed sprite index count = %d, want one quad", len(half.Indices))
	}
	if half.Rect.Width != 1 {
		t.Errorf("trimmed sprite width = %v, want 1", half.Rect.Width)
	}
}

// Round-trip: sampling the atlas at each quad's UV origin must return
// the source pixel at the quad's position.
func TestDicedSpritesReconstructSource(t *testing.T) {
	src := mkSprite(t, "s", 2, 2, pxR, pxG, pxB, pxY)
	arts := mustDice(t, []*SourceSprite{src}, pref(1, 0))
	sp := arts.Sprites[0]
	atlas := arts.Atlases[sp.AtlasIndex]
	pixels, err := atlas.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	aw := int(atlas.Size[0])

	for i := 0; i+6 <= len(sp.Indices); i += 6 {
		minX, minY, _, _ := quadBounds(sp, i)
		var minU, minV float32 = 2, 2
		for _, idx := range sp.Indices[i : i+6] {
			if sp.UVs[idx][0] < minU {
				minU = sp.UVs[idx][0]
			}
			if sp.UVs[idx][1] < minV {
				minV = sp.UVs[idx][1]
			}
		}
		sx, sy := int(minX), int(minY)
		ax := int(minU * float32(atlas.Size[0]))
		ay := int(minV * float32(atlas.Size[1]))
		srcPx := src.Pixels[(sy*src.Width+sx)*4 : (sy*src.Width+sx)*4+4]
		atlasPx := pixels[(ay*aw+ax)*4 : (ay*aw+ax)*4+4]
		if !bytes.Equal(srcPx, atlasPx) {
			t.Errorf("cell (%d,%d): source %v, atlas %v", sx, sy, srcPx, atlasPx)
		}
	}
}

func TestDiceDefaultsWhenPrefsNil(t *testing.T) {
	src := fillSprite(t, "s", 1, 1, 4, pxR)
	arts, err := Dice([]*SourceSprite{src}, nil)
	if err != nil {
		t.Fatalf("Dice with nil prefs failed: %v", err)
	}
	if len(arts.Sprites) != 1 {
		t.Fatalf("sprite count = %d, want 1", len(arts.Sprites))
	}
	if arts.Sprites[0].PPU != 100 {
		t.Errorf("PPU = %v, want default 100", arts.Sprites[0].PPU)
	}
}
