package dicing

import "fmt"

// Error codes carried by the typed errors below.
const (
	ERR_CONFIG         = "E_CFG"
	ERR_DIMENSIONS     = "E_DIMENSIONS"
	ERR_ATLAS_OVERFLOW = "E_ATLAS_OVERFLOW"
	ERR_GRID           = "E_GRID"
)

// ConfigError reports an invalid Prefs field. Detected before any
// sprite is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ERR_CONFIG, e.Field, e.Reason)
}

func (e *ConfigError) Code() string { return ERR_CONFIG }

// DimensionsError reports a source sprite with an unusable pixel buffer.
type DimensionsError struct {
	Sprite string
	Reason string
}

func (e *DimensionsError) Error() string {
	return fmt.Sprintf("%s: sprite %q: %s", ERR_DIMENSIONS, e.Sprite, e.Reason)
}

func (e *DimensionsError) Code() string { return ERR_DIMENSIONS }

// AtlasOverflowError reports content that cannot fit the configured
// atlas limits. Not recoverable by retry; the caller must raise
// AtlasSizeLimit, raise MaxAtlasCount or shrink UnitSize.
type AtlasOverflowError struct {
	Sprite string
	Reason string
}

func (e *AtlasOverflowError) Error() string {
	if e.Sprite == "" {
		return fmt.Sprintf("%s: %s", ERR_ATLAS_OVERFLOW, e.Reason)
	}
	return fmt.Sprintf("%s: sprite %q: %s", ERR_ATLAS_OVERFLOW, e.Sprite, e.Reason)
}

func (e *AtlasOverflowError) Code() string { return ERR_ATLAS_OVERFLOW }

// GridError reports a grid cell left without a canonical unit after
// deduplication. This is a pipeline defect, never an input problem.
type GridError struct {
	Sprite string
	Column int
	Row    int
}

func (e *GridError) Error() string {
	return fmt.Sprintf("%s: sprite %q: cell (%d,%d) has no canonical unit", ERR_GRID, e.Sprite, e.Column, e.Row)
}

func (e *GridError) Code() string { return ERR_GRID }
