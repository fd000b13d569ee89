package dicing

import "crypto/sha256"

// Fingerprint is the content digest of a unit's unpadded pixels.
// Order-sensitive: rotated or flipped content hashes differently.
type Fingerprint [sha256.Size]byte

func fingerprint(pixels []byte) Fingerprint {
	return sha256.Sum256(pixels)
}

// comparer decides whether a unit matches an already registered
// canonical unit. Strategies are injected into the Deduplicator so
// alternate equivalence relations don't touch packing or mesh code.
type comparer interface {
	find(d *Deduplicator, pixels []byte, f Fingerprint) *CanonicalUnit
}

// exactComparer matches on fingerprint equality alone.
type exactComparer struct{}

func (exactComparer) find(d *Deduplicator, pixels []byte, f Fingerprint) *CanonicalUnit {
	return d.byHash[f]
}

// tolerantComparer scans canonical units in registration order and
// matches the first whose per-pixel channel difference stays within
// the tolerance. First registered wins on ties.
type tolerantComparer struct {
	tolerance int
}

func (c tolerantComparer) find(d *Deduplicator, pixels []byte, f Fingerprint) *CanonicalUnit {
	for _, canon := range d.canon {
		if canon.Transparent {
			continue
		}
		if maxChannelDiff(canon.Pixels, pixels) <= c.tolerance {
			return canon
		}
	}
	return nil
}

func newComparer(tolerance int) comparer {
	if tolerance <= 0 {
		return exactComparer{}
	}
	return tolerantComparer{tolerance: tolerance}
}

// maxChannelDiff returns the largest absolute difference across all
// channels of two equal-length RGBA buffers.
func maxChannelDiff(a, b []byte) int {
	if len(a) != len(b) {
		return int(^uint(0) >> 1)
	}
	max := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

func uniformPixels(pixels []byte) bool {
	for i := 4; i+4 <= len(pixels); i += 4 {
		if pixels[i] != pixels[0] || pixels[i+1] != pixels[1] ||
			pixels[i+2] != pixels[2] || pixels[i+3] != pixels[3] {
			return false
		}
	}
	return true
}
