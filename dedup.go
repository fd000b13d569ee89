package dicing

// Deduplicator owns the fingerprint to canonical unit mapping of one
// pipeline run. Registration order decides canonical identity, so it
// must be driven sequentially in a fixed sprite and cell order. The
// canonical set only grows; units are never merged or removed.
type Deduplicator struct {
	cmp         comparer
	trim        bool
	transparent *CanonicalUnit
	byHash      map[Fingerprint]*CanonicalUnit
	canon       []*CanonicalUnit
}

func newDeduplicator(prefs *Prefs) *Deduplicator {
	return &Deduplicator{
		cmp:    newComparer(prefs.Tolerance),
		trim:   prefs.TrimTransparent,
		byHash: make(map[Fingerprint]*CanonicalUnit),
	}
}

// Register resolves a unit to its canonical unit, creating one when no
// equivalent content was seen before. All fully-transparent units
// collapse to one shared canonical unit regardless of sprite; under
// TrimTransparent they resolve to nil instead.
func (d *Deduplicator) Register(u *Unit) *CanonicalUnit {
	if u.Transparent {
		if d.trim {
			return nil
		}
		if d.transparent == nil {
			d.transparent = d.add(u)
			d.transparent.Uniform = true
		}
		return d.transparent
	}

	f := fingerprint(u.Pixels)
	if c := d.cmp.find(d, u.Pixels, f); c != nil {
		return c
	}
	c := d.add(u)
	c.Uniform = uniformPixels(u.Pixels)
	d.byHash[f] = c
	return c
}

// Canonical returns all canonical units in creation order.
func (d *Deduplicator) Canonical() []*CanonicalUnit {
	return d.canon
}

func (d *Deduplicator) add(u *Unit) *CanonicalUnit {
	c := &CanonicalUnit{
		Index:       len(d.canon),
		Pixels:      u.Pixels,
		Padded:      u.Padded,
		Transparent: u.Transparent,
	}
	d.canon = append(d.canon, c)
	return c
}
