package scenario

import "sort"

// EnvPair is one (jitter, noise) row of the environment matrix.
type EnvPair struct {
	Jitter float64
	Noise  float64
}

// GridKey identifies one cell of the environment matrix. Field values are
// rounded before keying: jitter and noise to 3 decimals, settle time to 6.
// The rounding exists to collapse floating-point representation noise onto
// one stable key; reducing the precision here would merge distinct cells,
// increasing it would fragment one cell into many.
type GridKey struct {
	Jitter float64
	Noise  float64
	Settle float64
}

// EnvMatrix indexes the canonical ramp scenarios by environment row and
// settle-time column for grid rendering.
type EnvMatrix struct {
	EnvPairs []EnvPair // rows, sorted by magnitude
	Settles  []float64 // columns, sorted ascending
	cells    map[GridKey]*Descriptor
}

// FilterEnvMatrix selects the ramp scenarios in the canonical 10%→90%
// transit band that carry a full environment description. Scenarios with
// unknown jitter, noise, or settle time cannot be placed in the matrix.
func FilterEnvMatrix(all []*Descriptor) []*Descriptor {
	var out []*Descriptor
	for _, d := range all {
		if d.MoveType != "ramp" {
			continue
		}
		if d.MaxRaw < 800 || d.MaxRaw > 1300 {
			continue
		}
		if f := d.InitFrac(); f < 0.08 || f > 0.12 {
			continue
		}
		if f := d.TargetFrac(); f < 0.88 || f > 0.92 {
			continue
		}
		if d.Jitter == nil || d.Noise == nil || d.SettleTime == nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// keyFor builds the rounded grid key for a descriptor. Callers must have
// checked that the advisory fields are known.
func keyFor(d *Descriptor) GridKey {
	return GridKey{
		Jitter: roundTo(*d.Jitter, 3),
		Noise:  roundTo(*d.Noise, 3),
		Settle: roundTo(*d.SettleTime, 6),
	}
}

// BuildEnvMatrix arranges scenarios into an environment × settle-time grid.
// When several scenarios collide on one cell the last in input order wins.
func BuildEnvMatrix(scens []*Descriptor) *EnvMatrix {
	pairSet := make(map[EnvPair]struct{})
	settleSet := make(map[float64]struct{})
	cells := make(map[GridKey]*Descriptor)

	for _, d := range scens {
		key := keyFor(d)
		pairSet[EnvPair{Jitter: key.Jitter, Noise: key.Noise}] = struct{}{}
		settleSet[key.Settle] = struct{}{}
		cells[key] = d
	}

	pairs := make([]EnvPair, 0, len(pairSet))
	for p := range pairSet {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		mi := pairs[i].Jitter*pairs[i].Jitter + pairs[i].Noise*pairs[i].Noise
		mj := pairs[j].Jitter*pairs[j].Jitter + pairs[j].Noise*pairs[j].Noise
		if mi != mj {
			return mi < mj
		}
		if pairs[i].Jitter != pairs[j].Jitter {
			return pairs[i].Jitter < pairs[j].Jitter
		}
		return pairs[i].Noise < pairs[j].Noise
	})

	settles := make([]float64, 0, len(settleSet))
	for s := range settleSet {
		settles = append(settles, s)
	}
	sort.Float64s(settles)

	return &EnvMatrix{EnvPairs: pairs, Settles: settles, cells: cells}
}

// Lookup returns the scenario occupying the cell for the given (already
// unrounded) jitter, noise, and settle values, or nil when the cell is empty.
func (m *EnvMatrix) Lookup(jitter, noise, settle float64) *Descriptor {
	return m.cells[GridKey{
		Jitter: roundTo(jitter, 3),
		Noise:  roundTo(noise, 3),
		Settle: roundTo(settle, 6),
	}]
}
