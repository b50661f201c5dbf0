package scenario

import "math"

// Environment is a named (jitter, noise) test preset.
type Environment struct {
	Name   string
	Jitter float64
	Noise  float64
}

// Environments lists the named presets in classification order. The first
// entry is the zero-noise preset; ties between the remaining presets resolve
// to the earlier entry.
var Environments = []Environment{
	{Name: "pure", Jitter: 0.00, Noise: 0.00},
	{Name: "good", Jitter: 0.01, Noise: 0.005},
	{Name: "common", Jitter: 0.02, Noise: 0.02},
	{Name: "noisy", Jitter: 0.05, Noise: 0.04},
	{Name: "torture", Jitter: 0.25, Noise: 0.10},
}

// zeroEnvEpsilon is the magnitude below which a pair always classifies as
// the zero-noise preset, regardless of distance to the other presets.
const zeroEnvEpsilon = 0.003

// ClassifyEnvironment maps a measured (jitter, noise) pair to the name of
// the nearest preset. Purely descriptive; used for row labels only.
func ClassifyEnvironment(jitter, noise float64) string {
	if math.Hypot(jitter, noise) < zeroEnvEpsilon {
		return Environments[0].Name
	}

	best := Environments[0].Name
	bestDist := math.Inf(1)
	for _, env := range Environments[1:] {
		d := math.Hypot(jitter-env.Jitter, noise-env.Noise)
		if d < bestDist {
			bestDist = d
			best = env.Name
		}
	}
	return best
}

// settleLabels maps commanded settle times (seconds, 2dp) to display names.
var settleLabels = map[float64]string{
	0.05: "ultra responsive",
	0.10: "snappy",
	0.20: "clean & quick",
	0.50: "smooth",
	1.00: "cinematic",
}

// SettleLabel returns the display name for a commanded settle time, or the
// empty string when none is defined.
func SettleLabel(tSettle float64) string {
	return settleLabels[roundTo(tSettle, 2)]
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
