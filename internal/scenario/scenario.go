// Package scenario parses smooth_axis test identifiers and discovers the
// trace files backing them. A scenario filename doubles as a configuration
// record: the underscore-delimited tokens encode the output range, the
// commanded settle time, the environment parameters, and the motion
// endpoints of one recorded test run.
package scenario

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	filePrefix = "smooth_axis_"
	fileSuffix = ".csv"

	// minTokens is the minimum token count for a well-formed identifier.
	minTokens = 11
)

// Descriptor holds the configuration decoded from a scenario filename.
// Advisory numeric fields (SettleTime, DT, Jitter, Noise) are nil when the
// corresponding token is absent or malformed; they are never NaN. The
// structural fields (MaxRaw, MoveType, InitRaw, TargetRaw) are always set
// on a successfully parsed descriptor.
type Descriptor struct {
	Path     string
	Basename string

	MaxRaw     int
	SettleTime *float64 // commanded settle time, seconds
	DT         *float64 // sample interval, seconds
	Jitter     *float64 // timing jitter magnitude, fraction
	Noise      *float64 // amplitude noise magnitude, fraction
	MoveType   string   // "ramp", "step", ...
	InitRaw    int
	TargetRaw  int
}

// InitFrac returns the initial position as a fraction of the output range.
func (d *Descriptor) InitFrac() float64 {
	if d.MaxRaw <= 0 {
		return 0
	}
	return float64(d.InitRaw) / float64(d.MaxRaw)
}

// TargetFrac returns the target position as a fraction of the output range.
func (d *Descriptor) TargetFrac() float64 {
	if d.MaxRaw <= 0 {
		return 0
	}
	return float64(d.TargetRaw) / float64(d.MaxRaw)
}

// ParseFilename decodes the basename of path into a Descriptor. It returns
// nil when the name does not follow the scenario schema: wrong prefix or
// suffix, too few tokens, a missing bit-depth token, or non-integer motion
// endpoints. Malformed advisory tokens (settle time, dt, jitter, noise) do
// not fail the parse; the field is left nil instead.
func ParseFilename(path string) *Descriptor {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(base, fileSuffix) {
		return nil
	}

	name := base[len(filePrefix) : len(base)-len(fileSuffix)]
	parts := strings.Split(name, "_")
	if len(parts) < minTokens {
		return nil
	}

	// Output range, e.g. "1023bit". Structurally required.
	maxRawStr := parts[0]
	if !strings.HasSuffix(maxRawStr, "bit") {
		return nil
	}
	maxRaw, err := strconv.Atoi(strings.TrimSuffix(maxRawStr, "bit"))
	if err != nil {
		return nil
	}

	// Commanded settle time. Advisory: a malformed token leaves it unknown.
	var settleTime *float64
	if v, err := strconv.ParseFloat(parts[3], 64); err == nil {
		settleTime = &v
	}

	dt := parseKeyVal(parts[4], "dt")
	jitter := parseKeyVal(parts[5], "jit")
	noise := parseKeyVal(parts[6], "noise")
	moveType := parts[7]

	// Motion endpoints are structurally required.
	initRaw, err := strconv.Atoi(parts[8])
	if err != nil {
		return nil
	}
	targetRaw, err := strconv.Atoi(parts[10])
	if err != nil {
		return nil
	}

	return &Descriptor{
		Path:       path,
		Basename:   base,
		MaxRaw:     maxRaw,
		SettleTime: settleTime,
		DT:         dt,
		Jitter:     jitter,
		Noise:      noise,
		MoveType:   moveType,
		InitRaw:    initRaw,
		TargetRaw:  targetRaw,
	}
}

// parseKeyVal extracts the float value from a "key=value" token. Returns nil
// when the key does not match or the value does not parse.
func parseKeyVal(token, key string) *float64 {
	if !strings.HasPrefix(token, key+"=") {
		return nil
	}
	v, err := strconv.ParseFloat(token[len(key)+1:], 64)
	if err != nil {
		return nil
	}
	return &v
}

// Discover returns descriptors for all scenario CSVs directly under dir,
// sorted by filename. Files that do not parse as scenarios are skipped.
func Discover(dir string) ([]*Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []*Descriptor
	for _, name := range names {
		if d := ParseFilename(filepath.Join(dir, name)); d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}
