package analysis

// Accumulator aggregates per-scenario metrics across a batch. Contributions
// are commutative sums, so scenario order does not affect the final ratios.
// The zero value is ready to use.
type Accumulator struct {
	FalseUpdates int
	TotalUpdates int

	timingErrorSum float64 // sum of |observed-target|/target
	timingCount    int
}

// AddUpdates folds one scenario's update statistics into the batch. Zero
// totals are valid and counted.
func (a *Accumulator) AddUpdates(s UpdateStats) {
	a.FalseUpdates += s.False
	a.TotalUpdates += s.Total
}

// AddTimingSample folds one settle-time measurement into the MAPE sum. A
// non-positive target is not a valid timing test and is ignored; this also
// guards the division.
func (a *Accumulator) AddTimingSample(targetSec, observedSec float64) {
	if targetSec <= 0 {
		return
	}
	err := (observedSec - targetSec) / targetSec
	if err < 0 {
		err = -err
	}
	a.timingErrorSum += err
	a.timingCount++
}

// TimingSamples returns the number of measurements contributing to the
// timing error mean.
func (a *Accumulator) TimingSamples() int { return a.timingCount }

// Merge folds another accumulator into this one. Because every contribution
// is an independent commutative sum, per-shard accumulators merged in any
// deterministic order finalize to the same result as sequential use.
func (a *Accumulator) Merge(other *Accumulator) {
	a.FalseUpdates += other.FalseUpdates
	a.TotalUpdates += other.TotalUpdates
	a.timingErrorSum += other.timingErrorSum
	a.timingCount += other.timingCount
}

// Summary is the finalized batch result. Ratios with no contributing
// samples are nil.
type Summary struct {
	MonotonicAccuracy *float64 // 1 - false/total
	MeanTimingError   *float64 // MAPE, as a fraction

	FalseUpdates  int
	TotalUpdates  int
	TimingSamples int
}

// Finalize computes the batch-level ratios.
func (a *Accumulator) Finalize() Summary {
	s := Summary{
		FalseUpdates:  a.FalseUpdates,
		TotalUpdates:  a.TotalUpdates,
		TimingSamples: a.timingCount,
	}
	if a.TotalUpdates > 0 {
		acc := 1 - float64(a.FalseUpdates)/float64(a.TotalUpdates)
		s.MonotonicAccuracy = &acc
	}
	if a.timingCount > 0 {
		mape := a.timingErrorSum / float64(a.timingCount)
		s.MeanTimingError = &mape
	}
	return s
}
