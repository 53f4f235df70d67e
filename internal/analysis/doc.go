// Package analysis extracts orbital periods from recorded planet traces.
//
// A planet moving at a constant angular speed s traces x = R cos(a0 + s*t),
// so its coordinate series is a pure sinusoid of period 2π/s ticks. The
// spectrum of a recorded series therefore has one dominant peak:
//
//	period, err := analysis.DominantPeriod(xs)
//	// period ≈ 2*math.Pi/speed
//
// [Analyze] runs this over every planet of a stored trace and compares the
// measured period with the one implied by the run's speed table.
package analysis
