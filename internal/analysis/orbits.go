package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/solarsim/internal/storage"
)

// ErrMixedSpeeds marks a planet whose speed changed while it was recorded,
// so no single period is expected.
var ErrMixedSpeeds = errors.New("analysis: speed changed during run")

// OrbitReport compares a planet's measured orbital period with the one its
// speed implies.
type OrbitReport struct {
	Planet   string
	Speed    float64
	Expected float64
	Measured float64
	Err      error
}

// RelativeError is |measured-expected|/expected, or NaN when either is
// unknown.
func (r OrbitReport) RelativeError() float64 {
	if r.Err != nil || r.Expected == 0 {
		return math.NaN()
	}
	return math.Abs(r.Measured-r.Expected) / r.Expected
}

// Analyze measures every planet in trace from its x series. speeds supplies
// the expected periods; a planet missing from speeds gets Expected 0.
func Analyze(trace *storage.Trace, speeds map[string]float64) []OrbitReport {
	reports := make([]OrbitReport, 0, len(trace.Planets))
	for _, name := range trace.Planets {
		r := OrbitReport{Planet: name, Speed: speeds[name]}
		if r.Speed > 0 {
			r.Expected = 2 * math.Pi / r.Speed
		}

		xs, err := trace.Series(name, "x")
		if err == nil {
			r.Measured, err = DominantPeriod(xs)
		}
		r.Err = err
		reports = append(reports, r)
	}
	return reports
}

// AnalyzeRun is Analyze over a stored run. Planets the run lists as mixed
// are reported with ErrMixedSpeeds instead of a measurement.
func AnalyzeRun(meta storage.RunMetadata, trace *storage.Trace) []OrbitReport {
	reports := Analyze(trace, meta.Speeds)
	for _, name := range meta.MixedSpeeds {
		for i := range reports {
			if reports[i].Planet == name {
				reports[i].Measured = 0
				reports[i].Err = ErrMixedSpeeds
			}
		}
	}
	return reports
}
