package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrTooShort = errors.New("analysis: series too short")
	ErrFlat     = errors.New("analysis: series has no periodic component")
)

const minSamples = 8

// PowerSpectrum is the Hann-windowed magnitude spectrum of data with the
// mean removed, for bins 0..n/2.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
		windowed[i] = (v - mean) * w
	}

	spec := fft.FFTReal(windowed)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod returns the period, in samples, of the strongest
// non-constant frequency in data. The peak bin is refined by parabolic
// interpolation.
func DominantPeriod(data []float64) (float64, error) {
	n := len(data)
	if n < minSamples {
		return 0, ErrTooShort
	}
	ps := PowerSpectrum(data)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] <= 1e-12 {
		return 0, ErrFlat
	}

	bin := float64(peak)
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	return float64(n) / bin, nil
}
