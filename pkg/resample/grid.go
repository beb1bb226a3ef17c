// Package resample maps lap telemetry onto a fixed time grid.
package resample

import (
	"errors"
	"math"
	"math/bits"
	"time"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
)

const (
	DefaultInterval = 100 * time.Millisecond
	// span of the exponentially weighted mean used for smoothing
	ewmSpan = 2
)

var (
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrUnknownChannel  = errors.New("unknown channel")
)

// SampleCount returns the smallest power of two which covers maxLap with
// samples of the given interval.
func SampleCount(maxLap, interval time.Duration) int {
	if interval <= 0 || maxLap <= 0 {
		return 0
	}
	n := uint64(math.Ceil(float64(maxLap) / float64(interval)))
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}

// Grid resamples channel c of a lap onto n points spaced by interval,
// starting at the lap start.
// Samples are averaged per bin, empty bins between readings are linearly
// interpolated and the result is smoothed with an exponentially weighted mean.
// Grid points without data are NaN.
func Grid(tel model.Telemetry, c model.Channel, interval time.Duration, n int) ([]float64, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	bins, err := binMeans(tel, c, interval)
	if err != nil {
		return nil, err
	}
	interpolate(bins)
	smoothed := ewm(bins, ewmSpan)

	ret := make([]float64, n)
	for i := range ret {
		if i < len(smoothed) {
			ret[i] = smoothed[i]
		} else {
			ret[i] = math.NaN()
		}
	}
	return ret, nil
}

// binMeans averages the channel values per interval-wide bin. Empty bins are NaN.
func binMeans(tel model.Telemetry, c model.Channel, interval time.Duration) ([]float64, error) {
	var sums []float64
	var counts []int
	for i := range tel {
		v, ok := tel[i].Value(c)
		if !ok {
			return nil, ErrUnknownChannel
		}
		if tel[i].Time < 0 || math.IsNaN(v) {
			continue
		}
		b := int(tel[i].Time / interval)
		for len(sums) <= b {
			sums = append(sums, 0)
			counts = append(counts, 0)
		}
		sums[b] += v
		counts[b]++
	}
	for i := range sums {
		if counts[i] == 0 {
			sums[i] = math.NaN()
		} else {
			sums[i] /= float64(counts[i])
		}
	}
	return sums, nil
}

// interpolate fills NaN gaps between two values linearly. Leading NaNs are kept.
func interpolate(v []float64) {
	last := -1
	for i := range v {
		if math.IsNaN(v[i]) {
			continue
		}
		if last >= 0 && i-last > 1 {
			step := (v[i] - v[last]) / float64(i-last)
			for j := last + 1; j < i; j++ {
				v[j] = v[last] + step*float64(j-last)
			}
		}
		last = i
	}
}

// ewm computes the adjusted exponentially weighted mean
// y_t = sum((1-a)^i * x_{t-i}) / sum((1-a)^i) with a = 2/(span+1).
// NaN values are passed through and do not contribute.
func ewm(v []float64, span float64) []float64 {
	alpha := 2 / (span + 1)
	ret := make([]float64, len(v))
	num, den := 0.0, 0.0
	for i, x := range v {
		if math.IsNaN(x) {
			ret[i] = math.NaN()
			continue
		}
		num = x + (1-alpha)*num
		den = 1 + (1-alpha)*den
		ret[i] = num / den
	}
	return ret
}
