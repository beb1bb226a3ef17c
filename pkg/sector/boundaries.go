// Package sector cuts laps into their three timing sectors.
package sector

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
)

const DefaultFastestLaps = 10

var (
	ErrNoLaps             = errors.New("no usable laps")
	ErrInvalidBoundaries  = errors.New("invalid sector boundaries")
	errEmptyTelemetryData = errors.New("empty telemetry")
)

// Boundaries holds the lap distances where sector 1 turns into sector 2 (D12)
// and sector 2 into sector 3 (D23).
type Boundaries struct {
	D12  float64
	D23  float64
	Laps int // number of laps the values are averaged from
}

// Validate checks 0 < D12 < D23 < total
func (b Boundaries) Validate(total float64) error {
	if b.D12 > 0 && b.D12 < b.D23 && b.D23 < total {
		return nil
	}
	return fmt.Errorf("%w: d12=%.1f d23=%.1f total=%.1f",
		ErrInvalidBoundaries, b.D12, b.D23, total)
}

type (
	Estimator struct {
		fetcher provider.TelemetryFetcher
		n       int
		l       *log.Logger
	}
	EstimatorOption func(e *Estimator)
)

// WithFastestLaps sets the number of fastest laps used for the estimation
func WithFastestLaps(n int) EstimatorOption {
	return func(e *Estimator) {
		if n > 0 {
			e.n = n
		}
	}
}

func NewEstimator(fetcher provider.TelemetryFetcher, opts ...EstimatorOption) *Estimator {
	ret := &Estimator{
		fetcher: fetcher,
		n:       DefaultFastestLaps,
		l:       log.Default().Named("sector.boundaries"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// SelectLaps returns up to n laps with the lowest lap time which carry
// completion times for sector 1 and 2.
func SelectLaps(laps []model.Lap, n int) []model.Lap {
	candidates := lo.Filter(laps, func(l model.Lap, _ int) bool {
		_, s1 := l.SectorEnd(1)
		_, s2 := l.SectorEnd(2)
		return s1 && s2 && l.Timed()
	})
	slices.SortStableFunc(candidates, func(a, b model.Lap) int {
		return cmp.Compare(a.Duration.GetOrZero(), b.Duration.GetOrZero())
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// Estimate computes the sector boundaries of a session by averaging the
// boundary distances of the fastest laps. Laps without telemetry are skipped.
//
//nolint:whitespace // can't make both editor and linter happy
func (e *Estimator) Estimate(
	ctx context.Context,
	session *model.Session,
	laps []model.Lap,
) (*Boundaries, *provider.Report, error) {
	report := provider.NewReport("boundary-laps")
	var d12s, d23s []float64
	for _, lap := range SelectLaps(laps, e.n) {
		out, err := e.lapBoundaries(ctx, session, &lap)
		if err != nil {
			return nil, report, err
		}
		v, ok := provider.Track(report, out)
		if !ok {
			e.l.Warn("skipping lap",
				log.Int("driver", lap.DriverNumber),
				log.Int("lap", lap.LapNumber),
				log.String("reason", out.Reason))
			continue
		}
		d12s = append(d12s, v[0])
		d23s = append(d23s, v[1])
	}
	if len(d12s) == 0 {
		return nil, report, ErrNoLaps
	}
	ret := &Boundaries{D12: lo.Mean(d12s), D23: lo.Mean(d23s), Laps: len(d12s)}
	e.l.Debug("boundaries",
		log.Int("session", session.Key),
		log.Float("d12", ret.D12),
		log.Float("d23", ret.D23),
		log.Int("laps", ret.Laps))
	return ret, report, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (e *Estimator) lapBoundaries(
	ctx context.Context,
	session *model.Session,
	lap *model.Lap,
) (provider.Outcome[[2]float64], error) {
	tel, err := e.fetcher.LapTelemetry(ctx, session, lap)
	if err != nil {
		if !provider.Skippable(err) {
			return provider.Outcome[[2]float64]{}, err
		}
		return provider.Skip[[2]float64]("lap %d/%d: %v",
			lap.DriverNumber, lap.LapNumber, err), nil
	}
	if len(tel) == 0 {
		return provider.Skip[[2]float64]("lap %d/%d: %v",
			lap.DriverNumber, lap.LapNumber, errEmptyTelemetryData), nil
	}
	var ret [2]float64
	for i, sector := range []int{1, 2} {
		end, _ := lap.SectorEnd(sector)
		ret[i] = NearestDistance(tel, session.SessionTime(end))
	}
	return provider.Ok(ret), nil
}

// NearestDistance returns the lap distance of the sample recorded closest to
// the given session time. The first sample wins on ties.
func NearestDistance(tel model.Telemetry, at time.Duration) float64 {
	best := -1
	bestDiff := time.Duration(math.MaxInt64)
	for i := range tel {
		diff := tel[i].SessionTime - at
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if best < 0 {
		return 0
	}
	return tel[best].Distance
}
