package sector

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
)

type (
	// Builder collects the sector records of a season
	Builder struct {
		p           provider.Provider
		fastestLaps int
		l           *log.Logger
	}
	BuilderOption func(b *Builder)
)

func WithBoundaryLaps(n int) BuilderOption {
	return func(b *Builder) {
		b.fastestLaps = n
	}
}

func NewBuilder(p provider.Provider, opts ...BuilderOption) *Builder {
	ret := &Builder{
		p:           p,
		fastestLaps: DefaultFastestLaps,
		l:           log.Default().Named("sector"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Build collects sector records for the events of year until limit sectors
// are reached (limit <= 0: no limit). Events lacking data are skipped and
// listed in the report. Degenerate geometry aborts the build.
//
//nolint:whitespace // can't make both editor and linter happy
func (b *Builder) Build(ctx context.Context, year, limit int) (
	*Dictionary, *provider.Report, error,
) {
	events, err := b.p.Schedule(ctx, year)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule %d: %w", year, err)
	}
	dict := NewDictionary(year, events)
	report := provider.NewReport("sector-events")
	for eventIndex := range events {
		if limit > 0 && Index(eventIndex, 1) > limit {
			break
		}
		ev := &events[eventIndex]
		out, err := b.processEvent(ctx, eventIndex, ev)
		if err != nil {
			return nil, report, fmt.Errorf("event %s: %w", ev.Name, err)
		}
		recs, ok := provider.Track(report, out)
		if !ok {
			b.l.Warn("skipping event",
				log.String("event", ev.Name),
				log.String("reason", out.Reason))
			continue
		}
		for _, r := range recs {
			if limit > 0 && r.Index > limit {
				break
			}
			dict.Add(r)
		}
		b.l.Info("collected sectors",
			log.Int("eventIndex", eventIndex),
			log.String("event", ev.Name),
			log.String("circuit", ev.Circuit.Name))
	}
	return dict, report, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (b *Builder) processEvent(
	ctx context.Context,
	eventIndex int,
	ev *model.Event,
) (provider.Outcome[[]*Record], error) {
	skip := func(err error) (provider.Outcome[[]*Record], error) {
		if provider.Skippable(err) {
			return provider.Skip[[]*Record]("%s: %v", ev.Name, err), nil
		}
		return provider.Outcome[[]*Record]{}, err
	}
	session, err := b.p.Session(ctx, ev, model.SessionQualifying)
	if err != nil {
		return skip(err)
	}
	laps, err := b.p.Laps(ctx, session)
	if err != nil {
		return skip(err)
	}
	fastest, err := FastestLap(laps)
	if err != nil {
		return skip(err)
	}
	tel, err := b.p.LapTelemetry(ctx, session, fastest)
	if err != nil {
		return skip(err)
	}
	if len(tel) == 0 {
		return skip(errEmptyTelemetryData)
	}

	bounds, lapReport, err := NewEstimator(b.p, WithFastestLaps(b.fastestLaps)).
		Estimate(ctx, session, laps)
	if lapReport != nil {
		lapReport.Log(b.l)
	}
	if err != nil {
		return skip(err)
	}
	if err := bounds.Validate(tel[len(tel)-1].Distance); err != nil {
		return skip(err)
	}
	recs, err := BuildRecords(eventIndex, ev, tel, *bounds)
	if err != nil {
		// degenerate geometry is not recoverable
		return provider.Outcome[[]*Record]{}, err
	}
	return provider.Ok(recs), nil
}

// FastestLap returns the timed lap with the lowest lap time
func FastestLap(laps []model.Lap) (*model.Lap, error) {
	timed := lo.Filter(laps, func(l model.Lap, _ int) bool {
		_, _, ok := l.Window()
		return ok && l.Timed()
	})
	if len(timed) == 0 {
		return nil, errors.Join(ErrNoLaps, provider.ErrUnavailable)
	}
	ret := lo.MinBy(timed, func(a, b model.Lap) bool {
		return a.Duration.GetOrZero() < b.Duration.GetOrZero()
	})
	return &ret, nil
}
