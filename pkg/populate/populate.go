// Package populate fills the database with the season data of a provider.
package populate

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
	circuitrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/circuit"
	countryrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/country"
	driverrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/driver"
	eventrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/event"
	laprepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/lap"
	resultrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/result"
	teamrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/team"
)

const (
	TableCountries = "countries"
	TableTracks    = "tracks"
	TableEvents    = "events"
	TableTeams     = "teams"
	TableDrivers   = "drivers"
	TableResults   = "results"
	TableLaps      = "laps"
)

type (
	// Stats counts the rows handled per table
	Stats struct {
		Inserted int
		Existing int
	}
	Summary struct {
		Tables map[string]*Stats
		Report *provider.Report
	}
)

func newSummary(name string) *Summary {
	return &Summary{Tables: map[string]*Stats{}, Report: provider.NewReport(name)}
}

func (s *Summary) count(table string, inserted bool) {
	st, ok := s.Tables[table]
	if !ok {
		st = &Stats{}
		s.Tables[table] = st
	}
	if inserted {
		st.Inserted++
	} else {
		st.Existing++
	}
}

func (s *Summary) Log(l *log.Logger) {
	keys := lo.Keys(s.Tables)
	slices.Sort(keys)
	for _, k := range keys {
		l.Info("table",
			log.String("name", k),
			log.Int("inserted", s.Tables[k].Inserted),
			log.Int("existing", s.Tables[k].Existing))
	}
	s.Report.Log(l)
}

type (
	Populator struct {
		p     provider.Provider
		pool  *pgxpool.Pool
		laps  bool
		rules []model.SessionKind
		l     *log.Logger
	}
	Option func(p *Populator)
)

// WithLaps also stores the laps of each session
func WithLaps(b bool) Option {
	return func(p *Populator) {
		p.laps = b
	}
}

// WithSessions sets the session kinds to store results for.
// Sprint sessions are only requested for sprint weekends.
func WithSessions(kinds ...model.SessionKind) Option {
	return func(p *Populator) {
		p.rules = kinds
	}
}

func New(p provider.Provider, pool *pgxpool.Pool, opts ...Option) *Populator {
	ret := &Populator{
		p:     p,
		pool:  pool,
		rules: []model.SessionKind{model.SessionRace, model.SessionSprint},
		l:     log.Default().Named("populate"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Year stores the season's events, teams, drivers, results (and laps).
func (pp *Populator) Year(ctx context.Context, year int) (*Summary, error) {
	events, err := pp.p.Schedule(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("schedule %d: %w", year, err)
	}
	sum := newSummary(fmt.Sprintf("populate %d", year))
	for i := range events {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		ev := &events[i]
		if err := pp.storeEvent(ctx, sum, ev); err != nil {
			return sum, fmt.Errorf("event %s: %w", ev.Name, err)
		}
		for _, kind := range pp.sessionsOf(ev) {
			o, err := pp.storeSession(ctx, sum, ev, kind)
			if err != nil {
				return sum, fmt.Errorf("%s %s: %w", ev.Name, kind, err)
			}
			provider.Track(sum.Report, o)
		}
	}
	return sum, nil
}

func (pp *Populator) sessionsOf(ev *model.Event) []model.SessionKind {
	return lo.Filter(pp.rules, func(k model.SessionKind, _ int) bool {
		if k == model.SessionSprint || k == model.SessionSprintQualifying {
			return ev.Format == model.FormatSprint
		}
		return true
	})
}

func (pp *Populator) storeEvent(ctx context.Context, sum *Summary, ev *model.Event) error {
	return pgx.BeginFunc(ctx, pp.pool, func(tx pgx.Tx) error {
		ok, err := countryrepos.Ensure(ctx, tx, &ev.Circuit.Country)
		if err != nil {
			return err
		}
		sum.count(TableCountries, ok)
		if ok, err = circuitrepos.Ensure(ctx, tx, &ev.Circuit); err != nil {
			return err
		}
		sum.count(TableTracks, ok)
		if ok, err = eventrepos.Ensure(ctx, tx, ev); err != nil {
			return err
		}
		sum.count(TableEvents, ok)
		return nil
	})
}

// storeSession returns a skip outcome if the provider has no data for the
// session. Database errors are returned as error.
//
//nolint:whitespace,funlen // can't make both editor and linter happy
func (pp *Populator) storeSession(
	ctx context.Context,
	sum *Summary,
	ev *model.Event,
	kind model.SessionKind,
) (provider.Outcome[int], error) {
	skip := func(what string, err error) (provider.Outcome[int], error) {
		if !provider.Skippable(err) {
			return provider.Outcome[int]{}, err
		}
		pp.l.Warn("skipping session",
			log.String("event", ev.Name),
			log.String("session", string(kind)),
			log.ErrorField(err))
		return provider.Skip[int]("%s %s: %s: %v", ev.Name, kind, what, err), nil
	}
	s, err := pp.p.Session(ctx, ev, kind)
	if err != nil {
		return skip("session", err)
	}
	drivers, err := pp.p.Drivers(ctx, s)
	if err != nil {
		return skip("drivers", err)
	}
	results, err := pp.p.Results(ctx, s)
	if err != nil {
		return skip("results", err)
	}
	var laps []model.Lap
	if pp.laps {
		if laps, err = pp.p.Laps(ctx, s); err != nil {
			return skip("laps", err)
		}
	}

	rows := 0
	err = pgx.BeginFunc(ctx, pp.pool, func(tx pgx.Tx) error {
		codes := map[int]string{}
		teams := map[int]int{}
		for i := range drivers {
			d := &drivers[i]
			teamId, created, err := teamrepos.Ensure(ctx, tx, &d.Team)
			if err != nil {
				return err
			}
			sum.count(TableTeams, created)
			ok, err := driverrepos.Ensure(ctx, tx, d, teamId)
			if err != nil {
				return err
			}
			sum.count(TableDrivers, ok)
			codes[d.Number] = d.Code
			teams[d.Number] = teamId
		}
		for i := range results {
			r := &results[i]
			code, found := codes[r.DriverNumber]
			if !found {
				sum.Report.Skipped++
				sum.Report.Reasons = append(sum.Report.Reasons,
					fmt.Sprintf("%s %s: result of unknown driver %d",
						ev.Name, kind, r.DriverNumber))
				continue
			}
			ok, err := resultrepos.Ensure(ctx, tx, &resultrepos.Row{
				EventId:     ev.Key,
				SessionType: kind,
				DriverCode:  code,
				TeamId:      teams[r.DriverNumber],
				Result:      *r,
			})
			if err != nil {
				return err
			}
			sum.count(TableResults, ok)
			rows++
		}
		for i := range laps {
			code, found := codes[laps[i].DriverNumber]
			if !found {
				continue
			}
			ok, err := laprepos.Ensure(ctx, tx, &laprepos.Row{
				EventId:     ev.Key,
				SessionType: kind,
				DriverCode:  code,
				Lap:         laps[i],
			})
			if err != nil {
				return err
			}
			sum.count(TableLaps, ok)
			rows++
		}
		return nil
	})
	if err != nil {
		return provider.Outcome[int]{}, err
	}
	pp.l.Info("session stored",
		log.String("event", ev.Name),
		log.String("session", string(kind)),
		log.Int("rows", rows))
	return provider.Ok(rows), nil
}
