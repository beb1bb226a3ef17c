package openf1

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/aarondl/opt/omitnull"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
	"github.com/mpapenbr/f1-sectorwalk/pkg/telemetry"
)

var _ provider.Provider = (*Client)(nil)

// session names used by the api for a session kind
var sessionNames = map[model.SessionKind][]string{
	model.SessionQualifying:       {"Qualifying"},
	model.SessionSprintQualifying: {"Sprint Qualifying", "Sprint Shootout"},
	model.SessionSprint:           {"Sprint"},
	model.SessionRace:             {"Race"},
	model.SessionPractice:         {"Practice 1", "Practice 2", "Practice 3"},
}

func sessionKind(name string) model.SessionKind {
	for k, names := range sessionNames {
		if slices.Contains(names, name) {
			return k
		}
	}
	return model.SessionKind(name)
}

// Schedule returns the race weekends of a season ordered by date.
// Pre-season testing is excluded.
func (c *Client) Schedule(ctx context.Context, year int) ([]model.Event, error) {
	meetings, err := get[meeting](ctx, c, "meetings", fmt.Sprintf("year=%d", year))
	if err != nil {
		return nil, err
	}
	meetings = lo.Filter(meetings, func(m meeting, _ int) bool {
		return !strings.Contains(strings.ToLower(m.MeetingName), "testing")
	})
	if len(meetings) == 0 {
		return nil, fmt.Errorf("schedule %d: %w", year, provider.ErrNotFound)
	}
	slices.SortStableFunc(meetings, func(a, b meeting) int {
		return a.DateStart.Compare(b.DateStart)
	})

	sessions, err := get[session](ctx, c, "sessions", fmt.Sprintf("year=%d", year))
	if err != nil {
		return nil, err
	}
	sprint := map[int]bool{}
	for i := range sessions {
		if sessionKind(sessions[i].SessionName) == model.SessionSprint {
			sprint[sessions[i].MeetingKey] = true
		}
	}
	return lo.Map(meetings, func(m meeting, i int) model.Event {
		return toEvent(&m, i+1, sprint[m.MeetingKey])
	}), nil
}

func toEvent(m *meeting, round int, sprint bool) model.Event {
	format := model.FormatConventional
	if sprint {
		format = model.FormatSprint
	}
	return model.Event{
		Key:          m.MeetingKey,
		Year:         m.Year,
		Round:        round,
		Name:         m.MeetingName,
		OfficialName: model.OrUnknown(m.MeetingOfficialName),
		Location:     model.OrUnknown(m.Location),
		Format:       format,
		DateStart:    m.DateStart,
		Circuit: model.Circuit{
			Key:  m.CircuitKey,
			Name: model.OrUnknown(m.CircuitShortName),
			Country: model.Country{
				Code: model.OrUnknown(m.CountryCode),
				Name: model.OrUnknown(m.CountryName),
			},
		},
	}
}

func (c *Client) Session(
	ctx context.Context,
	event *model.Event,
	kind model.SessionKind,
) (*model.Session, error) {
	sessions, err := get[session](ctx, c, "sessions", fmt.Sprintf("meeting_key=%d", event.Key))
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		s := &sessions[i]
		if sessionKind(s.SessionName) != kind {
			continue
		}
		return &model.Session{
			Key:      s.SessionKey,
			EventKey: s.MeetingKey,
			Kind:     kind,
			Name:     s.SessionName,
			Start:    s.DateStart,
			End:      s.DateEnd,
		}, nil
	}
	return nil, fmt.Errorf("%s session of %s: %w", kind, event.Name, provider.ErrNotFound)
}

// Laps returns the laps of all drivers. Laps ending in the pit lane are
// flagged by PitIn.
func (c *Client) Laps(ctx context.Context, s *model.Session) ([]model.Lap, error) {
	query := fmt.Sprintf("session_key=%d", s.Key)
	laps, err := get[lap](ctx, c, "laps", query)
	if err != nil {
		return nil, err
	}
	if len(laps) == 0 {
		return nil, fmt.Errorf("laps of session %d: %w", s.Key, provider.ErrNotFound)
	}
	pits, err := get[pit](ctx, c, "pit", query)
	if err != nil {
		return nil, err
	}
	pitIn := map[[2]int]bool{}
	for _, p := range pits {
		pitIn[[2]int{p.DriverNumber, p.LapNumber}] = true
	}
	return lo.Map(laps, func(l lap, _ int) model.Lap {
		return model.Lap{
			DriverNumber: l.DriverNumber,
			LapNumber:    l.LapNumber,
			DateStart:    optTime(l.DateStart),
			Duration:     optSeconds(l.LapDuration),
			Sector1:      optSeconds(l.DurationSector1),
			Sector2:      optSeconds(l.DurationSector2),
			Sector3:      optSeconds(l.DurationSector3),
			PitOut:       l.IsPitOutLap,
			PitIn:        pitIn[[2]int{l.DriverNumber, l.LapNumber}],
		}
	}), nil
}

// LapTelemetry loads car data and positions of the lap and merges them.
func (c *Client) LapTelemetry(
	ctx context.Context,
	s *model.Session,
	l *model.Lap,
) (model.Telemetry, error) {
	start, end, ok := l.Window()
	if !ok {
		return nil, fmt.Errorf("lap %d of driver %d has no timing: %w",
			l.LapNumber, l.DriverNumber, provider.ErrUnavailable)
	}
	// a little margin to have readings for interpolation at the lap borders
	query := fmt.Sprintf("session_key=%d&driver_number=%d&date>=%s&date<=%s",
		s.Key, l.DriverNumber,
		formatDate(start.Add(-time.Second)), formatDate(end.Add(time.Second)))

	cars, err := get[carData](ctx, c, "car_data", query)
	if err != nil {
		return nil, err
	}
	locations, err := get[location](ctx, c, "location", query)
	if err != nil {
		return nil, err
	}
	c.l.Debug("lap telemetry",
		log.Int("driver", l.DriverNumber),
		log.Int("lap", l.LapNumber),
		log.Int("carData", len(cars)),
		log.Int("locations", len(locations)))

	return telemetry.Merge(s, l,
		lo.Map(cars, func(d carData, _ int) telemetry.CarData {
			return telemetry.CarData{
				Date:     d.Date,
				Speed:    d.Speed,
				Throttle: d.Throttle,
				Brake:    d.Brake,
				RPM:      d.RPM,
				Gear:     d.NGear,
				DRS:      d.DRS,
			}
		}),
		lo.Map(locations, func(d location, _ int) telemetry.Position {
			return telemetry.Position{Date: d.Date, X: d.X, Y: d.Y, Z: d.Z}
		}))
}

func (c *Client) Drivers(ctx context.Context, s *model.Session) ([]model.Driver, error) {
	drivers, err := get[driver](ctx, c, "drivers", fmt.Sprintf("session_key=%d", s.Key))
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, fmt.Errorf("drivers of session %d: %w", s.Key, provider.ErrNotFound)
	}
	return lo.Map(drivers, func(d driver, _ int) model.Driver {
		return model.Driver{
			Number:      d.DriverNumber,
			Code:        model.OrUnknown(d.NameAcronym),
			FirstName:   model.OrUnknown(d.FirstName),
			LastName:    model.OrUnknown(d.LastName),
			FullName:    model.OrUnknown(d.FullName),
			CountryCode: model.OrUnknown(lo.FromPtr(d.CountryCode)),
			Team: model.Team{
				Name:   model.OrUnknown(d.TeamName),
				Colour: model.OrUnknown(d.TeamColour),
			},
		}
	}), nil
}

// Results returns the classification of a session. Grid positions are only
// available for races and sprints.
func (c *Client) Results(ctx context.Context, s *model.Session) ([]model.Result, error) {
	query := fmt.Sprintf("session_key=%d", s.Key)
	results, err := get[sessionResult](ctx, c, "session_result", query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("results of session %d: %w", s.Key, provider.ErrNotFound)
	}
	grid := map[int]int{}
	if s.Kind == model.SessionRace || s.Kind == model.SessionSprint {
		positions, err := get[gridPosition](ctx, c, "starting_grid", query)
		if err != nil {
			return nil, err
		}
		for _, p := range positions {
			grid[p.DriverNumber] = p.Position
		}
	}
	return lo.Map(results, func(r sessionResult, _ int) model.Result {
		ret := model.Result{
			DriverNumber: r.DriverNumber,
			Position:     optInt(r.Position),
			Laps:         r.NumberOfLaps,
			Status:       status(&r),
		}
		if g, ok := grid[r.DriverNumber]; ok {
			ret.GridPosition = omitnull.From(g)
		}
		if r.Points != nil {
			ret.Points = decimal.NewFromFloat(*r.Points)
		} else {
			ret.Points = model.PointsFor(s.Kind, lo.FromPtr(r.Position))
		}
		return ret
	}), nil
}

func status(r *sessionResult) string {
	switch {
	case r.DSQ:
		return model.StatusDisqualified
	case r.DNS:
		return model.StatusDNS
	case r.DNF:
		return model.StatusDNF
	}
	return model.StatusFinished
}

// formatDate renders t the way the api expects it in date filters
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000")
}

func optTime(t *time.Time) omitnull.Val[time.Time] {
	if t == nil {
		return omitnull.Val[time.Time]{}
	}
	return omitnull.From(*t)
}

func optSeconds(f *float64) omitnull.Val[time.Duration] {
	if f == nil {
		return omitnull.Val[time.Duration]{}
	}
	return omitnull.From(time.Duration(math.Round(*f * float64(time.Second))))
}

func optInt(i *int) omitnull.Val[int] {
	if i == nil {
		return omitnull.Val[int]{}
	}
	return omitnull.From(*i)
}
