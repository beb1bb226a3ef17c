// Package fakeprovider is an in-memory provider.Provider used in tests.
package fakeprovider

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aarondl/opt/omitnull"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
)

var SessionStart = time.Date(2022, 5, 28, 14, 0, 0, 0, time.UTC)

type Provider struct {
	EventsByYear     map[int][]model.Event
	SessionsByKey    map[string]*model.Session
	LapsBySession    map[int][]model.Lap
	TelemetryByLap   map[string]model.Telemetry
	TelemetryErrors  map[string]error
	DriversBySession map[int][]model.Driver
	ResultsBySession map[int][]model.Result
	Calls            map[string]int
}

var _ provider.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{
		EventsByYear:     map[int][]model.Event{},
		SessionsByKey:    map[string]*model.Session{},
		LapsBySession:    map[int][]model.Lap{},
		TelemetryByLap:   map[string]model.Telemetry{},
		TelemetryErrors:  map[string]error{},
		DriversBySession: map[int][]model.Driver{},
		ResultsBySession: map[int][]model.Result{},
		Calls:            map[string]int{},
	}
}

func sessionKey(eventKey int, kind model.SessionKind) string {
	return fmt.Sprintf("%d/%s", eventKey, kind)
}

func LapKey(sessionKey, driver, lap int) string {
	return fmt.Sprintf("%d/%d/%d", sessionKey, driver, lap)
}

func (p *Provider) Schedule(ctx context.Context, year int) ([]model.Event, error) {
	p.Calls["schedule"]++
	ev, ok := p.EventsByYear[year]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return ev, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) Session(
	ctx context.Context, event *model.Event, kind model.SessionKind,
) (*model.Session, error) {
	p.Calls["session"]++
	s, ok := p.SessionsByKey[sessionKey(event.Key, kind)]
	if !ok {
		return nil, fmt.Errorf("session %s of %s: %w", kind, event.Name, provider.ErrNotFound)
	}
	return s, nil
}

func (p *Provider) Laps(ctx context.Context, session *model.Session) ([]model.Lap, error) {
	p.Calls["laps"]++
	return p.LapsBySession[session.Key], nil
}

//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) LapTelemetry(
	ctx context.Context, session *model.Session, lap *model.Lap,
) (model.Telemetry, error) {
	p.Calls["telemetry"]++
	key := LapKey(session.Key, lap.DriverNumber, lap.LapNumber)
	if err, ok := p.TelemetryErrors[key]; ok {
		return nil, err
	}
	tel, ok := p.TelemetryByLap[key]
	if !ok {
		return nil, fmt.Errorf("telemetry %s: %w", key, provider.ErrUnavailable)
	}
	return tel, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) Drivers(
	ctx context.Context, session *model.Session,
) ([]model.Driver, error) {
	p.Calls["drivers"]++
	return p.DriversBySession[session.Key], nil
}

//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) Results(
	ctx context.Context, session *model.Session,
) ([]model.Result, error) {
	p.Calls["results"]++
	return p.ResultsBySession[session.Key], nil
}

// AddSession registers a session for the event
//
//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) AddSession(
	event *model.Event, kind model.SessionKind, key int,
) *model.Session {
	s := &model.Session{
		Key:      key,
		EventKey: event.Key,
		Kind:     kind,
		Name:     string(kind),
		Start:    SessionStart,
		End:      SessionStart.Add(time.Hour),
	}
	p.SessionsByKey[sessionKey(event.Key, kind)] = s
	return s
}

// CircleLap describes a synthetic lap driven at constant speed on a circle
type CircleLap struct {
	Driver   int
	Lap      int
	Offset   time.Duration // lap start relative to session start
	Duration time.Duration
	Radius   float64
	Samples  int
	Center   [2]float64
}

// AddCircleLap registers a lap with sector times splitting the lap into thirds
// and the matching telemetry.
func (p *Provider) AddCircleLap(session *model.Session, c CircleLap) model.Lap {
	third := c.Duration / 3
	lap := model.Lap{
		DriverNumber: c.Driver,
		LapNumber:    c.Lap,
		DateStart:    omitnull.From(session.Start.Add(c.Offset)),
		Duration:     omitnull.From(c.Duration),
		Sector1:      omitnull.From(third),
		Sector2:      omitnull.From(third),
		Sector3:      omitnull.From(c.Duration - 2*third),
	}
	p.LapsBySession[session.Key] = append(p.LapsBySession[session.Key], lap)
	p.TelemetryByLap[LapKey(session.Key, c.Driver, c.Lap)] = CircleTelemetry(session, c)
	return lap
}

// CircleTelemetry creates counter-clockwise samples on a circle, the last
// sample stops short of the start point.
func CircleTelemetry(session *model.Session, c CircleLap) model.Telemetry {
	circumference := 2 * math.Pi * c.Radius
	speed := circumference / c.Duration.Seconds() // m/s
	ret := make(model.Telemetry, c.Samples)
	for i := range ret {
		frac := float64(i) / float64(c.Samples)
		t := time.Duration(frac * float64(c.Duration))
		angle := 2 * math.Pi * frac
		date := session.Start.Add(c.Offset + t)
		ret[i] = model.Sample{
			Date:        date,
			SessionTime: session.SessionTime(date),
			Time:        t,
			Distance:    frac * circumference,
			X:           c.Center[0] + c.Radius*math.Cos(angle),
			Y:           c.Center[1] + c.Radius*math.Sin(angle),
			Speed:       speed * 3.6,
			Throttle:    100,
		}
	}
	return ret
}
