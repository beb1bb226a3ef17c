// Package telemetry merges the car data and position streams of a lap.
package telemetry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
)

var ErrNoSamples = errors.New("no samples in lap window")

type (
	// CarData is a single reading of the car's channels
	CarData struct {
		Date     time.Time
		Speed    float64
		Throttle float64
		Brake    float64
		RPM      float64
		Gear     int
		DRS      int
	}
	// Position is a single location reading
	Position struct {
		Date    time.Time
		X, Y, Z float64
	}
)

// Merge combines car data and positions of the given lap into one telemetry.
// The timeline is the union of both streams' timestamps within the lap window.
// Numeric channels are interpolated linearly, Gear and DRS keep the previous
// reading.
//
//nolint:whitespace // can't make both editor and linter happy
func Merge(
	session *model.Session,
	lap *model.Lap,
	car []CarData,
	pos []Position,
) (model.Telemetry, error) {
	start, end, ok := lap.Window()
	if !ok {
		return nil, fmt.Errorf("lap %d of driver %d has no timing: %w",
			lap.LapNumber, lap.DriverNumber, provider.ErrUnavailable)
	}
	car = window(car, start, end, func(c CarData) time.Time { return c.Date })
	pos = window(pos, start, end, func(p Position) time.Time { return p.Date })
	if len(car) == 0 || len(pos) == 0 {
		return nil, fmt.Errorf("lap %d of driver %d: %w",
			lap.LapNumber, lap.DriverNumber, errors.Join(ErrNoSamples, provider.ErrUnavailable))
	}

	dates := timeline(car, pos)
	ret := make(model.Telemetry, len(dates))
	ci, pi := 0, 0
	for i, d := range dates {
		for ci < len(car)-2 && !car[ci+1].Date.After(d) {
			ci++
		}
		for pi < len(pos)-2 && !pos[pi+1].Date.After(d) {
			pi++
		}
		s := model.Sample{
			Date:        d,
			SessionTime: session.SessionTime(d),
			Time:        d.Sub(start),
		}
		fillCar(&s, car, ci, d)
		fillPosition(&s, pos, pi, d)
		ret[i] = s
	}
	integrateDistance(ret)
	return ret, nil
}

// window returns the items whose date lies within [start,end], sorted by date
func window[T any](items []T, start, end time.Time, date func(T) time.Time) []T {
	ret := make([]T, 0, len(items))
	for _, it := range items {
		d := date(it)
		if d.Before(start) || d.After(end) {
			continue
		}
		ret = append(ret, it)
	}
	sort.SliceStable(ret, func(i, j int) bool { return date(ret[i]).Before(date(ret[j])) })
	return ret
}

func timeline(car []CarData, pos []Position) []time.Time {
	ret := make([]time.Time, 0, len(car)+len(pos))
	for i := range car {
		ret = append(ret, car[i].Date)
	}
	for i := range pos {
		ret = append(ret, pos[i].Date)
	}
	slices.SortFunc(ret, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(ret, func(a, b time.Time) bool { return a.Equal(b) })
}

// fraction returns the relative position of d between a and b, clamped to [0,1]
func fraction(a, b, d time.Time) float64 {
	span := b.Sub(a)
	if span <= 0 {
		return 0
	}
	f := float64(d.Sub(a)) / float64(span)
	return min(max(f, 0), 1)
}

func lerp(a, b, f float64) float64 {
	return a + f*(b-a)
}

func fillCar(s *model.Sample, car []CarData, i int, d time.Time) {
	a := car[i]
	if len(car) == 1 {
		s.Speed, s.Throttle, s.Brake, s.RPM = a.Speed, a.Throttle, a.Brake, a.RPM
		s.Gear, s.DRS = a.Gear, a.DRS
		return
	}
	b := car[i+1]
	f := fraction(a.Date, b.Date, d)
	s.Speed = lerp(a.Speed, b.Speed, f)
	s.Throttle = lerp(a.Throttle, b.Throttle, f)
	s.Brake = lerp(a.Brake, b.Brake, f)
	s.RPM = lerp(a.RPM, b.RPM, f)
	if f >= 1 {
		s.Gear, s.DRS = b.Gear, b.DRS
	} else {
		s.Gear, s.DRS = a.Gear, a.DRS
	}
}

func fillPosition(s *model.Sample, pos []Position, i int, d time.Time) {
	a := pos[i]
	if len(pos) == 1 {
		s.X, s.Y, s.Z = a.X, a.Y, a.Z
		return
	}
	b := pos[i+1]
	f := fraction(a.Date, b.Date, d)
	s.X = lerp(a.X, b.X, f)
	s.Y = lerp(a.Y, b.Y, f)
	s.Z = lerp(a.Z, b.Z, f)
}

// integrateDistance sets the distance driven since the first sample.
// Speed is in km/h, the integration uses the trapezoidal rule.
func integrateDistance(t model.Telemetry) {
	if len(t) == 0 {
		return
	}
	t[0].Distance = 0
	for i := 1; i < len(t); i++ {
		dt := t[i].Date.Sub(t[i-1].Date).Seconds()
		v := (t[i].Speed + t[i-1].Speed) / 2 / 3.6
		t[i].Distance = t[i-1].Distance + v*dt
	}
}
