package model

import (
	"time"

	"github.com/aarondl/opt/omitnull"
)

type Lap struct {
	DriverNumber int
	LapNumber    int
	DateStart    omitnull.Val[time.Time]
	Duration     omitnull.Val[time.Duration]
	Sector1      omitnull.Val[time.Duration]
	Sector2      omitnull.Val[time.Duration]
	Sector3      omitnull.Val[time.Duration]
	PitOut       bool
	PitIn        bool
}

// SectorEnd returns the point in time the given sector (1 or 2) was completed.
// The second result is false if the lap lacks the required timing data.
func (l *Lap) SectorEnd(sector int) (time.Time, bool) {
	if !l.DateStart.IsValue() || !l.Sector1.IsValue() {
		return time.Time{}, false
	}
	end := l.DateStart.GetOrZero().Add(l.Sector1.GetOrZero())
	switch sector {
	case 1:
		return end, true
	case 2:
		if !l.Sector2.IsValue() {
			return time.Time{}, false
		}
		return end.Add(l.Sector2.GetOrZero()), true
	}
	return time.Time{}, false
}

// Window returns start and end of the lap
func (l *Lap) Window() (start, end time.Time, ok bool) {
	if !l.DateStart.IsValue() || !l.Duration.IsValue() {
		return time.Time{}, time.Time{}, false
	}
	start = l.DateStart.GetOrZero()
	return start, start.Add(l.Duration.GetOrZero()), true
}

// Timed is true if the lap has a lap time
func (l *Lap) Timed() bool {
	return l.Duration.IsValue() && l.Duration.GetOrZero() > 0
}

// Clean is true for laps which neither start nor end in the pit lane
func (l *Lap) Clean() bool {
	return !l.PitIn && !l.PitOut
}
