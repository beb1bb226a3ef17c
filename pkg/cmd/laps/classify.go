package laps

import (
	"math"
	"slices"
	"time"

	"github.com/aarondl/opt/omitnull"
	"github.com/samber/lo"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
)

type Kind string

const (
	KindFastest Kind = "fastest"
	KindFinal   Kind = "final"
	KindPush    Kind = "push"
	KindSkipped Kind = "skipped"
	KindNoData  Kind = "no data"
)

const DefaultThreshold = 265.0

// a push lap reaches the threshold speed shortly after crossing the line
const (
	windowStart = 8 * time.Second
	windowEnd   = 11 * time.Second
)

type Classified struct {
	Lap      model.Lap
	Kind     Kind
	MaxSpeed omitnull.Val[float64] // within the observation window
}

// MaxSpeed returns the highest speed strictly between 8s and 11s into the lap
func MaxSpeed(tel model.Telemetry) (float64, bool) {
	ret, found := math.Inf(-1), false
	for i := range tel {
		if tel[i].Time <= windowStart || tel[i].Time >= windowEnd {
			continue
		}
		ret, found = math.Max(ret, tel[i].Speed), true
	}
	return ret, found
}

// Classify labels the laps of one driver. The telemetry is looked up by lap
// number. Laps too slow in the observation window are KindSkipped even when
// they are the fastest or the final lap; laps without telemetry in the window
// are KindNoData.
func Classify(
	laps []model.Lap,
	tel map[int]model.Telemetry,
	threshold float64,
) []Classified {
	sorted := slices.Clone(laps)
	slices.SortFunc(sorted, func(a, b model.Lap) int { return a.LapNumber - b.LapNumber })

	fastest := -1
	timed := lo.Filter(sorted, func(l model.Lap, _ int) bool { return l.Timed() })
	if len(timed) > 0 {
		fastest = lo.MinBy(timed, func(a, b model.Lap) bool {
			return a.Duration.GetOrZero() < b.Duration.GetOrZero()
		}).LapNumber
	}

	ret := make([]Classified, len(sorted))
	for i, l := range sorted {
		c := Classified{Lap: l}
		if t, ok := tel[l.LapNumber]; ok {
			if v, ok := MaxSpeed(t); ok {
				c.MaxSpeed = omitnull.From(v)
			}
		}
		switch {
		case !c.MaxSpeed.IsValue():
			c.Kind = KindNoData
		case c.MaxSpeed.GetOrZero() < threshold:
			c.Kind = KindSkipped
		case l.LapNumber == fastest:
			c.Kind = KindFastest
		case i == len(sorted)-1:
			c.Kind = KindFinal
		default:
			c.Kind = KindPush
		}
		ret[i] = c
	}
	return ret
}
