package sector

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/mpapenbr/f1-sectorwalk/pkg/geom"
)

// Transitions holds the unit vectors at the sector transitions.
// V31 is approximated by the direction of the last two samples of the lap
// since the recorded path does not necessarily close.
type Transitions struct {
	V12 r2.Point
	V23 r2.Point
	V31 r2.Point
}

type span struct{ first, last int }

func spans(labels []int) map[int]*span {
	ret := map[int]*span{}
	for i, s := range labels {
		if sp, ok := ret[s]; ok {
			sp.first = min(sp.first, i)
			sp.last = max(sp.last, i)
		} else {
			ret[s] = &span{first: i, last: i}
		}
	}
	return ret
}

// Vectors computes the transition vectors of a labeled lap.
func Vectors(points []r2.Point, labels []int) (*Transitions, error) {
	if len(points) != len(labels) {
		return nil, fmt.Errorf("%d points but %d labels", len(points), len(labels))
	}
	sp := spans(labels)
	for _, s := range []int{1, 2, 3} {
		if sp[s] == nil {
			return nil, fmt.Errorf("sector %d is empty: %w", s, geom.ErrDegenerate)
		}
	}
	if sp[3].last < 1 {
		return nil, fmt.Errorf("lap closure: %w", geom.ErrDegenerate)
	}
	var err error
	ret := &Transitions{}
	if ret.V12, err = geom.Direction(points[sp[1].last], points[sp[2].first]); err != nil {
		return nil, fmt.Errorf("transition 1-2: %w", err)
	}
	if ret.V23, err = geom.Direction(points[sp[2].last], points[sp[3].first]); err != nil {
		return nil, fmt.Errorf("transition 2-3: %w", err)
	}
	if ret.V31, err = geom.Direction(points[sp[3].last-1], points[sp[3].last]); err != nil {
		return nil, fmt.Errorf("transition 3-1: %w", err)
	}
	return ret, nil
}
