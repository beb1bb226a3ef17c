package sector

import (
	"slices"

	"github.com/golang/geo/r2"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
)

// Record is one sector of a circuit ready to be stitched into a composite track
type Record struct {
	Index      int // eventIndex*3 + sector
	EventIndex int
	Event      model.Event
	Sector     int
	Points     []r2.Point
	Entry      r2.Point // unit vector entering the sector
	Exit       r2.Point // unit vector leaving the sector
}

// Index returns the dictionary index of a sector (1-based)
func Index(eventIndex, sector int) int {
	return eventIndex*3 + sector
}

// BuildRecords cuts a lap into its three sector records.
//
//nolint:whitespace // can't make both editor and linter happy
func BuildRecords(
	eventIndex int,
	event *model.Event,
	tel model.Telemetry,
	b Boundaries,
) ([]*Record, error) {
	points := tel.Points()
	labels := Label(tel.Distances(), b)
	vec, err := Vectors(points, labels)
	if err != nil {
		return nil, err
	}
	entry := map[int]r2.Point{1: vec.V31, 2: vec.V12, 3: vec.V23}
	exit := map[int]r2.Point{1: vec.V12, 2: vec.V23, 3: vec.V31}

	ret := make([]*Record, 0, 3)
	for _, s := range []int{1, 2, 3} {
		var cut []r2.Point
		for i, l := range labels {
			if l == s {
				cut = append(cut, points[i])
			}
		}
		ret = append(ret, &Record{
			Index:      Index(eventIndex, s),
			EventIndex: eventIndex,
			Event:      *event,
			Sector:     s,
			Points:     slices.Clip(cut),
			Entry:      entry[s],
			Exit:       exit[s],
		})
	}
	return ret, nil
}

// Dictionary holds the sector records of a season
type Dictionary struct {
	Year    int
	Events  []model.Event // the schedule, position is the event index
	Records map[int]*Record
}

func NewDictionary(year int, events []model.Event) *Dictionary {
	return &Dictionary{Year: year, Events: events, Records: map[int]*Record{}}
}

func (d *Dictionary) Add(r *Record) {
	d.Records[r.Index] = r
}

// Keys returns the available sector indexes in ascending order
func (d *Dictionary) Keys() []int {
	ret := make([]int, 0, len(d.Records))
	for k := range d.Records {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret
}

func (d *Dictionary) Get(eventIndex, sector int) (*Record, bool) {
	r, ok := d.Records[Index(eventIndex, sector)]
	return r, ok
}

func (d *Dictionary) Len() int {
	return len(d.Records)
}
