//nolint:funlen // ok for tests
package compose

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1-sectorwalk/pkg/geom"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/sector"
)

const eps = 1e-9

var approx = cmpopts.EquateApprox(0, eps)

func rec(eventIndex, sec int, pts ...r2.Point) *sector.Record {
	return &sector.Record{
		Index:      sector.Index(eventIndex, sec),
		EventIndex: eventIndex,
		Sector:     sec,
		Points:     pts,
	}
}

func TestComposeTwoSectors(t *testing.T) {
	a := rec(0, 1, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0})
	b := rec(1, 2, r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 1})

	c, err := NewComposer(a)
	require.NoError(t, err)
	placed, err := c.Append(b)
	require.NoError(t, err)

	// b's entry direction (0,1) is mapped onto a's trailing direction (1,0)
	want := []r2.Point{{X: 1, Y: 0}, {X: 2, Y: 0}}
	if diff := cmp.Diff(want, placed, approx); diff != "" {
		t.Errorf("placed mismatch (-want +got):\n%s", diff)
	}
	track := c.Finalize()
	wantTrack := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	if diff := cmp.Diff(wantTrack, track.Points, approx); diff != "" {
		t.Errorf("track mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{0, 0, 1}, track.Sources)
	assert.Equal(t, []int{1, 1, 5}, track.Sectors)
	assert.InDelta(t, 2.0, track.Bounds.Hi().X, eps)
}

func TestRotationConvention(t *testing.T) {
	// trailing direction (0,1), entry direction (1,0) -> +pi/2
	a := rec(0, 1, r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 1})
	b := rec(1, 1, r2.Point{X: 5, Y: 5}, r2.Point{X: 6, Y: 5})

	angle := geom.SignedAngle(r2.Point{X: 1}, r2.Point{Y: 1})
	assert.InDelta(t, math.Pi/2, angle.Radians(), eps)

	track, err := Compose([]*sector.Record{a, b})
	require.NoError(t, err)
	want := []r2.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}}
	if diff := cmp.Diff(want, track.Points, approx); diff != "" {
		t.Errorf("track mismatch (-want +got):\n%s", diff)
	}
}

func TestJunctionPoint(t *testing.T) {
	a := rec(0, 1, r2.Point{X: 0}, r2.Point{X: 1}, r2.Point{X: 2})
	b := rec(1, 1, r2.Point{X: 0}, r2.Point{X: 1})

	track, err := Compose([]*sector.Record{a, b})
	require.NoError(t, err)
	assert.Len(t, track.Points, 4)

	track, err = Compose([]*sector.Record{a, b}, WithJunctionPoint(true))
	require.NoError(t, err)
	assert.Len(t, track.Points, 5)
	assert.True(t, geom.ApproxEqual(track.Points[2], track.Points[3], eps))
	assert.Len(t, track.Sources, 5)
}

func TestPrecomputedVectors(t *testing.T) {
	a := rec(0, 1, r2.Point{X: 0}, r2.Point{X: 1})
	a.Exit = r2.Point{X: 0, Y: 1} // differs from the raw points on purpose
	b := rec(1, 2, r2.Point{X: 0}, r2.Point{X: 1})
	b.Entry = r2.Point{X: 1, Y: 0}
	b.Exit = r2.Point{X: 1, Y: 0}

	c, err := NewComposer(a, WithPrecomputedVectors())
	require.NoError(t, err)
	placed, err := c.Append(b)
	require.NoError(t, err)
	want := []r2.Point{{X: 1, Y: 0}, {X: 1, Y: 1}}
	if diff := cmp.Diff(want, placed, approx); diff != "" {
		t.Errorf("placed mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, b.Exit, c.Trailing())
}

func TestComposerErrors(t *testing.T) {
	_, err := Compose(nil)
	assert.ErrorIs(t, err, ErrNoSectors)

	_, err = NewComposer(rec(0, 1))
	assert.ErrorIs(t, err, ErrNoSectors)

	a := rec(0, 1, r2.Point{X: 0}, r2.Point{X: 1})
	_, err = Compose([]*sector.Record{a, rec(1, 1, r2.Point{X: 3})})
	assert.ErrorIs(t, err, geom.ErrDegenerate)

	_, err = Compose([]*sector.Record{a, rec(1, 1, r2.Point{X: 3}, r2.Point{X: 3})})
	assert.ErrorIs(t, err, geom.ErrDegenerate)

	withExit := *a
	withExit.Exit = r2.Point{X: 1}
	pc, err := NewComposer(&withExit, WithPrecomputedVectors())
	require.NoError(t, err)
	_, err = pc.Append(rec(1, 1))
	assert.ErrorIs(t, err, geom.ErrDegenerate)
	_, err = Compose([]*sector.Record{a, rec(1, 1)})
	assert.ErrorIs(t, err, geom.ErrDegenerate)

	// a single point has no trailing direction
	_, err = Compose([]*sector.Record{
		rec(0, 1, r2.Point{X: 5, Y: 5}),
		rec(1, 1, r2.Point{X: 0}, r2.Point{Y: 1}),
	})
	assert.ErrorIs(t, err, geom.ErrDegenerate)

	c, err := NewComposer(a)
	require.NoError(t, err)
	c.Finalize()
	_, err = c.Append(a)
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestPrecomputedVectorsDegenerate(t *testing.T) {
	withVectors := func(r *sector.Record, entry, exit r2.Point) *sector.Record {
		r.Entry, r.Exit = entry, exit
		return r
	}
	unit := r2.Point{X: 1}
	tests := []struct {
		name  string
		first *sector.Record
		next  *sector.Record
	}{
		{
			name:  "zero exit of first sector",
			first: withVectors(rec(0, 1, r2.Point{}, unit), unit, r2.Point{}),
			next:  withVectors(rec(1, 1, r2.Point{}, unit), unit, unit),
		},
		{
			name:  "zero entry of appended sector",
			first: withVectors(rec(0, 1, r2.Point{}, unit), unit, unit),
			next:  withVectors(rec(1, 1, r2.Point{}, unit), r2.Point{}, unit),
		},
		{
			name:  "zero exit of appended sector",
			first: withVectors(rec(0, 1, r2.Point{}, unit), unit, unit),
			next:  withVectors(rec(1, 1, r2.Point{}, unit), unit, r2.Point{}),
		},
		{
			name:  "appended sector without points",
			first: withVectors(rec(0, 1, r2.Point{}, unit), unit, unit),
			next:  withVectors(rec(1, 1), unit, unit),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose([]*sector.Record{tt.first, tt.next}, WithPrecomputedVectors())
			assert.ErrorIs(t, err, geom.ErrDegenerate)
		})
	}

	// a single point sector is fine when the vectors are known
	track, err := Compose([]*sector.Record{
		withVectors(rec(0, 1, r2.Point{X: 3, Y: 3}), unit, unit),
		withVectors(rec(1, 1, r2.Point{}, unit), unit, unit),
	}, WithPrecomputedVectors())
	require.NoError(t, err)
	want := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	if diff := cmp.Diff(want, track.Points, approx); diff != "" {
		t.Errorf("track mismatch (-want +got):\n%s", diff)
	}
}

func TestJunctionContinuity(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	randomSector := func(i int) *sector.Record {
		pts := make([]r2.Point, 2+r.IntN(20))
		p := r2.Point{X: r.Float64() * 1000, Y: r.Float64() * 1000}
		for j := range pts {
			pts[j] = p
			p = p.Add(r2.Point{X: 1 + r.Float64()*10, Y: r.Float64()*20 - 10})
		}
		return rec(i, 1+i%3, pts...)
	}
	c, err := NewComposer(randomSector(0))
	require.NoError(t, err)
	for i := 1; i < 50; i++ {
		before := c.path[len(c.path)-1]
		trailing := c.Trailing()
		s := randomSector(i)
		placed, err := c.Append(s)
		require.NoError(t, err)
		assert.True(t, geom.ApproxEqual(before, placed[0], 1e-6),
			"step %d: junction %v != %v", i, before, placed[0])
		entry, err := geom.LeadingDirection(placed)
		require.NoError(t, err)
		assert.True(t, geom.ApproxEqual(trailing, entry, 1e-6),
			"step %d: entry %v != trailing %v", i, entry, trailing)
		assert.InDelta(t, 1.0, c.Trailing().Norm(), eps)
	}
}

func testDictionary() *sector.Dictionary {
	events := []model.Event{{Name: "A"}, {Name: "B"}}
	d := sector.NewDictionary(2022, events)
	for ev := range events {
		for s := 1; s <= 3; s++ {
			d.Add(rec(ev, s, r2.Point{X: 0}, r2.Point{X: float64(s)}))
		}
	}
	return d
}

func TestSelect(t *testing.T) {
	dict := testDictionary()
	tests := []struct {
		name      string
		sel       Selection
		wantIdx   []int // expected record indexes, nil: random
		wantCount int
	}{
		{
			name:      "explicit",
			sel:       Selection{EventIndexes: []int{1, 0}, Sectors: []int{3, 1}},
			wantIdx:   []int{6, 1},
			wantCount: 2,
		},
		{
			name:      "shape mismatch falls back",
			sel:       Selection{EventIndexes: []int{1, 0}, Sectors: []int{3}, Count: 4, Seed: 1},
			wantCount: 4,
		},
		{
			name:      "sector out of range falls back",
			sel:       Selection{EventIndexes: []int{1}, Sectors: []int{4}, Seed: 1},
			wantCount: 6,
		},
		{
			name:      "event out of range falls back",
			sel:       Selection{EventIndexes: []int{2}, Sectors: []int{1}, Count: 2, Seed: 1},
			wantCount: 2,
		},
		{
			name:      "random count larger than available",
			sel:       Selection{Count: 50, Seed: 3},
			wantCount: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(dict, tt.sel)
			require.NoError(t, err)
			require.Len(t, got, tt.wantCount)
			seen := map[int]bool{}
			for _, r := range got {
				require.NotNil(t, r)
				assert.False(t, seen[r.Index], "duplicate %d", r.Index)
				seen[r.Index] = true
			}
			if tt.wantIdx != nil {
				for i, r := range got {
					assert.Equal(t, tt.wantIdx[i], r.Index)
				}
			}
		})
	}
}

func TestSelectDeterministic(t *testing.T) {
	dict := testDictionary()
	a, err := Select(dict, Selection{Seed: 42})
	require.NoError(t, err)
	b, err := Select(dict, Selection{Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = Select(sector.NewDictionary(2022, nil), Selection{})
	assert.ErrorIs(t, err, ErrNoSectors)
}

func TestRandomOrder(t *testing.T) {
	keys := []int{1, 2, 3, 7, 8, 9}
	got := RandomOrder(keys, 0, rand.New(rand.NewPCG(1, 1)))
	assert.ElementsMatch(t, keys, got)
	got = RandomOrder(keys, 2, rand.New(rand.NewPCG(1, 1)))
	assert.Len(t, got, 2)
	assert.Subset(t, keys, got)
}
