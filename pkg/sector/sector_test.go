//nolint:funlen,dupl // ok for tests
package sector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aarondl/opt/omitnull"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1-sectorwalk/pkg/geom"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
	"github.com/mpapenbr/f1-sectorwalk/testsupport/fakeprovider"
)

const (
	radius  = 1000.0
	samples = 600
)

var circumference = 2 * math.Pi * radius

func TestLabel(t *testing.T) {
	tests := []struct {
		name      string
		distances []float64
		b         Boundaries
		want      []int
	}{
		{
			name:      "scenario",
			distances: []float64{0, 500, 1500, 2500},
			b:         Boundaries{D12: 1000, D23: 2000},
			want:      []int{1, 1, 2, 3},
		},
		{
			name:      "half open intervals",
			distances: []float64{999.9, 1000, 1999.9, 2000},
			b:         Boundaries{D12: 1000, D23: 2000},
			want:      []int{1, 2, 2, 3},
		},
		{
			name:      "empty",
			distances: []float64{},
			b:         Boundaries{D12: 1, D23: 2},
			want:      []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.distances, tt.b))
		})
	}
}

func TestLabelMonotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for run := 0; run < 100; run++ {
		n := 2 + r.IntN(200)
		distances := make([]float64, n)
		acc := 0.0
		for i := range distances {
			distances[i] = acc
			acc += r.Float64() * 50
		}
		total := distances[n-1]
		d12 := total * (0.05 + 0.4*r.Float64())
		d23 := d12 + (total-d12)*(0.1+0.8*r.Float64())
		labels := Label(distances, Boundaries{D12: d12, D23: d23})
		require.Len(t, labels, n)
		for i, l := range labels {
			require.Contains(t, []int{1, 2, 3}, l)
			if i > 0 {
				require.GreaterOrEqual(t, l, labels[i-1], "run %d idx %d", run, i)
			}
		}
	}
}

func TestBoundariesValidate(t *testing.T) {
	tests := []struct {
		name    string
		b       Boundaries
		total   float64
		wantErr bool
	}{
		{"valid", Boundaries{D12: 10, D23: 20}, 30, false},
		{"zero d12", Boundaries{D12: 0, D23: 20}, 30, true},
		{"swapped", Boundaries{D12: 20, D23: 10}, 30, true},
		{"beyond lap", Boundaries{D12: 10, D23: 30}, 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate(tt.total)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBoundaries)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVectors(t *testing.T) {
	points := []r2.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, // sector 1
		{X: 3, Y: 0}, {X: 3, Y: 2}, // sector 2
		{X: 3, Y: 5}, {X: 1, Y: 5}, {X: -3, Y: 2}, // sector 3
	}
	labels := []int{1, 1, 2, 2, 3, 3, 3}
	got, err := Vectors(points, labels)
	require.NoError(t, err)
	assert.True(t, geom.ApproxEqual(r2.Point{X: 1, Y: 0}, got.V12, 1e-9), "v12 %v", got.V12)
	assert.True(t, geom.ApproxEqual(r2.Point{X: 0, Y: 1}, got.V23, 1e-9), "v23 %v", got.V23)
	assert.True(t, geom.ApproxEqual(r2.Point{X: -0.8, Y: -0.6}, got.V31, 1e-9), "v31 %v", got.V31)
	for _, v := range []r2.Point{got.V12, got.V23, got.V31} {
		assert.InDelta(t, 1.0, v.Norm(), 1e-9)
	}
}

func TestVectorsDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []r2.Point
		labels []int
	}{
		{
			name:   "missing sector",
			points: []r2.Point{{X: 0}, {X: 1}, {X: 2}},
			labels: []int{1, 1, 3},
		},
		{
			name:   "coincident transition",
			points: []r2.Point{{X: 0}, {X: 1}, {X: 1}, {X: 2}, {X: 3}},
			labels: []int{1, 1, 2, 3, 3},
		},
		{
			name:   "single point lap",
			points: []r2.Point{{X: 0}},
			labels: []int{3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Vectors(tt.points, tt.labels)
			assert.ErrorIs(t, err, geom.ErrDegenerate)
		})
	}
}

func TestNearestDistance(t *testing.T) {
	tel := model.Telemetry{
		{SessionTime: 10 * time.Second, Distance: 0},
		{SessionTime: 11 * time.Second, Distance: 50},
		{SessionTime: 12 * time.Second, Distance: 100},
	}
	assert.InDelta(t, 50.0, NearestDistance(tel, 11200*time.Millisecond), 1e-9)
	assert.InDelta(t, 0.0, NearestDistance(tel, 10500*time.Millisecond), 1e-9, "tie picks first")
	assert.InDelta(t, 100.0, NearestDistance(tel, time.Minute), 1e-9)
	assert.InDelta(t, 0.0, NearestDistance(nil, time.Minute), 1e-9)
}

func qualifyingSetup(t *testing.T, laps int) (*fakeprovider.Provider, *model.Event, *model.Session) {
	t.Helper()
	p := fakeprovider.New()
	ev := model.Event{Key: 1, Year: 2022, Round: 1, Name: "Bahrain Grand Prix"}
	p.EventsByYear[2022] = []model.Event{ev}
	s := p.AddSession(&ev, model.SessionQualifying, 100)
	for i := 0; i < laps; i++ {
		p.AddCircleLap(s, fakeprovider.CircleLap{
			Driver:   1 + i%3,
			Lap:      1 + i,
			Offset:   time.Duration(i) * 3 * time.Minute,
			Duration: 90*time.Second + time.Duration(i)*time.Second,
			Radius:   radius,
			Samples:  samples,
		})
	}
	return p, &ev, s
}

func TestEstimator(t *testing.T) {
	p, _, s := qualifyingSetup(t, 12)
	// the third fastest lap has no telemetry
	p.TelemetryErrors[fakeprovider.LapKey(s.Key, 3, 3)] = provider.ErrUnavailable

	b, report, err := NewEstimator(p).Estimate(context.Background(), s, p.LapsBySession[s.Key])
	require.NoError(t, err)
	assert.Equal(t, 9, b.Laps)
	assert.Equal(t, 9, report.Ok)
	assert.Equal(t, 1, report.Skipped)
	assert.InDelta(t, circumference/3, b.D12, circumference/samples)
	assert.InDelta(t, 2*circumference/3, b.D23, circumference/samples)
	assert.Equal(t, 10, p.Calls["telemetry"], "only the 10 fastest laps are used")
}

func TestEstimatorFewLaps(t *testing.T) {
	p, _, s := qualifyingSetup(t, 3)
	b, _, err := NewEstimator(p, WithFastestLaps(10)).
		Estimate(context.Background(), s, p.LapsBySession[s.Key])
	require.NoError(t, err)
	assert.Equal(t, 3, b.Laps)
}

func TestEstimatorNoLaps(t *testing.T) {
	p, _, s := qualifyingSetup(t, 2)
	for _, l := range p.LapsBySession[s.Key] {
		p.TelemetryErrors[fakeprovider.LapKey(s.Key, l.DriverNumber, l.LapNumber)] = errors.New("gone")
	}
	_, report, err := NewEstimator(p).Estimate(context.Background(), s, p.LapsBySession[s.Key])
	assert.ErrorIs(t, err, ErrNoLaps)
	assert.Equal(t, 2, report.Skipped)
}

func TestEstimatorCanceled(t *testing.T) {
	p, _, s := qualifyingSetup(t, 2)
	for _, l := range p.LapsBySession[s.Key] {
		p.TelemetryErrors[fakeprovider.LapKey(s.Key, l.DriverNumber, l.LapNumber)] = context.Canceled
	}
	_, _, err := NewEstimator(p).Estimate(context.Background(), s, p.LapsBySession[s.Key])
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectLaps(t *testing.T) {
	p, _, s := qualifyingSetup(t, 5)
	laps := p.LapsBySession[s.Key]
	// drop sector 2 of the fastest lap
	laps[0].Sector2 = omitnull.Val[time.Duration]{}
	got := SelectLaps(laps, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].LapNumber)
	assert.Equal(t, 3, got[1].LapNumber)
}

func TestBuildRecords(t *testing.T) {
	p, ev, s := qualifyingSetup(t, 1)
	tel := p.TelemetryByLap[fakeprovider.LapKey(s.Key, 1, 1)]
	b := Boundaries{D12: circumference / 3, D23: 2 * circumference / 3}

	recs, err := BuildRecords(2, ev, tel, b)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	total := 0
	for i, r := range recs {
		assert.Equal(t, i+1, r.Sector)
		assert.Equal(t, 6+i+1, r.Index)
		assert.InDelta(t, 1.0, r.Entry.Norm(), 1e-9)
		assert.InDelta(t, 1.0, r.Exit.Norm(), 1e-9)
		total += len(r.Points)
	}
	assert.Equal(t, samples, total)
	assert.Equal(t, recs[0].Exit, recs[1].Entry)
	assert.Equal(t, recs[1].Exit, recs[2].Entry)
	assert.Equal(t, recs[2].Exit, recs[0].Entry)
}

func TestBuilder(t *testing.T) {
	p := fakeprovider.New()
	events := []model.Event{}
	for i := 0; i < 3; i++ {
		events = append(events, model.Event{
			Key: 10 + i, Year: 2022, Round: i + 1, Name: fmt.Sprintf("GP %d", i+1),
		})
	}
	p.EventsByYear[2022] = events
	for _, i := range []int{0, 2} { // event 1 has no qualifying
		s := p.AddSession(&events[i], model.SessionQualifying, 100+i)
		for lap := 1; lap <= 3; lap++ {
			p.AddCircleLap(s, fakeprovider.CircleLap{
				Driver: 44, Lap: lap, Offset: time.Duration(lap) * 2 * time.Minute,
				Duration: 80*time.Second + time.Duration(lap)*time.Second,
				Radius:   radius * float64(i+1), Samples: samples,
			})
		}
	}

	tests := []struct {
		name     string
		limit    int
		wantKeys []int
	}{
		{"all", 0, []int{1, 2, 3, 7, 8, 9}},
		{"limit inside event", 2, []int{1, 2}},
		{"limit after skipped event", 7, []int{1, 2, 3, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, report, err := NewBuilder(p).Build(context.Background(), 2022, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeys, dict.Keys())
			if tt.limit == 0 || tt.limit > 3 {
				assert.Equal(t, 1, report.Skipped)
			}
			r, ok := dict.Get(0, 1)
			require.True(t, ok)
			assert.Equal(t, "GP 1", r.Event.Name)
		})
	}
}

func TestBuilderUnknownYear(t *testing.T) {
	_, _, err := NewBuilder(fakeprovider.New()).Build(context.Background(), 1950, 0)
	assert.ErrorIs(t, err, provider.ErrNotFound)
}

func TestFastestLap(t *testing.T) {
	p, _, s := qualifyingSetup(t, 4)
	got, err := FastestLap(p.LapsBySession[s.Key])
	require.NoError(t, err)
	assert.Equal(t, 1, got.LapNumber)

	_, err = FastestLap(nil)
	assert.ErrorIs(t, err, ErrNoLaps)
}
