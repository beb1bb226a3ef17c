package resample

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
)

var ErrNoLaps = errors.New("no laps to resample")

type (
	// Values is a resampled series. NaN is encoded as JSON null.
	Values []float64

	Column struct {
		Driver string `json:"driver"`
		Lap    int    `json:"lap"`
		Values Values `json:"values"`
	}

	// Table holds the resampled laps of one session
	Table struct {
		Event    string        `json:"event"`
		Year     int           `json:"year"`
		Session  string        `json:"session"`
		Channel  model.Channel `json:"channel"`
		Interval time.Duration `json:"interval"`
		Samples  int           `json:"samples"`
		Columns  []Column      `json:"columns"`
	}
)

func (v Values) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(v)*8+2)
	buf = append(buf, '[')
	for i, f := range v {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, f, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

func (v *Values) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = lo.Map(raw, func(f *float64, _ int) float64 {
		if f == nil {
			return math.NaN()
		}
		return *f
	})
	return nil
}

// Name returns the column name used in exports, e.g. VER_12
func (c *Column) Name() string {
	return fmt.Sprintf("%s_%d", c.Driver, c.Lap)
}

type (
	Collector struct {
		p        provider.Provider
		kind     model.SessionKind
		channel  model.Channel
		interval time.Duration
		samples  int
		drivers  []string
		l        *log.Logger
	}
	CollectorOption func(c *Collector)
)

func WithSessionKind(k model.SessionKind) CollectorOption {
	return func(c *Collector) {
		c.kind = k
	}
}

func WithChannel(ch model.Channel) CollectorOption {
	return func(c *Collector) {
		c.channel = ch
	}
}

func WithInterval(d time.Duration) CollectorOption {
	return func(c *Collector) {
		c.interval = d
	}
}

// WithSamples fixes the number of grid points (0: derived from the longest lap)
func WithSamples(n int) CollectorOption {
	return func(c *Collector) {
		c.samples = n
	}
}

// WithDrivers restricts the laps to the given driver codes. Unknown codes are ignored.
func WithDrivers(codes ...string) CollectorOption {
	return func(c *Collector) {
		c.drivers = codes
	}
}

func NewCollector(p provider.Provider, opts ...CollectorOption) *Collector {
	c := &Collector{
		p:        p,
		kind:     model.SessionRace,
		channel:  model.ChannelSpeed,
		interval: DefaultInterval,
		l:        log.Default().Named("resample"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect resamples all laps of the event's session which neither start nor
// end in the pit lane.
//
//nolint:funlen // ok
func (c *Collector) Collect(
	ctx context.Context,
	event *model.Event,
) (*Table, *provider.Report, error) {
	if _, ok := (&model.Sample{}).Value(c.channel); !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownChannel, c.channel)
	}
	s, err := c.p.Session(ctx, event, c.kind)
	if err != nil {
		return nil, nil, err
	}
	drivers, err := c.p.Drivers(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	codes := map[int]string{}
	for _, d := range drivers {
		codes[d.Number] = d.Code
	}
	wanted := lo.Filter(c.drivers, func(code string, _ int) bool {
		return lo.Contains(lo.Values(codes), code)
	})
	if len(c.drivers) > 0 && len(wanted) < len(c.drivers) {
		c.l.Warn("ignoring unknown drivers",
			log.Strings("drivers", lo.Without(c.drivers, wanted...)))
	}

	laps, err := c.p.Laps(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	laps = lo.Filter(laps, func(l model.Lap, _ int) bool {
		if !l.Clean() || !l.Timed() {
			return false
		}
		return len(c.drivers) == 0 || slices.Contains(wanted, codes[l.DriverNumber])
	})
	if len(laps) == 0 {
		return nil, nil, fmt.Errorf("%s %s: %w", event.Name, c.kind, ErrNoLaps)
	}
	n := c.samples
	if n <= 0 {
		longest := lo.MaxBy(laps, func(a, b model.Lap) bool {
			return a.Duration.GetOrZero() > b.Duration.GetOrZero()
		})
		n = SampleCount(longest.Duration.GetOrZero(), c.interval)
	}

	t := &Table{
		Event:    event.Name,
		Year:     event.Year,
		Session:  s.Name,
		Channel:  c.channel,
		Interval: c.interval,
		Samples:  n,
	}
	report := provider.NewReport("resample " + event.Name)
	for i := range laps {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		o := c.column(ctx, s, &laps[i], codes, n)
		if col, ok := provider.Track(report, o); ok {
			t.Columns = append(t.Columns, col)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}
	return t, report, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (c *Collector) column(
	ctx context.Context,
	s *model.Session,
	l *model.Lap,
	codes map[int]string,
	n int,
) provider.Outcome[Column] {
	code, ok := codes[l.DriverNumber]
	if !ok {
		code = strconv.Itoa(l.DriverNumber)
	}
	tel, err := c.p.LapTelemetry(ctx, s, l)
	if err != nil {
		return provider.Skip[Column]("lap %d of %s: %v", l.LapNumber, code, err)
	}
	values, err := Grid(tel, c.channel, c.interval, n)
	if err != nil {
		return provider.Skip[Column]("lap %d of %s: %v", l.LapNumber, code, err)
	}
	return provider.Ok(Column{Driver: code, Lap: l.LapNumber, Values: values})
}
