// Package compose stitches sectors of different circuits into one track.
package compose

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/geom"
	"github.com/mpapenbr/f1-sectorwalk/pkg/sector"
)

var (
	ErrNoSectors = errors.New("no sectors to compose")
	ErrFinalized = errors.New("composer already finalized")
)

// Track is the composed polyline. Sources and Sectors run parallel to Points
// and hold the event index and the sector index each point originates from.
type Track struct {
	Points  []r2.Point
	Sources []int
	Sectors []int
	Bounds  r2.Rect
}

type (
	Composer struct {
		path        []r2.Point
		sources     []int
		sectors     []int
		trailing    r2.Point
		precomputed bool
		junction    bool
		done        bool
		l           *log.Logger
	}
	Option func(c *Composer)
)

// WithPrecomputedVectors aligns sectors by their recorded entry/exit vectors
// instead of the directions of the adjacent raw points.
func WithPrecomputedVectors() Option {
	return func(c *Composer) {
		c.precomputed = true
	}
}

// WithJunctionPoint controls whether the first point of an appended sector
// (which coincides with the current end of the track) is kept.
func WithJunctionPoint(keep bool) Option {
	return func(c *Composer) {
		c.junction = keep
	}
}

// NewComposer starts a track with the first sector moved to the origin.
func NewComposer(first *sector.Record, opts ...Option) (*Composer, error) {
	if first == nil || len(first.Points) == 0 {
		return nil, ErrNoSectors
	}
	c := &Composer{l: log.Default().Named("compose")}
	for _, opt := range opts {
		opt(c)
	}
	c.path = geom.ToOrigin(first.Points)
	c.sources = fill(nil, first.EventIndex, len(c.path))
	c.sectors = fill(nil, first.Index, len(c.path))
	var err error
	if c.precomputed {
		c.trailing, err = geom.Unit(first.Exit)
	} else {
		c.trailing, err = geom.TrailingDirection(c.path)
	}
	if err != nil {
		return nil, fmt.Errorf("sector %d: %w", first.Index, err)
	}
	return c, nil
}

// Append rotates s so that its entry direction matches the current trailing
// direction of the track and attaches it at the track's last point.
// The placed points of s (including its first point) are returned.
func (c *Composer) Append(s *sector.Record) ([]r2.Point, error) {
	if c.done {
		return nil, ErrFinalized
	}
	if len(s.Points) == 0 {
		return nil, fmt.Errorf("sector %d: %w", s.Index, geom.ErrDegenerate)
	}
	local := geom.ToOrigin(s.Points)
	var entry, exit r2.Point
	var err error
	if c.precomputed {
		if entry, err = geom.Unit(s.Entry); err == nil {
			exit, err = geom.Unit(s.Exit)
		}
	} else {
		entry, err = geom.LeadingDirection(local)
	}
	if err != nil {
		return nil, fmt.Errorf("sector %d: %w", s.Index, err)
	}
	angle := geom.SignedAngle(entry, c.trailing)
	end := c.path[len(c.path)-1]

	placed := make([]r2.Point, len(local))
	for i, p := range local {
		placed[i] = geom.Rotate(p, angle).Add(end)
	}
	c.l.Debug("append sector",
		log.Int("index", s.Index),
		log.Float("angle", angle.Degrees()),
		log.Int("points", len(placed)))

	add := placed
	if !c.junction {
		add = placed[1:]
	}
	c.path = append(c.path, add...)
	c.sources = fill(c.sources, s.EventIndex, len(add))
	c.sectors = fill(c.sectors, s.Index, len(add))

	if c.precomputed {
		c.trailing = exit
	} else {
		t, err := geom.TrailingDirection(c.path)
		if err != nil {
			return nil, fmt.Errorf("sector %d: %w", s.Index, err)
		}
		c.trailing = t
	}
	return placed, nil
}

// Trailing returns the current direction at the end of the track
func (c *Composer) Trailing() r2.Point {
	return c.trailing
}

// Finalize returns the composed track. The composer rejects further sectors.
func (c *Composer) Finalize() *Track {
	c.done = true
	return &Track{
		Points:  c.path,
		Sources: c.sources,
		Sectors: c.sectors,
		Bounds:  geom.Bounds(c.path),
	}
}

// Compose stitches the records in the given order
func Compose(records []*sector.Record, opts ...Option) (*Track, error) {
	if len(records) == 0 {
		return nil, ErrNoSectors
	}
	c, err := NewComposer(records[0], opts...)
	if err != nil {
		return nil, err
	}
	for _, r := range records[1:] {
		if _, err := c.Append(r); err != nil {
			return nil, err
		}
	}
	return c.Finalize(), nil
}

func fill(s []int, v, n int) []int {
	for range n {
		s = append(s, v)
	}
	return s
}
