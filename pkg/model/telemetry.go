package model

import (
	"time"

	"github.com/golang/geo/r2"
)

// Sample is a merged telemetry reading of car data and position
type Sample struct {
	Date        time.Time
	SessionTime time.Duration
	Time        time.Duration // offset from lap start
	Distance    float64       // meters since lap start
	X, Y, Z     float64
	Speed       float64 // km/h
	Throttle    float64 // percent
	Brake       float64
	Gear        int
	RPM         float64
	DRS         int
}

// Telemetry is an ordered sequence of samples of a single lap
type Telemetry []Sample

type Channel string

const (
	ChannelSpeed    Channel = "Speed"
	ChannelThrottle Channel = "Throttle"
	ChannelBrake    Channel = "Brake"
	ChannelRPM      Channel = "RPM"
	ChannelGear     Channel = "Gear"
	ChannelDistance Channel = "Distance"
)

func (t Telemetry) Distances() []float64 {
	ret := make([]float64, len(t))
	for i := range t {
		ret[i] = t[i].Distance
	}
	return ret
}

func (t Telemetry) Points() []r2.Point {
	ret := make([]r2.Point, len(t))
	for i := range t {
		ret[i] = r2.Point{X: t[i].X, Y: t[i].Y}
	}
	return ret
}

// Value returns the value of channel c for the sample. ok is false for unknown channels.
func (s *Sample) Value(c Channel) (v float64, ok bool) {
	switch c {
	case ChannelSpeed:
		return s.Speed, true
	case ChannelThrottle:
		return s.Throttle, true
	case ChannelBrake:
		return s.Brake, true
	case ChannelRPM:
		return s.RPM, true
	case ChannelGear:
		return float64(s.Gear), true
	case ChannelDistance:
		return s.Distance, true
	}
	return 0, false
}
