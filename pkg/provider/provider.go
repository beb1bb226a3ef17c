// Package provider defines the access to the external telemetry source.
package provider

import (
	"context"
	"errors"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("data unavailable")
)

// Provider is the data source for schedules, sessions, laps and telemetry
//
//nolint:lll // readability
type Provider interface {
	Schedule(ctx context.Context, year int) ([]model.Event, error)
	Session(ctx context.Context, event *model.Event, kind model.SessionKind) (*model.Session, error)
	Laps(ctx context.Context, session *model.Session) ([]model.Lap, error)
	LapTelemetry(ctx context.Context, session *model.Session, lap *model.Lap) (model.Telemetry, error)
	Drivers(ctx context.Context, session *model.Session) ([]model.Driver, error)
	Results(ctx context.Context, session *model.Session) ([]model.Result, error)
}

// TelemetryFetcher is the part of the Provider needed to load lap telemetry
//
//nolint:lll // readability
type TelemetryFetcher interface {
	LapTelemetry(ctx context.Context, session *model.Session, lap *model.Lap) (model.Telemetry, error)
}

// Skippable reports whether err describes missing data which should cause the
// affected record to be skipped. Cancellation is never skippable.
func Skippable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
