// Package basedata provides sample records for repository tests.
package basedata

import (
	"context"
	"time"

	"github.com/aarondl/opt/omitnull"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	circuitrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/circuit"
	countryrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/country"
	driverrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/driver"
	eventrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/event"
	teamrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/team"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2022-05-29T13:00:00Z")
	return t
}

func SampleCountry() *model.Country {
	return &model.Country{Code: "MON", Name: "Monaco"}
}

func SampleCircuit() *model.Circuit {
	return &model.Circuit{Key: 22, Name: "Monte Carlo", Country: *SampleCountry()}
}

func SampleEvent() *model.Event {
	return &model.Event{
		Key:          1066,
		Year:         2022,
		Round:        7,
		Name:         "Monaco Grand Prix",
		OfficialName: "FORMULA 1 GRAND PRIX DE MONACO 2022",
		Location:     "Monte Carlo",
		Format:       model.FormatConventional,
		DateStart:    TestTime(),
		Circuit:      *SampleCircuit(),
	}
}

func SampleTeam() *model.Team {
	return &model.Team{Name: "Red Bull Racing", Colour: "3671C6"}
}

func SampleDrivers() []*model.Driver {
	return []*model.Driver{
		{
			Number: 1, Code: "VER", FirstName: "Max", LastName: "Verstappen",
			FullName: "Max VERSTAPPEN", CountryCode: "NED", Team: *SampleTeam(),
		},
		{
			Number: 11, Code: "PER", FirstName: "Sergio", LastName: "Perez",
			FullName: "Sergio PEREZ", CountryCode: "MEX", Team: *SampleTeam(),
		},
	}
}

func SampleResult(driverNumber, position int) model.Result {
	return model.Result{
		DriverNumber: driverNumber,
		Position:     omitnull.From(position),
		GridPosition: omitnull.From(position + 2),
		Laps:         64,
		Status:       model.StatusFinished,
		Points:       model.PointsFor(model.SessionRace, position),
	}
}

// HalfPoints is used to check numeric round trips
var HalfPoints = decimal.RequireFromString("12.5")

// CreateSampleEvent stores country, circuit, event, team and drivers.
// Returns the id of the sample team.
func CreateSampleEvent(db *pgxpool.Pool) (*model.Event, int) {
	ctx := context.Background()
	ev := SampleEvent()
	var teamId int
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if _, err := countryrepos.Ensure(ctx, tx, &ev.Circuit.Country); err != nil {
			return err
		}
		if _, err := circuitrepos.Ensure(ctx, tx, &ev.Circuit); err != nil {
			return err
		}
		if _, err := eventrepos.Ensure(ctx, tx, ev); err != nil {
			return err
		}
		var err error
		if teamId, _, err = teamrepos.Ensure(ctx, tx, SampleTeam()); err != nil {
			return err
		}
		for _, d := range SampleDrivers() {
			if _, err := driverrepos.Ensure(ctx, tx, d, teamId); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("createSampleEvent", log.ErrorField(err))
	}
	return ev, teamId
}
