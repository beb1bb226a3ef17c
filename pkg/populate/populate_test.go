//nolint:funlen // ok for tests
package populate

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/omitnull"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository/analysis"
	laprepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/lap"
	"github.com/mpapenbr/f1-sectorwalk/testsupport/fakeprovider"
	"github.com/mpapenbr/f1-sectorwalk/testsupport/testdb"
)

func setupProvider() *fakeprovider.Provider {
	p := fakeprovider.New()
	country := model.Country{Code: "ESP", Name: "Spain"}
	events := []model.Event{
		{
			Key: 1, Year: 2022, Round: 1, Name: "Spanish Grand Prix", OfficialName: "GP",
			Location: "Barcelona", Format: model.FormatConventional,
			DateStart: time.Date(2022, 5, 22, 13, 0, 0, 0, time.UTC),
			Circuit:   model.Circuit{Key: 15, Name: "Catalunya", Country: country},
		},
		{
			Key: 2, Year: 2022, Round: 2, Name: "Emilia Romagna Grand Prix", OfficialName: "GP",
			Location: "Imola", Format: model.FormatSprint,
			DateStart: time.Date(2022, 4, 24, 13, 0, 0, 0, time.UTC),
			Circuit: model.Circuit{
				Key: 6, Name: "Imola", Country: model.Country{Code: "ITA", Name: "Italy"},
			},
		},
	}
	p.EventsByYear[2022] = events
	drivers := []model.Driver{
		{Number: 1, Code: "VER", FirstName: "Max", LastName: "Verstappen",
			FullName: "Max VERSTAPPEN", CountryCode: "NED",
			Team: model.Team{Name: "Red Bull Racing", Colour: "3671C6"}},
		{Number: 16, Code: "LEC", FirstName: "Charles", LastName: "Leclerc",
			FullName: "Charles LECLERC", CountryCode: "MON",
			Team: model.Team{Name: "Ferrari", Colour: "F91536"}},
	}
	result := func(number, pos int, kind model.SessionKind) model.Result {
		return model.Result{
			DriverNumber: number,
			Position:     omitnull.From(pos),
			Laps:         66,
			Status:       model.StatusFinished,
			Points:       model.PointsFor(kind, pos),
		}
	}
	for i := range events {
		s := p.AddSession(&events[i], model.SessionRace, 100+i)
		p.DriversBySession[s.Key] = drivers
		p.ResultsBySession[s.Key] = []model.Result{
			result(1, 1, model.SessionRace),
			result(16, 2, model.SessionRace),
			result(99, 3, model.SessionRace), // unknown driver
		}
		p.LapsBySession[s.Key] = []model.Lap{
			{DriverNumber: 1, LapNumber: 1, PitOut: true},
			{DriverNumber: 1, LapNumber: 2, Duration: omitnull.From(80 * time.Second)},
		}
	}
	// the sprint of event 2 is missing
	return p
}

func TestYear(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	p := setupProvider()

	sum, err := New(p, pool, WithLaps(true)).Year(ctx, 2022)
	require.NoError(t, err)
	assert.Equal(t, Stats{Inserted: 2}, *sum.Tables[TableCountries])
	assert.Equal(t, Stats{Inserted: 2}, *sum.Tables[TableTracks])
	assert.Equal(t, Stats{Inserted: 2}, *sum.Tables[TableEvents])
	assert.Equal(t, Stats{Inserted: 2, Existing: 2}, *sum.Tables[TableTeams])
	assert.Equal(t, Stats{Inserted: 2, Existing: 2}, *sum.Tables[TableDrivers])
	assert.Equal(t, Stats{Inserted: 4}, *sum.Tables[TableResults])
	assert.Equal(t, Stats{Inserted: 4}, *sum.Tables[TableLaps])
	assert.Equal(t, 2, sum.Report.Ok)
	// missing sprint + two unknown drivers
	assert.Equal(t, 3, sum.Report.Skipped)

	standings, err := analysis.Standings(ctx, pool, 2022)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, "VER", standings[0].DriverCode)
	assert.Equal(t, "50", standings[0].Points.String())

	laps, err := laprepos.LoadByDriver(ctx, pool, 1, model.SessionRace, "VER")
	require.NoError(t, err)
	assert.Len(t, laps, 2)

	// second run is idempotent
	sum, err = New(p, pool, WithLaps(true)).Year(ctx, 2022)
	require.NoError(t, err)
	assert.Equal(t, Stats{Existing: 2}, *sum.Tables[TableEvents])
	assert.Equal(t, Stats{Existing: 4}, *sum.Tables[TableResults])
}

func TestYearOptions(t *testing.T) {
	pool := testdb.InitTestDb()
	p := setupProvider()

	sum, err := New(p, pool, WithSessions(model.SessionQualifying)).Year(context.Background(), 2022)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Report.Ok)
	assert.Equal(t, 2, sum.Report.Skipped)
	assert.Nil(t, sum.Tables[TableLaps])

	_, err = New(p, pool).Year(context.Background(), 1999)
	assert.Error(t, err)
}

func TestSessionsOf(t *testing.T) {
	pp := New(nil, nil)
	assert.Equal(t,
		[]model.SessionKind{model.SessionRace},
		pp.sessionsOf(&model.Event{Format: model.FormatConventional}))
	assert.Equal(t,
		[]model.SessionKind{model.SessionRace, model.SessionSprint},
		pp.sessionsOf(&model.Event{Format: model.FormatSprint}))
}
