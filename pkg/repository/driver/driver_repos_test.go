package driver

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	teamrepos "github.com/mpapenbr/f1-sectorwalk/pkg/repository/team"
	"github.com/mpapenbr/f1-sectorwalk/testsupport/testdb"
)

func TestEnsureAndLoad(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	team := model.Team{Name: "Red Bull Racing", Colour: "3671C6"}
	teamId, _, err := teamrepos.Ensure(ctx, pool, &team)
	assert.NilError(t, err)

	ver := &model.Driver{
		Number: 1, Code: "VER", FirstName: "Max", LastName: "Verstappen",
		FullName: "Max VERSTAPPEN", CountryCode: "NED", Team: team,
	}
	tests := []struct {
		name   string
		driver *model.Driver
		teamId int
		want   bool
	}{
		{name: "new entry", driver: ver, teamId: teamId, want: true},
		{name: "duplicate", driver: ver, teamId: teamId, want: false},
		{
			name: "without team",
			driver: &model.Driver{
				Number: 99, Code: "XYZ", FirstName: model.Unknown, LastName: model.Unknown,
				FullName: model.Unknown, CountryCode: model.Unknown,
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Ensure(ctx, pool, tt.driver, tt.teamId)
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
		})
	}

	got, err := LoadByCode(ctx, pool, "VER")
	assert.NilError(t, err)
	assert.DeepEqual(t, got, ver)

	got, err = LoadByCode(ctx, pool, "XYZ")
	assert.NilError(t, err)
	assert.Equal(t, got.Team.Name, model.Unknown)
}
