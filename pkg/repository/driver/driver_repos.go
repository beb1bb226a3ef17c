//nolint:whitespace // can't make both editor and linter happy
package driver

import (
	"context"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

// Ensure inserts the driver unless a driver with the same code exists.
// A teamId of 0 leaves the team unset.
func Ensure(ctx context.Context, conn repository.Querier, d *model.Driver, teamId int) (
	bool, error,
) {
	var team *int
	if teamId > 0 {
		team = &teamId
	}
	cmdTag, err := conn.Exec(ctx, `
	insert into drivers (
		driver_code, driver_number, first_name, last_name, full_name,
		country_code, team_id
	) values ($1,$2,$3,$4,$5,$6,$7)
	on conflict do nothing
	`,
		d.Code, d.Number, d.FirstName, d.LastName, d.FullName, d.CountryCode, team)
	if err != nil {
		return false, err
	}
	return cmdTag.RowsAffected() == 1, nil
}

func LoadByCode(ctx context.Context, conn repository.Querier, code string) (
	*model.Driver, error,
) {
	var item model.Driver
	var team, colour *string
	if err := conn.QueryRow(ctx, `
	select d.driver_code, d.driver_number, d.first_name, d.last_name, d.full_name,
		d.country_code, t.team_name, t.team_colour
	from drivers d left join teams t on t.team_id=d.team_id
	where d.driver_code=$1
	`, code).Scan(
		&item.Code, &item.Number, &item.FirstName, &item.LastName, &item.FullName,
		&item.CountryCode, &team, &colour,
	); err != nil {
		return nil, err
	}
	item.Team = model.Team{
		Name:   model.OrUnknown(lo.FromPtr(team)),
		Colour: model.OrUnknown(lo.FromPtr(colour)),
	}
	return &item, nil
}
