//nolint:whitespace // can't make both editor and linter happy
package circuit

import (
	"context"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

// Ensure inserts the circuit into the tracks table unless it exists.
// The country has to exist.
func Ensure(ctx context.Context, conn repository.Querier, c *model.Circuit) (bool, error) {
	cmdTag, err := conn.Exec(ctx, `
	insert into tracks (track_id, track_name, country_code) values ($1,$2,$3)
	on conflict do nothing
	`, c.Key, c.Name, c.Country.Code)
	if err != nil {
		return false, err
	}
	return cmdTag.RowsAffected() == 1, nil
}

func LoadById(ctx context.Context, conn repository.Querier, id int) (
	*model.Circuit, error,
) {
	var item model.Circuit
	if err := conn.QueryRow(ctx, `
	select t.track_id, t.track_name, c.country_code, c.country_name
	from tracks t join countries c on c.country_code=t.country_code
	where t.track_id=$1
	`, id).Scan(&item.Key, &item.Name, &item.Country.Code, &item.Country.Name); err != nil {
		return nil, err
	}
	return &item, nil
}
