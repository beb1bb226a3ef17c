//nolint:whitespace // can't make both editor and linter happy
package country

import (
	"context"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

// Ensure inserts the country unless it exists. Returns true if inserted.
func Ensure(ctx context.Context, conn repository.Querier, c *model.Country) (bool, error) {
	cmdTag, err := conn.Exec(ctx, `
	insert into countries (country_code, country_name) values ($1,$2)
	on conflict do nothing
	`, c.Code, c.Name)
	if err != nil {
		return false, err
	}
	return cmdTag.RowsAffected() == 1, nil
}

func LoadByCode(ctx context.Context, conn repository.Querier, code string) (
	*model.Country, error,
) {
	var item model.Country
	if err := conn.QueryRow(ctx,
		"select country_code, country_name from countries where country_code=$1", code,
	).Scan(&item.Code, &item.Name); err != nil {
		return nil, err
	}
	return &item, nil
}
