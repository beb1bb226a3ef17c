//nolint:whitespace // can't make both editor and linter happy
package event

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

// Ensure inserts the event unless it exists. The track has to exist.
func Ensure(ctx context.Context, conn repository.Querier, e *model.Event) (bool, error) {
	cmdTag, err := conn.Exec(ctx, `
	insert into events (
		event_id, year, round, event_name, official_name, location,
		event_format, race_date, track_id
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	on conflict do nothing
	`,
		e.Key, e.Year, e.Round, e.Name, e.OfficialName, e.Location,
		e.Format, e.DateStart, e.Circuit.Key)
	if err != nil {
		return false, err
	}
	return cmdTag.RowsAffected() == 1, nil
}

func LoadById(ctx context.Context, conn repository.Querier, id int) (*model.Event, error) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where e.event_id=$1", selector), id)
	return scan(row)
}

// LoadByYear returns the events of a season ordered by round
func LoadByYear(ctx context.Context, conn repository.Querier, year int) (
	[]*model.Event, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where e.year=$1 order by e.round", selector), year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []*model.Event{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteById(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from events where event_id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// little helper
const selector = `
select e.event_id, e.year, e.round, e.event_name, e.official_name, e.location,
	e.event_format, e.race_date,
	t.track_id, t.track_name, c.country_code, c.country_name
from events e
	join tracks t on t.track_id=e.track_id
	join countries c on c.country_code=t.country_code`

func scan(row pgx.Row) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(
		&e.Key, &e.Year, &e.Round, &e.Name, &e.OfficialName, &e.Location,
		&e.Format, &e.DateStart,
		&e.Circuit.Key, &e.Circuit.Name, &e.Circuit.Country.Code, &e.Circuit.Country.Name,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
