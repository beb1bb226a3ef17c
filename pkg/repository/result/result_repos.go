//nolint:whitespace // can't make both editor and linter happy
package result

import (
	"context"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

// Row is a session result of a driver at an event
type Row struct {
	EventId     int
	SessionType model.SessionKind
	DriverCode  string
	TeamId      int // 0: unknown
	Result      model.Result
}

func Ensure(ctx context.Context, conn repository.Querier, r *Row) (bool, error) {
	var team *int
	if r.TeamId > 0 {
		team = &r.TeamId
	}
	cmdTag, err := conn.Exec(ctx, `
	insert into results (
		event_id, session_type, driver_code, team_id, finish_position,
		grid_position, laps_completed, status, race_points
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	on conflict do nothing
	`,
		r.EventId, string(r.SessionType), r.DriverCode, team,
		repository.ToPtr(r.Result.Position),
		repository.ToPtr(r.Result.GridPosition),
		r.Result.Laps, r.Result.Status, r.Result.Points)
	if err != nil {
		return false, err
	}
	return cmdTag.RowsAffected() == 1, nil
}

// LoadByEvent returns the results of an event's session ordered by position.
// Unclassified drivers come last.
func LoadByEvent(
	ctx context.Context,
	conn repository.Querier,
	eventId int,
	session model.SessionKind,
) ([]*Row, error) {
	rows, err := conn.Query(ctx, `
	select r.event_id, r.session_type, r.driver_code, coalesce(r.team_id, 0),
		d.driver_number, r.finish_position, r.grid_position, r.laps_completed,
		r.status, r.race_points
	from results r join drivers d on d.driver_code=r.driver_code
	where r.event_id=$1 and r.session_type=$2
	order by r.finish_position nulls last, r.driver_code
	`, eventId, string(session))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []*Row{}
	for rows.Next() {
		var item Row
		var sessionType string
		var pos, grid *int
		if err := rows.Scan(
			&item.EventId, &sessionType, &item.DriverCode, &item.TeamId,
			&item.Result.DriverNumber, &pos, &grid, &item.Result.Laps,
			&item.Result.Status, &item.Result.Points,
		); err != nil {
			return nil, err
		}
		item.SessionType = model.SessionKind(sessionType)
		item.Result.Position = repository.FromPtr(pos)
		item.Result.GridPosition = repository.FromPtr(grid)
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}
