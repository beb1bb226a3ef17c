//nolint:whitespace // can't make both editor and linter happy
package lap

import (
	"context"
	"time"

	"github.com/aarondl/opt/omitnull"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

// Row is a lap of a driver in a session of an event
type Row struct {
	EventId     int
	SessionType model.SessionKind
	DriverCode  string
	Lap         model.Lap
}

func Ensure(ctx context.Context, conn repository.Querier, r *Row) (bool, error) {
	cmdTag, err := conn.Exec(ctx, `
	insert into laps (
		event_id, session_type, driver_code, lap_number, lap_time_ms,
		sector1_ms, sector2_ms, sector3_ms, is_pit_out_lap, is_pit_in_lap
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	on conflict do nothing
	`,
		r.EventId, string(r.SessionType), r.DriverCode, r.Lap.LapNumber,
		millis(r.Lap.Duration), millis(r.Lap.Sector1),
		millis(r.Lap.Sector2), millis(r.Lap.Sector3),
		r.Lap.PitOut, r.Lap.PitIn)
	if err != nil {
		return false, err
	}
	return cmdTag.RowsAffected() == 1, nil
}

// LoadByDriver returns the laps of a driver in a session ordered by lap number
func LoadByDriver(
	ctx context.Context,
	conn repository.Querier,
	eventId int,
	session model.SessionKind,
	driverCode string,
) ([]*Row, error) {
	rows, err := conn.Query(ctx, `
	select l.lap_number, d.driver_number, l.lap_time_ms, l.sector1_ms, l.sector2_ms,
		l.sector3_ms, l.is_pit_out_lap, l.is_pit_in_lap
	from laps l join drivers d on d.driver_code=l.driver_code
	where l.event_id=$1 and l.session_type=$2 and l.driver_code=$3
	order by l.lap_number
	`, eventId, string(session), driverCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []*Row{}
	for rows.Next() {
		item := Row{EventId: eventId, SessionType: session, DriverCode: driverCode}
		var lapTime, s1, s2, s3 *int64
		if err := rows.Scan(
			&item.Lap.LapNumber, &item.Lap.DriverNumber, &lapTime, &s1, &s2, &s3,
			&item.Lap.PitOut, &item.Lap.PitIn,
		); err != nil {
			return nil, err
		}
		item.Lap.Duration = fromMillis(lapTime)
		item.Lap.Sector1 = fromMillis(s1)
		item.Lap.Sector2 = fromMillis(s2)
		item.Lap.Sector3 = fromMillis(s3)
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func millis(d omitnull.Val[time.Duration]) *int64 {
	if !d.IsValue() {
		return nil
	}
	ms := d.GetOrZero().Milliseconds()
	return &ms
}

func fromMillis(ms *int64) omitnull.Val[time.Duration] {
	if ms == nil {
		return omitnull.Val[time.Duration]{}
	}
	return omitnull.From(time.Duration(*ms) * time.Millisecond)
}
