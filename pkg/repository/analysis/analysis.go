//nolint:whitespace // can't make both editor and linter happy
package analysis

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

type (
	Standing struct {
		Position   int
		DriverCode string
		FirstName  string
		LastName   string
		Points     decimal.Decimal
	}
	// Weekend is the points sum of a driver at an event
	Weekend struct {
		EventId    int
		DriverCode string
		Points     decimal.Decimal
		EventName  string
		Location   string
		Format     string
		RaceDate   time.Time
	}
)

// Standings returns the championship standings of a season ordered by points
func Standings(ctx context.Context, conn repository.Querier, year int) ([]Standing, error) {
	rows, err := conn.Query(ctx, `
	select r.driver_code, d.first_name, d.last_name, sum(r.race_points) as points
	from results r
		join events e on e.event_id=r.event_id
		join drivers d on d.driver_code=r.driver_code
	where e.year=$1
	group by r.driver_code, d.first_name, d.last_name
	order by sum(r.race_points) desc, r.driver_code
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []Standing{}
	for rows.Next() {
		item := Standing{Position: len(ret) + 1}
		if err := rows.Scan(
			&item.DriverCode, &item.FirstName, &item.LastName, &item.Points,
		); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// BestWeekend returns the event with the most points scored by the driver
func BestWeekend(
	ctx context.Context,
	conn repository.Querier,
	year int,
	driverCode string,
) (*Weekend, error) {
	var item Weekend
	if err := conn.QueryRow(ctx, `
	select r.event_id, r.driver_code, sum(r.race_points) as weekend_points,
		e.event_name, e.location, e.event_format, e.race_date
	from results r join events e on r.event_id=e.event_id
	where e.year=$1 and r.driver_code=$2
	group by r.event_id, e.event_id, r.driver_code
	order by sum(r.race_points) desc, e.race_date
	limit 1
	`, year, driverCode).Scan(
		&item.EventId, &item.DriverCode, &item.Points,
		&item.EventName, &item.Location, &item.Format, &item.RaceDate,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
