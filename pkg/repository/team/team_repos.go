//nolint:whitespace // can't make both editor and linter happy
package team

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

// Ensure returns the id of the team with the given name, creating it if needed.
func Ensure(ctx context.Context, conn repository.Querier, t *model.Team) (
	id int, created bool, err error,
) {
	err = conn.QueryRow(ctx, `
	insert into teams (team_name, team_colour) values ($1,$2)
	on conflict (team_name) do nothing
	returning team_id
	`, t.Name, t.Colour).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}
	id, err = IdByName(ctx, conn, t.Name)
	return id, false, err
}

func IdByName(ctx context.Context, conn repository.Querier, name string) (int, error) {
	var id int
	err := conn.QueryRow(ctx, "select team_id from teams where team_name=$1", name).Scan(&id)
	return id, err
}

func LoadById(ctx context.Context, conn repository.Querier, id int) (*model.Team, error) {
	var item model.Team
	if err := conn.QueryRow(ctx,
		"select team_name, team_colour from teams where team_id=$1", id,
	).Scan(&item.Name, &item.Colour); err != nil {
		return nil, err
	}
	return &item, nil
}
