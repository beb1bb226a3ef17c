package testdb

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/f1-sectorwalk/log"
	tcpg "github.com/mpapenbr/f1-sectorwalk/testsupport/tcpostgres"
)

// InitTestDb returns a pool to an empty test database.
// If TESTDB_URL is set that database is used instead of a container.
func InitTestDb() *pgxpool.Pool {
	var pool *pgxpool.Pool

	if os.Getenv("TESTDB_URL") != "" {
		pool = tcpg.SetupExternalTestDb()
	} else {
		pool = tcpg.SetupTestDb()
	}
	ctx := context.Background()
	if err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return tcpg.ClearAllTables(ctx, tx)
	}); err != nil {
		log.Fatal("initTestDb", log.ErrorField(err))
	}
	return pool
}
