package tcpostgres

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/db/migrate"
	database "github.com/mpapenbr/f1-sectorwalk/pkg/db/postgres"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
)

// SetupTestDb starts (or reuses) a postgres container and returns a pool for
// the migrated database.
func SetupTestDb() *pgxpool.Pool {
	return database.InitWithUrl(SetupTestDbURL())
}

const (
	containerName = "f1-sectorwalk-test"
	image         = "postgres:16"
	dbUser        = "postgres"
	dbPassword    = "password"
	dbName        = "postgres"
)

// startContainer starts the shared test container or reuses a running one
// with the same name. fsync is disabled, test data is disposable.
func startContainer(ctx context.Context, port nat.Port) (testcontainers.Container, error) {
	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Name:         containerName,
			Image:        image,
			ExposedPorts: []string{string(port)},
			Cmd:          []string{"postgres", "-c", "fsync=off"},
			Env: map[string]string{
				"POSTGRES_USER":     dbUser,
				"POSTGRES_PASSWORD": dbPassword,
				"POSTGRES_DB":       dbName,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
				wait.ForListeningPort(port),
			).WithDeadline(time.Minute),
		},
		Started: true,
		Reuse:   true,
	})
}

// SetupTestDbURL starts (or reuses) the test container and returns the url of
// the migrated database
func SetupTestDbURL() string {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal("invalid port", log.ErrorField(err))
	}
	container, err := startContainer(ctx, port)
	if err != nil {
		log.Fatal("could not start postgres container", log.ErrorField(err))
	}
	containerPort, err := container.MappedPort(ctx, port)
	if err != nil {
		log.Fatal("no mapped port", log.ErrorField(err))
	}
	host, err := container.Host(ctx)
	if err != nil {
		log.Fatal("no container host", log.ErrorField(err))
	}
	dbUrl := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		dbUser, dbPassword, host, containerPort.Port(), dbName)

	if err = migrate.MigrateDb(dbUrl); err != nil {
		log.Fatal("migration failed", log.ErrorField(err))
	}
	return dbUrl
}

// SetupExternalTestDb uses the database referenced by TESTDB_URL
func SetupExternalTestDb() *pgxpool.Pool {
	dbUrl := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDb(dbUrl); err != nil {
		log.Fatal("migration failed", log.ErrorField(err))
	}
	return database.InitWithUrl(dbUrl)
}

// ClearAllTables removes all rows, dependent tables first
func ClearAllTables(ctx context.Context, conn repository.Querier) error {
	for _, table := range []string{
		"laps", "results", "drivers", "teams", "events", "tracks", "countries",
	} {
		if _, err := conn.Exec(ctx, "delete from "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
