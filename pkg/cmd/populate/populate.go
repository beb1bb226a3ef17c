package populate

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/cmd/util"
	"github.com/mpapenbr/f1-sectorwalk/pkg/config"
	"github.com/mpapenbr/f1-sectorwalk/pkg/db/migrate"
	"github.com/mpapenbr/f1-sectorwalk/pkg/db/postgres"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/populate"
	"github.com/mpapenbr/f1-sectorwalk/pkg/utils"
)

type options struct {
	years       []int
	laps        bool
	sessions    []string
	createDB    bool
	maintenance string
	template    string
	owner       string
}

var opts options

func NewPopulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "stores seasons (events, drivers, results, laps) in the database",
		Long: `Stores the events, teams, drivers and session results of the given
seasons in the database referenced by --db. The schema is migrated first.
Existing rows are left untouched, so the command may be run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(util.Context(cmd))
		},
	}
	cmd.Flags().IntSliceVar(&opts.years, "year", []int{2022}, "seasons to store")
	cmd.Flags().BoolVar(&opts.laps, "laps", false, "store the laps of each session")
	cmd.Flags().StringSliceVar(&opts.sessions, "sessions",
		[]string{string(model.SessionRace), string(model.SessionSprint)},
		"session kinds to store results for")
	cmd.Flags().BoolVar(&opts.createDB, "create-db", false,
		"create the database if it does not exist")
	cmd.Flags().StringVar(&opts.maintenance, "maintenance-db", "postgres",
		"database to connect to when creating the target database")
	cmd.Flags().StringVar(&opts.template, "template", "template1",
		"template used when creating the database")
	cmd.Flags().StringVar(&opts.owner, "owner", "postgres",
		"owner of a created database")
	return cmd
}

func run(ctx context.Context) error {
	dbURL := config.DB
	if opts.createDB {
		var err error
		if dbURL, err = createDatabase(ctx, dbURL); err != nil {
			return err
		}
	}
	if err := util.WaitForDB(dbURL); err != nil {
		return err
	}
	if err := migrate.MigrateDb(dbURL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	pool, err := util.NewPool(ctx, dbURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	p, release, err := util.NewProvider()
	if err != nil {
		return err
	}
	defer release()

	kinds := lo.Map(opts.sessions, func(s string, _ int) model.SessionKind {
		return model.SessionKind(strings.TrimSpace(s))
	})
	pp := populate.New(p, pool, populate.WithLaps(opts.laps), populate.WithSessions(kinds...))
	for _, year := range opts.years {
		log.Info("populating season", log.Int("year", year))
		sum, err := pp.Year(ctx, year)
		if sum != nil {
			sum.Log(log.Default().Named("populate"))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// createDatabase creates the database named in dbURL and returns the url
// of the (possibly lower cased) database.
func createDatabase(ctx context.Context, dbURL string) (string, error) {
	name, err := utils.DatabaseName(dbURL)
	if err != nil {
		return "", err
	}
	maintenanceURL, err := utils.WithDatabase(dbURL, opts.maintenance)
	if err != nil {
		return "", err
	}
	if err := util.WaitForDB(maintenanceURL); err != nil {
		return "", err
	}
	conn, err := pgx.Connect(ctx, maintenanceURL)
	if err != nil {
		return "", err
	}
	defer conn.Close(ctx)
	if _, err := postgres.CreateDatabase(ctx, conn, name, opts.template, opts.owner); err != nil {
		return "", err
	}
	return utils.WithDatabase(dbURL, strings.ToLower(name))
}
