package migrate

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/cmd/util"
	"github.com/mpapenbr/f1-sectorwalk/pkg/config"
	"github.com/mpapenbr/f1-sectorwalk/pkg/db/migrate"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration()
		},
	}

	cmd.Flags().StringVarP(&config.MigrationSourceURL,
		"migrationSourceUrl",
		"m",
		"",
		"url to migration files (default: embedded migrations)")

	return cmd
}

func startMigration() error {
	if err := util.WaitForDB(config.DB); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	dbURL := prepareURLForDB(config.DB)
	if config.MigrationSourceURL == "" {
		log.Info("Using embedded migrations")
		return migrate.MigrateDb(dbURL)
	}
	log.Info("Using migrations files at", log.String("source", config.MigrationSourceURL))
	return migrate.MigrateFromSource(config.MigrationSourceURL, dbURL)
}

func prepareURLForDB(url string) string {
	options := "sslmode=disable"
	if strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%s", url, options)
	} else {
		return fmt.Sprintf("%s?%s", url, options)
	}
}
