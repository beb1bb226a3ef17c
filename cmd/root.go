/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	lapsCmd "github.com/mpapenbr/f1-sectorwalk/pkg/cmd/laps"
	migrateCmd "github.com/mpapenbr/f1-sectorwalk/pkg/cmd/migrate"
	populateCmd "github.com/mpapenbr/f1-sectorwalk/pkg/cmd/populate"
	sectorsCmd "github.com/mpapenbr/f1-sectorwalk/pkg/cmd/sectors"
	standingsCmd "github.com/mpapenbr/f1-sectorwalk/pkg/cmd/standings"
	telemetryCmd "github.com/mpapenbr/f1-sectorwalk/pkg/cmd/telemetry"
	"github.com/mpapenbr/f1-sectorwalk/pkg/cmd/util"
	walkCmd "github.com/mpapenbr/f1-sectorwalk/pkg/cmd/walk"
	"github.com/mpapenbr/f1-sectorwalk/pkg/config"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider/openf1"
	"github.com/mpapenbr/f1-sectorwalk/version"
)

const envPrefix = "F1SW"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "f1sw",
	Short: "Composes fantasy tracks from the sectors of Formula 1 circuits",
	Long: `f1sw collects the qualifying laps of a season, cuts them into their
three timing sectors and stitches a selection of sectors into one track.
Supporting commands store seasons in postgres and resample lap telemetry.`,
	Version:           version.FullVersion,
	SilenceUsage:      true,
	PersistentPreRunE: util.SetupLogger,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.f1sw.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		"postgresql://DB_USERNAME:DB_USER_PASSWORD@DB_HOST:5432/f1",
		"Connection string for the database")
	rootCmd.PersistentFlags().StringVar(&config.CacheDir, "cache-dir", "",
		"directory of the telemetry response cache (empty: no cache)")
	rootCmd.PersistentFlags().StringVar(&config.CacheTTL, "cache-ttl", "0",
		"lifetime of cached responses, e.g. 24h (0: forever)")
	rootCmd.PersistentFlags().StringVar(&config.ProviderURL, "provider-url",
		openf1.DefaultURL,
		"base url of the telemetry provider")
	rootCmd.PersistentFlags().Float64Var(&config.ProviderRate, "provider-rate",
		openf1.DefaultRate,
		"max requests per second sent to the provider (0: unlimited)")
	rootCmd.PersistentFlags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for other services to be ready")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"info",
		"controls the log level for sql methods")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules, e.g. \"debug+:provider.* info+:*\"")

	// add commands here
	rootCmd.AddCommand(walkCmd.NewWalkCmd())
	rootCmd.AddCommand(sectorsCmd.NewSectorsCmd())
	rootCmd.AddCommand(lapsCmd.NewLapsCmd())
	rootCmd.AddCommand(telemetryCmd.NewTelemetryCmd())
	rootCmd.AddCommand(populateCmd.NewPopulateCmd())
	rootCmd.AddCommand(standingsCmd.NewStandingsCmd())
	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".f1sw" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".f1sw")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindAll(rootCmd, viper.GetViper())
}

func bindAll(cmd *cobra.Command, v *viper.Viper) {
	bindFlags(cmd, v)
	for _, sub := range cmd.Commands() {
		bindAll(sub, v)
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --favorite-color to STING_FAVORITE_COLOR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
