// Package util holds the setup shared by the commands.
package util

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/config"
	"github.com/mpapenbr/f1-sectorwalk/pkg/db/postgres"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider/cache"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider/openf1"
	"github.com/mpapenbr/f1-sectorwalk/pkg/utils"
)

var sqlLogger *log.Logger

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger replaces the default logger according to the log flags.
// It is used as PersistentPreRunE of the root command.
func SetupLogger(cmd *cobra.Command, args []string) error {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" {
		filter, err := log.WithFilter(config.LogFilter)
		if err != nil {
			return err
		}
		opts = append(opts, filter)
	}
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr, ParseLogLevel(config.LogLevel, log.InfoLevel), opts...)
		sqlLogger = log.New(os.Stderr, ParseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true), log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(os.Stderr, ParseLogLevel(config.LogLevel, log.InfoLevel),
			opts...)
		sqlLogger = log.DevLogger(os.Stderr, ParseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true), log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
	log.Debug("Config:",
		log.String("db", config.DB),
		log.String("cacheDir", config.CacheDir),
		log.String("providerURL", config.ProviderURL),
		log.Float64("providerRate", config.ProviderRate))
	return nil
}

// Context returns the command context carrying the default logger
func Context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return log.AddToContext(ctx, log.Default())
}

func waitTimeout() time.Duration {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	return timeout
}

// WaitForDB waits until the database host of dbURL accepts connections
func WaitForDB(dbURL string) error {
	addr := utils.ExtractFromDBURL(dbURL)
	if addr == "" {
		return errors.New("cannot extract database address from --db")
	}
	return utils.WaitForTCP(addr, waitTimeout())
}

// NewPool waits for the database and creates a pool with sql tracing
func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	if err := WaitForDB(dbURL); err != nil {
		return nil, err
	}
	var opts []postgres.PoolConfigOption
	if sqlLogger != nil {
		opts = append(opts, postgres.WithTracer(sqlLogger, log.DebugLevel))
	}
	return postgres.NewPool(ctx, dbURL, opts...)
}

// OpenCache opens the response cache configured by --cache-dir and
// --cache-ttl. The store is nil if no directory is configured.
func OpenCache() (*cache.Store, error) {
	if config.CacheDir == "" {
		return nil, nil
	}
	ttl, err := time.ParseDuration(config.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache-ttl %q: %w", config.CacheTTL, err)
	}
	return cache.Open(config.CacheDir,
		cache.WithTTL(ttl),
		cache.WithLogger(log.Default().Named("cache").With(
			log.String("dir", config.CacheDir))))
}

// NewProvider creates the OpenF1 client. The returned func releases the
// response cache if one is configured.
func NewProvider() (*openf1.Client, func(), error) {
	opts := []openf1.Option{
		openf1.WithRate(config.ProviderRate),
		openf1.WithLogger(log.Default().Named("provider.openf1").With(
			log.String("url", config.ProviderURL))),
	}
	release := func() {}
	store, err := OpenCache()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		log.Info("using response cache",
			log.String("dir", store.Dir()),
			log.Duration("ttl", store.TTL()))
		opts = append(opts, openf1.WithCache(store))
		release = func() {
			if err := store.Close(); err != nil {
				log.Warn("closing cache", log.ErrorField(err))
			}
		}
	}
	return openf1.New(config.ProviderURL, opts...), release, nil
}
