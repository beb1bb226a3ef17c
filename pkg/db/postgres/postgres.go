package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/mpapenbr/f1-sectorwalk/log"
)

type PoolConfigOption func(cfg *pgxpool.Config)

// WithTracer logs the executed statements with the given level
func WithTracer(l *log.Logger, level log.Level) PoolConfigOption {
	return func(cfg *pgxpool.Config) {
		cfg.ConnConfig.Tracer = &queryTracer{log: l, level: level}
	}
}

func InitWithUrl(url string, opts ...PoolConfigOption) *pgxpool.Pool {
	pool, err := NewPool(context.Background(), url, opts...)
	if err != nil {
		log.Fatal("Unable to initialize database pool", log.ErrorField(err))
	}
	return pool
}

// NewPool creates a pool and checks that a connection can be established
func NewPool(ctx context.Context, url string, opts ...PoolConfigOption) (*pgxpool.Pool, error) {
	dbConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	for _, opt := range opts {
		opt(dbConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// CreateDatabase creates the database name unless it exists. Names are
// folded to lower case. The result reports whether the database was created.
//
//nolint:whitespace // can't make both editor and linter happy
func CreateDatabase(
	ctx context.Context,
	conn *pgx.Conn,
	name, template, owner string,
) (created bool, err error) {
	l := log.GetFromContext(ctx).Named("db")
	if lower := strings.ToLower(name); lower != name {
		l.Info("database name folded to lower case",
			log.String("name", name), log.String("used", lower))
		name = lower
	}
	var exists bool
	if err := conn.QueryRow(ctx,
		"select exists(select 1 from pg_database where datname=$1)", name,
	).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		l.Info("database already exists", log.String("name", name))
		return false, nil
	}
	stmt := fmt.Sprintf("CREATE DATABASE %s WITH TEMPLATE %s OWNER %s",
		pq.QuoteIdentifier(name),
		pq.QuoteIdentifier(template),
		pq.QuoteIdentifier(owner))
	if _, err := conn.Exec(ctx, stmt); err != nil {
		return false, fmt.Errorf("create database %s: %w", name, err)
	}
	l.Info("database created", log.String("name", name))
	return true, nil
}

type queryTracer struct {
	log   *log.Logger
	level log.Level
}

type traceKey struct{}

type traceData struct {
	sql   string
	start time.Time
}

func (tracer *queryTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	if ce := tracer.log.Check(tracer.level, "Executing"); ce != nil {
		ce.Write(log.String("sql", data.SQL), log.Any("args", data.Args))
	}
	return context.WithValue(ctx, traceKey{}, traceData{sql: data.SQL, start: time.Now()})
}

//nolint:whitespace // can't make the linters happy
func (tracer *queryTracer) TraceQueryEnd(
	ctx context.Context,
	conn *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	td, ok := ctx.Value(traceKey{}).(traceData)
	if !ok {
		return
	}
	if data.Err != nil {
		tracer.log.Warn("query failed",
			log.String("sql", td.sql),
			log.ErrorField(data.Err))
		return
	}
	if ce := tracer.log.Check(tracer.level, "Executed"); ce != nil {
		ce.Write(
			log.String("tag", data.CommandTag.String()),
			log.Duration("duration", time.Since(td.start)))
	}
}
