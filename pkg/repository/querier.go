package repository

import (
	"context"

	"github.com/aarondl/opt/omitnull"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//nolint:lll // ok for interface
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var (
	_ Querier = (*pgx.Conn)(nil)
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = pgx.Tx(nil)
)

// ToPtr converts an optional value into a nullable query argument
func ToPtr[T any](v omitnull.Val[T]) *T {
	if !v.IsValue() {
		return nil
	}
	x := v.GetOrZero()
	return &x
}

// FromPtr converts a scanned nullable column into an optional value
func FromPtr[T any](p *T) omitnull.Val[T] {
	if p == nil {
		return omitnull.Val[T]{}
	}
	return omitnull.From(*p)
}
