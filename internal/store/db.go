package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBTX abstracts the SQL access layer. It is implemented by both *sqlx.DB
// and *sqlx.Tx, so SQL stores work with either a pool or a transaction.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}
