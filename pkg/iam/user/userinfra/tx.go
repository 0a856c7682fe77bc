package userinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
)

type txKey struct{}

// dbtx is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx, letting
// every repository method run either standalone or inside a
// transaction carried by the context.
type dbtx interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// executor returns the transaction from ctx if one is open, otherwise
// the base connection pool.
func executor(ctx context.Context, db *sqlx.DB) dbtx {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

// SqlxTxRunner implements user.TxRunner on a sqlx pool. Nested InTx
// calls join the outer transaction.
type SqlxTxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) *SqlxTxRunner {
	return &SqlxTxRunner{db: db}
}

func (r *SqlxTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errx.Wrap(rbErr, "rollback failed", errx.TypeInternal)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit transaction", errx.TypeInternal)
	}
	return nil
}
