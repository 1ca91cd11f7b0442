package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Open opens the Postgres pool behind the gateway and verifies connectivity.
//
// Pool sizing is tuned for this workload: one restaurant takes a handful of
// concurrent calls, and each live call touches the database only at start,
// at order completion, and at its terminal write. A small pool with short
// idle times keeps the Supabase pooler happy without hoarding connections.
func Open(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return db, nil
}

// withTx runs fn inside a transaction. The order-items batch is the only
// multi-statement write in the system; either the whole batch lands or none
// of it does.
// - If fn returns an error the tx is rolled back and the error returned.
// - If fn panics the tx is rolled back and the panic re-thrown.
// - A commit failure is returned as the error.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
