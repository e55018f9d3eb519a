// Package audit implements an optional Postgres-backed round-history
// recorder: one row per ROUND_ENDED event. Grounded on
// bank-service/go/db.go's connection-pool setup (waitReady retry loop,
// sql.Open("postgres", dsn) via _ "github.com/lib/pq"), generalized from a
// bankroll ledger to a round-history audit log. This is new functionality
// the spec.md distillation does not name at all (spec.md's persisted-state
// layout covers only live session state) — see SPEC_FULL.md §12.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// Recorder records completed rounds. NoopRecorder (below) is used when no
// audit database is configured — the server always runs, with or without it.
type Recorder interface {
	RecordRound(ctx context.Context, sessionID string, bet, net, bankrollAfter string) error
}

// DB wraps a Postgres connection pool.
type DB struct {
	pool *sql.DB
}

// Open opens a PostgreSQL connection pool at dsn and waits for readiness,
// matching bank-service/go/db.go's NewDB/waitReady shape exactly.
func Open(dsn string) (*DB, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("audit db open: %w", err)
	}
	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{pool: pool}
	if err := db.waitReady(); err != nil {
		return nil, err
	}
	return db, nil
}

func (d *DB) waitReady() error {
	for i := 0; i < 30; i++ {
		if err := d.pool.Ping(); err == nil {
			log.Printf("[audit-db] connected")
			return nil
		}
		log.Printf("[audit-db] not ready (%d/30), retrying...", i+1)
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("audit-db unavailable after 60s")
}

// Migrate creates the round_history table if it does not exist. Idempotent.
func (d *DB) Migrate() error {
	_, err := d.pool.Exec(`
		CREATE TABLE IF NOT EXISTS round_history (
			id             UUID          PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id     VARCHAR(100)  NOT NULL,
			bet            NUMERIC(15,2) NOT NULL,
			net            NUMERIC(15,2) NOT NULL,
			bankroll_after NUMERIC(15,2) NOT NULL,
			created_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate round_history: %w", err)
	}
	_, err = d.pool.Exec(`CREATE INDEX IF NOT EXISTS idx_round_history_session ON round_history(session_id)`)
	return err
}

// RecordRound inserts one completed-round row, wrapped in an explicit
// transaction per bank-service/go/db.go's tx/defer-Rollback/Commit idiom.
func (d *DB) RecordRound(ctx context.Context, sessionID string, bet, net, bankrollAfter string) error {
	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO round_history (session_id, bet, net, bankroll_after)
		VALUES ($1, $2, $3, $4)
	`, sessionID, bet, net, bankrollAfter)
	if err != nil {
		return fmt.Errorf("record round: %w", err)
	}
	return tx.Commit()
}

// NoopRecorder is used when AUDIT_DATABASE_URL is unset — the server runs
// identically, just without an audit trail.
type NoopRecorder struct{}

func (NoopRecorder) RecordRound(context.Context, string, string, string, string) error { return nil }
