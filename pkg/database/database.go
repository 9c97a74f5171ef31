package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/logger"
)

const healthTimeout = time.Second

// DB is the shared connection pool. Repositories run single statements on
// it directly and multi-statement writes through Transaction.
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// New opens a pool from cfg and applies its limits
func New(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	db, err := NewWithDSN(cfg.DSN(), log)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("connected to database")
	return db, nil
}

// NewWithDSN opens a pool with driver defaults
func NewWithDSN(dsn string, log *logger.Logger) (*DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return Wrap(db, log), nil
}

// Wrap adapts an existing sqlx handle, used by tests running against sqlmock
func Wrap(db *sqlx.DB, log *logger.Logger) *DB {
	return &DB{DB: db, logger: log}
}

// Health pings the database and reports pool usage
func (db *DB) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}

	stats := db.Stats()
	return map[string]string{
		"status":           "up",
		"open_connections": strconv.Itoa(stats.OpenConnections),
		"in_use":           strconv.Itoa(stats.InUse),
	}
}

// Transaction runs fn inside a transaction. It rolls back when fn returns
// an error or panics and commits otherwise.
func (db *DB) Transaction(ctx context.Context, fn func(*sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			db.rollback(tx, "panic")
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		db.rollback(tx, "error")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) rollback(tx *sqlx.Tx, cause string) {
	if err := tx.Rollback(); err != nil {
		db.logger.Error().Err(err).Str("cause", cause).Msg("failed to roll back transaction")
	}
}
