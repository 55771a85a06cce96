// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package export mirrors fetched catalog pages into a PostgreSQL table over a
// pgx connection pool.
package export

import (
	"context"
	"fmt"
	"time"

	"browsemate/cli/internal/catalog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Tx is the part of pgx.Tx the exporter uses.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DB opens transactions. poolDB adapts *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (Tx, error)
}

type poolDB struct{ pool *pgxpool.Pool }

func (p poolDB) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

var _ Tx = pgx.Tx(nil)

const createTable = `CREATE TABLE IF NOT EXISTS products (
	id                  integer PRIMARY KEY,
	title               text NOT NULL,
	price               numeric(12,2) NOT NULL,
	category            text NOT NULL DEFAULT '',
	thumbnail           text NOT NULL DEFAULT '',
	images              text[],
	description         text NOT NULL DEFAULT '',
	availability_status text NOT NULL DEFAULT '',
	exported_at         timestamptz NOT NULL DEFAULT now()
)`

const upsertProduct = `INSERT INTO products
	(id, title, price, category, thumbnail, images, description, availability_status, exported_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	price = EXCLUDED.price,
	category = EXCLUDED.category,
	thumbnail = EXCLUDED.thumbnail,
	images = EXCLUDED.images,
	description = EXCLUDED.description,
	availability_status = EXCLUDED.availability_status,
	exported_at = now()`

// Exporter writes catalog items to PostgreSQL.
type Exporter struct {
	db    DB
	log   *zap.Logger
	close func()
}

// New wraps an existing DB.
func New(db DB, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{db: db, log: log.Named("export"), close: func() {}}
}

// Connect opens a pool for dsn and pings it within timeout.
func Connect(ctx context.Context, dsn string, timeout time.Duration, log *zap.Logger) (*Exporter, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	cfg.MaxConns = 2

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	e := New(poolDB{pool: pool}, log)
	e.close = pool.Close
	return e, nil
}

// Close releases the pool, if any.
func (e *Exporter) Close() { e.close() }

// Upsert creates the products table when missing and writes items in one
// transaction. It returns the number of rows written.
func (e *Exporter) Upsert(ctx context.Context, items []catalog.Item) (int64, error) {
	tx, err := e.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, createTable); err != nil {
		return 0, fmt.Errorf("create products table: %w", err)
	}

	var n int64
	for _, it := range items {
		tag, err := tx.Exec(ctx, upsertProduct, itemArgs(it)...)
		if err != nil {
			return 0, fmt.Errorf("upsert product %d: %w", it.ID, err)
		}
		n += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	e.log.Info("exported products", zap.Int("count", len(items)), zap.Int64("rows", n))
	return n, nil
}

// itemArgs orders the fields of it to match upsertProduct. Absent images are
// stored as NULL.
func itemArgs(it catalog.Item) []any {
	var images []string
	if it.HasImages() {
		images = it.Images
	}
	return []any{
		it.ID,
		it.Title,
		it.Price,
		it.Category,
		it.Thumbnail,
		images,
		it.Description,
		it.AvailabilityStatus,
	}
}
