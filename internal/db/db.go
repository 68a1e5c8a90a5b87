package db

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the pgx pool. All tenant-scoped access goes through
// WithTenantConn so the row-level-security policies on journal_entries,
// goals and the analysis tables always see app.tenant_id.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// WithTenantConn acquires a dedicated connection, pins app.tenant_id on it
// for the duration of fn, and resets it before the connection returns to
// the pool. SET does not take bind parameters; the value is an int64 so
// formatting it inline is safe.
func (s *Store) WithTenantConn(ctx context.Context, tenantID int64, fn func(*pgxpool.Conn) error) error {
	conn, err := s.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SET app.tenant_id = '"+strconv.FormatInt(tenantID, 10)+"'"); err != nil {
		return err
	}
	defer func() {
		_, _ = conn.Exec(ctx, "RESET app.tenant_id")
	}()
	return fn(conn)
}
