package db

import (
	"context"
	"database/sql"
)

// Database owns the lifecycle of the process-wide connection pool.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
	// Ping reports whether the store is reachable; it backs /healthz.
	Ping(ctx context.Context) error
}
