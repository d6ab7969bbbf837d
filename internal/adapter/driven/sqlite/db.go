// Package sqlite implements the WatermarkStore port on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// pragmas are applied to every connection opened by NewDB.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// Pool sizes. SQLite allows a single writer, so the writer pool is capped at
// one connection to keep "database is locked" errors away.
const (
	writerConns = 1
	readerConns = 2
)

// DB holds separate writer and reader pools over one database file.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewDB opens the database at dbPath, creating the file if needed.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	dsn := buildDSN(dbPath)

	writer, err := openPool(ctx, dsn, writerConns)
	if err != nil {
		return nil, fmt.Errorf("writer pool: %w", err)
	}

	reader, err := openPool(ctx, dsn, readerConns)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("reader pool: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, path: dbPath}, nil
}

func buildDSN(dbPath string) string {
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	return "file:" + dbPath + "?" + strings.Join(params, "&")
}

// openPool opens a pool limited to maxConns and verifies it with a ping.
func openPool(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	pool.SetMaxOpenConns(maxConns)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Path returns the database file the pools were opened on.
func (db *DB) Path() string {
	return db.path
}

// Close releases both pools. The reader error, if any, takes precedence.
func (db *DB) Close() error {
	readerErr := db.Reader.Close()
	writerErr := db.Writer.Close()

	switch {
	case readerErr != nil:
		return fmt.Errorf("close reader: %w", readerErr)
	case writerErr != nil:
		return fmt.Errorf("close writer: %w", writerErr)
	}
	return nil
}
