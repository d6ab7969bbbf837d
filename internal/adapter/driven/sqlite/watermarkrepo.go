package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
	"github.com/ericfisherdev/autocomment/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WatermarkStore = (*WatermarkRepo)(nil)

// WatermarkRepo is the SQLite implementation of the WatermarkStore port.
// Each repository has its own row, so one database can serve several jobs.
type WatermarkRepo struct {
	db   *DB
	repo string
}

// NewWatermarkRepo creates a WatermarkRepo for the given repository backed by db.
func NewWatermarkRepo(db *DB, repo model.Repository) *WatermarkRepo {
	return &WatermarkRepo{db: db, repo: repo.FullName()}
}

// Load retrieves the watermark for the repository. Returns 0 if no row exists.
func (r *WatermarkRepo) Load(ctx context.Context) (int, error) {
	const query = `SELECT last_issue_number FROM watermarks WHERE repo_full_name = ?`

	var n int
	err := r.db.Reader.QueryRowContext(ctx, query, r.repo).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load watermark for %s: %w", r.repo, err)
	}

	return n, nil
}

// Save stores the watermark for the repository. A value lower than the one
// already stored is ignored so the watermark never decreases.
func (r *WatermarkRepo) Save(ctx context.Context, watermark int) error {
	if watermark < 0 {
		return fmt.Errorf("save watermark for %s: negative value %d", r.repo, watermark)
	}

	const query = `
		INSERT INTO watermarks (repo_full_name, last_issue_number, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(repo_full_name) DO UPDATE SET
			last_issue_number = MAX(watermarks.last_issue_number, excluded.last_issue_number),
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Writer.ExecContext(ctx, query, r.repo, watermark); err != nil {
		return fmt.Errorf("save watermark for %s: %w", r.repo, err)
	}

	return nil
}
