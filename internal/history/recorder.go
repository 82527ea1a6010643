// Package history persists one row per successfully generated shot.
package history

import (
	"context"
	"fmt"
	"time"

	"lookbook/internal/domain"
	"lookbook/internal/infra"
	"lookbook/internal/sqlinline"
)

// Recorder implements domain.HistoryRecorder.
type Recorder struct {
	sql infra.SQLExecutor
}

func NewRecorder(sql infra.SQLExecutor) *Recorder {
	return &Recorder{sql: sql}
}

// Record inserts one entry.
func (r *Recorder) Record(ctx context.Context, e domain.HistoryEntry) error {
	var createdAt *time.Time
	if !e.CreatedAt.IsZero() {
		createdAt = &e.CreatedAt
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertShotHistory,
		e.AccountID, e.BatchID, e.Title, e.Type, e.ImageURL, e.Description, e.Seed, createdAt)
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// List returns the most recent entries for an account.
func (r *Recorder) List(ctx context.Context, accountID string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListShotHistory, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()
	var out []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.AccountID, &e.BatchID, &e.Title, &e.Type, &e.ImageURL, &e.Description, &e.Seed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return out, nil
}

var _ domain.HistoryRecorder = (*Recorder)(nil)
