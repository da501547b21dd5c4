package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/glm-statusline/internal/models"
)

// InsertSnapshot records one usage snapshot and sets point.ID.
func (db *DB) InsertSnapshot(ctx context.Context, point *models.HistoryPoint) error {
	query := `
		INSERT INTO usage_snapshots (
			timestamp, token_percent, mcp_percent, total_cost, model_name, next_reset_time
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	timestamp := point.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(ctx, query,
		timestamp.UTC().Format(timeLayout),
		point.TokenPercent,
		point.MCPPercent,
		point.TotalCost,
		point.ModelName,
		nullTime(point.NextResetTime),
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		point.ID = id
	}

	return nil
}

// GetRecentSnapshots returns up to limit snapshots, newest first.
func (db *DB) GetRecentSnapshots(ctx context.Context, limit int) ([]models.HistoryPoint, error) {
	query := `
		SELECT id, timestamp, token_percent, mcp_percent, total_cost, model_name, next_reset_time
		FROM usage_snapshots
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent usage snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.HistoryPoint
	for rows.Next() {
		point, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage snapshots: %w", err)
	}

	return points, nil
}

// LastSnapshot returns the newest snapshot, or nil when none was recorded.
func (db *DB) LastSnapshot(ctx context.Context) (*models.HistoryPoint, error) {
	query := `
		SELECT id, timestamp, token_percent, mcp_percent, total_cost, model_name, next_reset_time
		FROM usage_snapshots
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`

	point, err := scanSnapshot(db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// CountSnapshots returns the number of recorded snapshots.
func (db *DB) CountSnapshots(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usage_snapshots").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count usage snapshots: %w", err)
	}
	return count, nil
}

// PruneSnapshots deletes all but the newest keep snapshots and returns how many were removed.
func (db *DB) PruneSnapshots(ctx context.Context, keep int) (int64, error) {
	query := `
		DELETE FROM usage_snapshots
		WHERE id NOT IN (
			SELECT id FROM usage_snapshots
			ORDER BY timestamp DESC, id DESC
			LIMIT ?
		)
	`

	result, err := db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune usage snapshots: %w", err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (models.HistoryPoint, error) {
	var point models.HistoryPoint
	var timestamp string
	var reset sql.NullInt64

	err := row.Scan(
		&point.ID,
		&timestamp,
		&point.TokenPercent,
		&point.MCPPercent,
		&point.TotalCost,
		&point.ModelName,
		&reset,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return point, err
	}
	if err != nil {
		return point, fmt.Errorf("failed to scan usage snapshot: %w", err)
	}

	point.Timestamp, err = parseTimestamp(timestamp)
	if err != nil {
		return point, err
	}
	if reset.Valid {
		point.NextResetTime = time.UnixMilli(reset.Int64)
	}

	return point, nil
}

// parseTimestamp accepts the stored layout and the RFC 3339 form database/sql
// produces when the driver has already converted the column to a time.Time.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", s)
}

// nullTime stores t as epoch milliseconds, or NULL when unset.
func nullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}
