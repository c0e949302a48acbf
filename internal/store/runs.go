package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run records one successful generation.
type Run struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	DocumentID  string    `json:"document_id"`
	Version     string    `json:"version"`
	Segments    int       `json:"segments"`
	OutputBytes int       `json:"output_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordRun appends run to the ledger. An empty ID is assigned a random
// UUID and a zero CreatedAt is set to the current time. The stored run is
// returned with its sequence number.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, doc_id, version, segments, output_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.DocumentID,
		run.Version,
		run.Segments,
		run.OutputBytes,
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	run.Seq, err = res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, oldest first. limit <= 0 returns
// every run.
//
// Returns an empty slice (not nil) when the ledger is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, seq, doc_id, version, segments, output_bytes, created_at
		FROM (
			SELECT * FROM runs ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run       Run
			createdAt string
		)
		if err := rows.Scan(&run.ID, &run.Seq, &run.DocumentID, &run.Version,
			&run.Segments, &run.OutputBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan run: parse created_at: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
