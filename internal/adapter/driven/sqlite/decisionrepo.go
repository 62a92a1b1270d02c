package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
	"github.com/ericfisherdev/recheckhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DecisionStore = (*DecisionRepo)(nil)

// DecisionRepo is the SQLite implementation of the DecisionStore port.
// It is append-only from the application's point of view: decisions are
// recorded and later listed for reporting, never updated.
type DecisionRepo struct {
	db *DB
}

// NewDecisionRepo creates a new DecisionRepo backed by the given DB.
func NewDecisionRepo(db *DB) *DecisionRepo {
	return &DecisionRepo{db: db}
}

// RecordDecision appends one decision to the log.
func (r *DecisionRepo) RecordDecision(ctx context.Context, d model.Decision) error {
	const query = `
		INSERT INTO decisions (change_number, url, revision, directive, bug_number, posted, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	posted := 0
	if d.Posted {
		posted = 1
	}

	if _, err := r.db.Writer.ExecContext(ctx, query,
		d.ChangeNumber, d.URL, d.Revision, d.Directive,
		d.BugNumber, posted, d.DecidedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert decision for change %d: %w", d.ChangeNumber, err)
	}

	return nil
}

// RecentDecisions returns up to limit decisions, most recent first.
func (r *DecisionRepo) RecentDecisions(ctx context.Context, limit int) ([]model.Decision, error) {
	const query = `
		SELECT id, change_number, url, revision, directive, bug_number, posted, decided_at
		FROM decisions
		ORDER BY decided_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent decisions: %w", err)
	}
	defer rows.Close()

	var decisions []model.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}

	return decisions, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(s scanner) (*model.Decision, error) {
	var d model.Decision
	var posted int
	var decidedAt string

	err := s.Scan(
		&d.ID, &d.ChangeNumber, &d.URL, &d.Revision,
		&d.Directive, &d.BugNumber, &posted, &decidedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Posted = posted != 0

	d.DecidedAt, err = parseTime(decidedAt)
	if err != nil {
		return nil, fmt.Errorf("parse decided_at: %w", err)
	}

	return &d, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
