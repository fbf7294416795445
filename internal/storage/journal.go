package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

// JournalEntry is one dispatched action and a digest of the state it
// produced.
type JournalEntry struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	Payload    string    `json:"payload"`
	Skills     int       `json:"skills"`
	Projects   int       `json:"projects"`
	Loading    bool      `json:"loading"`
	Error      string    `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RecordAction appends a to the journal and drops entries beyond the
// configured size.
func (s *Store) RecordAction(ctx context.Context, state *portfolio.State, a portfolio.Action) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", a.Type())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin journal transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO actions (type, payload, skills, projects, loading, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.Type(), string(payload), len(state.Skills), len(state.Projects), state.Loading, state.Error, s.now().UnixMilli())
	if err != nil {
		return errors.Wrap(err, "failed to record action")
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM actions
		WHERE id <= (SELECT MAX(id) FROM actions) - ?
	`, s.journalSize)
	if err != nil {
		return errors.Wrap(err, "failed to prune journal")
	}

	return errors.Wrap(tx.Commit(), "failed to commit journal entry")
}

// Observe is a store listener that records every transition. Failures are
// logged; the journal is diagnostic and never blocks dispatching.
func (s *Store) Observe(state *portfolio.State, a portfolio.Action) {
	if err := s.RecordAction(context.Background(), state, a); err != nil {
		s.logger.Warn("journal write failed", zap.String("action", a.Type()), zap.Error(err))
	}
}

// RecentActions returns up to limit entries, newest first.
func (s *Store) RecentActions(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = s.journalSize
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, payload, skills, projects, loading, error, recorded_at
		FROM actions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query journal")
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var recordedAt int64
		if err := rows.Scan(&e.ID, &e.Type, &e.Payload, &e.Skills, &e.Projects, &e.Loading, &e.Error, &recordedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan journal entry")
		}
		e.RecordedAt = time.UnixMilli(recordedAt).UTC()
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "failed to read journal")
}
