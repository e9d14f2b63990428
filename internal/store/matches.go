package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/cricscore/internal/match"
)

// ErrNotFound is returned when a match does not exist for the user.
var ErrNotFound = errors.New("match not found")

// SaveMatch stores a finished match for userID and returns the record as
// saved, with its id and creation time filled in.
//
// An empty ScoreData is stored as the JSON array [null,null].
func (s *Store) SaveMatch(ctx context.Context, userID string, rec match.Record) (match.Record, error) {
	if userID == "" {
		return match.Record{}, fmt.Errorf("save match: user id is required")
	}
	data := rec.ScoreData
	if len(data) == 0 {
		data = json.RawMessage(`[null,null]`)
	}
	if !json.Valid(data) {
		return match.Record{}, fmt.Errorf("save match: score data is not valid JSON")
	}

	rec.ID = s.ids.Generate()
	rec.ScoreData = data
	rec.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO matches
		(id, user_id, team_a, team_b, score_data, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`),
		rec.ID,
		userID,
		rec.TeamA,
		rec.TeamB,
		string(rec.ScoreData),
		rec.Result,
		rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return match.Record{}, fmt.Errorf("save match: %w", err)
	}
	return rec, nil
}

// ListMatches returns every match saved by userID, newest first.
// Ties on created_at are broken by id, descending.
//
// Returns an empty slice (not nil) if the user has no matches.
func (s *Store) ListMatches(ctx context.Context, userID string) ([]match.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, team_a, team_b, score_data, result, created_at
		FROM matches
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	records := []match.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return records, nil
}

// ReadMatch returns one match saved by userID. Returns ErrNotFound if the
// id does not exist or belongs to another user.
func (s *Store) ReadMatch(ctx context.Context, userID, id string) (match.Record, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, team_a, team_b, score_data, result, created_at
		FROM matches
		WHERE user_id = ? AND id = ?
	`), userID, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return match.Record{}, fmt.Errorf("read match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return match.Record{}, err
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (match.Record, error) {
	var (
		rec       match.Record
		data      []byte
		createdAt int64
	)
	if err := row.Scan(&rec.ID, &rec.TeamA, &rec.TeamB, &data, &rec.Result, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return match.Record{}, err
		}
		return match.Record{}, fmt.Errorf("scan match: %w", err)
	}
	rec.ScoreData = json.RawMessage(data)
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return rec, nil
}

// UserRecorder is the engine Persistence Port bound to one user.
type UserRecorder struct {
	store  *Store
	userID string
}

// RecorderFor returns a Recorder that saves matches for userID.
func (s *Store) RecorderFor(userID string) *UserRecorder {
	return &UserRecorder{store: s, userID: userID}
}

// SaveMatch implements engine.Recorder.
func (r *UserRecorder) SaveMatch(ctx context.Context, rec match.Record) (string, error) {
	saved, err := r.store.SaveMatch(ctx, r.userID, rec)
	if err != nil {
		return "", err
	}
	return saved.ID, nil
}
