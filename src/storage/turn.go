package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// GetSessionByID retrieves a session by its ID
func GetSessionByID(ctx context.Context, db sqlscan.Querier, sessionID string) (*Session, error) {
	query := `SELECT id, created_at, updated_at FROM sessions WHERE id = ?`
	var s Session
	err := sqlscan.Get(ctx, db, &s, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &s, nil
}

// GetLatestSession retrieves the most recently updated session
func GetLatestSession(ctx context.Context, db sqlscan.Querier) (*Session, error) {
	query := `SELECT id, created_at, updated_at FROM sessions ORDER BY updated_at DESC LIMIT 1`
	var s Session
	err := sqlscan.Get(ctx, db, &s, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No sessions exist
		}
		return nil, err
	}
	return &s, nil
}

// LatestSessionID returns the ID of the most recently used session, or empty
// when none exist.
func (d *DB) LatestSessionID(ctx context.Context) (string, error) {
	s, err := GetLatestSession(ctx, d.db)
	if err != nil || s == nil {
		return "", err
	}
	return s.ID, nil
}

// EnsureSession creates the session row if it does not exist yet.
func EnsureSession(ctx context.Context, db ExecQuerier, sessionID string) error {
	existing, err := GetSessionByID(ctx, db, sessionID)
	if err != nil {
		return err
	}
	now := time.Now()
	if existing != nil {
		_, err = db.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, now, sessionID)
		return err
	}

	query := `INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)`
	_, err = db.ExecContext(ctx, query, sessionID, now, now)
	return err
}

// CreateTurn inserts a turn, assigning an ID and timestamp when unset.
func CreateTurn(ctx context.Context, db Execer, turn *Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.SQLQueries == nil {
		turn.SQLQueries = JSONStringArray{}
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	query := `INSERT INTO turns (id, session_id, role, content, sql_queries, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, turn.ID, turn.SessionID, turn.Role, turn.Content, turn.SQLQueries, turn.CreatedAt)
	return err
}

// GetTurnsBySessionID retrieves up to limit most recent turns for a session,
// returned oldest first. limit <= 0 means no limit.
func GetTurnsBySessionID(ctx context.Context, db sqlscan.Querier, sessionID string, limit int) ([]Turn, error) {
	query := `SELECT id, session_id, role, content, json(sql_queries) as sql_queries, created_at FROM turns WHERE session_id = ? ORDER BY created_at DESC, id DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var turns []Turn
	if err := sqlscan.Select(ctx, db, &turns, query, args...); err != nil {
		return nil, err
	}

	// reverse into chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// DeleteTurnsBySessionID removes all turns of a session.
func DeleteTurnsBySessionID(ctx context.Context, db Execer, sessionID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, sessionID)
	return err
}

// SaveTurn persists one conversation turn, creating the session row on first
// use.
func (d *DB) SaveTurn(ctx context.Context, sessionID, role, content string, sqlQueries []string) error {
	if err := EnsureSession(ctx, d.db, sessionID); err != nil {
		return err
	}
	return CreateTurn(ctx, d.db, &Turn{
		SessionID:  sessionID,
		Role:       role,
		Content:    content,
		SQLQueries: JSONStringArray(sqlQueries),
	})
}

// RecentTurns returns up to limit turns of a session in chronological order.
func (d *DB) RecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	return GetTurnsBySessionID(ctx, d.db, sessionID, limit)
}

// ClearSession removes all persisted turns of a session.
func (d *DB) ClearSession(ctx context.Context, sessionID string) error {
	return DeleteTurnsBySessionID(ctx, d.db, sessionID)
}
