package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// ErrNotFound is returned when a lookup targets a row that does not exist.
var ErrNotFound = errors.New("store: not found")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    email TEXT PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    profile_completed INTEGER NOT NULL DEFAULT 0,
    profile_completed_at DATETIME,
    investment_profile TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chat_sessions (
    id TEXT PRIMARY KEY,
    user_email TEXT NOT NULL,
    conversation_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    turns TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_sessions_user_updated ON chat_sessions(user_email, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_chat_sessions_conversation ON chat_sessions(conversation_id);

CREATE TABLE IF NOT EXISTS alerts (
    id TEXT PRIMARY KEY,
    user_email TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    priority TEXT NOT NULL,
    is_read INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_user_created ON alerts(user_email, created_at DESC);

CREATE TABLE IF NOT EXISTS alert_preferences (
    id TEXT PRIMARY KEY,
    user_email TEXT NOT NULL UNIQUE,
    market_updates INTEGER NOT NULL DEFAULT 1,
    opportunities INTEGER NOT NULL DEFAULT 1,
    risk_alerts INTEGER NOT NULL DEFAULT 1,
    news INTEGER NOT NULL DEFAULT 1,
    min_priority TEXT NOT NULL DEFAULT 'low',
    sectors TEXT NOT NULL DEFAULT '[]'
);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// ---- users ----

func (s *Store) GetUser(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT email, full_name, profile_completed, profile_completed_at, investment_profile
FROM users
WHERE email = ?
LIMIT 1
`, email)

	var (
		user        models.User
		completedAt sql.NullTime
		profileJSON sql.NullString
	)
	if err := row.Scan(&user.Email, &user.FullName, &user.ProfileCompleted, &completedAt, &profileJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if completedAt.Valid {
		user.ProfileCompletedAt = completedAt.Time
	}
	if profileJSON.Valid && profileJSON.String != "" {
		var profile models.InvestmentProfile
		if err := json.Unmarshal([]byte(profileJSON.String), &profile); err != nil {
			return nil, fmt.Errorf("decode investment profile: %w", err)
		}
		user.InvestmentProfile = &profile
	}
	return &user, nil
}

func (s *Store) UpsertUser(ctx context.Context, user models.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("email is required")
	}

	var profileJSON any
	if user.InvestmentProfile != nil {
		data, err := json.Marshal(user.InvestmentProfile)
		if err != nil {
			return fmt.Errorf("encode investment profile: %w", err)
		}
		profileJSON = string(data)
	}

	var completedAt any
	if !user.ProfileCompletedAt.IsZero() {
		completedAt = user.ProfileCompletedAt.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (email, full_name, profile_completed, profile_completed_at, investment_profile)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(email) DO UPDATE SET
    full_name=excluded.full_name,
    profile_completed=excluded.profile_completed,
    profile_completed_at=excluded.profile_completed_at,
    investment_profile=excluded.investment_profile,
    updated_at=CURRENT_TIMESTAMP
`, user.Email, user.FullName, user.ProfileCompleted, completedAt, profileJSON)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// ---- chat sessions ----

func (s *Store) CreateSession(ctx context.Context, session models.ChatSession) (models.ChatSession, error) {
	if strings.TrimSpace(session.UserEmail) == "" {
		return models.ChatSession{}, fmt.Errorf("user email is required")
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	turnsJSON, err := json.Marshal(session.Turns)
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("encode turns: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO chat_sessions (id, user_email, conversation_id, title, turns, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, session.ID, session.UserEmail, session.ConversationID, session.Title, string(turnsJSON), session.CreatedAt.UTC(), session.UpdatedAt.UTC())
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_email, conversation_id, title, turns, created_at, updated_at
FROM chat_sessions
WHERE id = ?
LIMIT 1
`, sessionID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListSessions returns the user's sessions newest first.
func (s *Store) ListSessions(ctx context.Context, userEmail string, limit int) ([]models.ChatSession, error) {
	if strings.TrimSpace(userEmail) == "" {
		return nil, fmt.Errorf("user email is required")
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_email, conversation_id, title, turns, created_at, updated_at
FROM chat_sessions
WHERE user_email = ?
ORDER BY updated_at DESC, id DESC
LIMIT ?
`, userEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions rows: %w", err)
	}
	return sessions, nil
}

// UpdateSessionTurns replaces a session's transcript wholesale and bumps
// updated_at. The stored title is refreshed together with the turns.
func (s *Store) UpdateSessionTurns(ctx context.Context, sessionID, title string, turns []models.ConversationTurn) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode turns: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE chat_sessions
SET title = ?, turns = ?, updated_at = ?
WHERE id = ?
`, title, string(turnsJSON), time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("update session turns: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.ChatSession, error) {
	var (
		session   models.ChatSession
		turnsJSON string
	)
	if err := row.Scan(&session.ID, &session.UserEmail, &session.ConversationID, &session.Title, &turnsJSON, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(turnsJSON), &session.Turns); err != nil {
		return nil, fmt.Errorf("decode turns: %w", err)
	}
	return &session, nil
}

// ---- alerts ----

func (s *Store) CreateAlert(ctx context.Context, alert models.Alert) (models.Alert, error) {
	if strings.TrimSpace(alert.UserEmail) == "" {
		return models.Alert{}, fmt.Errorf("user email is required")
	}
	if !models.ValidAlertType(alert.Type) {
		return models.Alert{}, fmt.Errorf("unknown alert type %q", alert.Type)
	}
	if !models.ValidAlertPriority(alert.Priority) {
		return models.Alert{}, fmt.Errorf("unknown alert priority %q", alert.Priority)
	}
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO alerts (id, user_email, title, message, type, priority, is_read, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, alert.ID, alert.UserEmail, alert.Title, alert.Message, string(alert.Type), string(alert.Priority), alert.IsRead, alert.CreatedAt.UTC())
	if err != nil {
		return models.Alert{}, fmt.Errorf("insert alert: %w", err)
	}
	return alert, nil
}

// ListAlerts returns the user's alerts newest first.
func (s *Store) ListAlerts(ctx context.Context, userEmail string, limit int) ([]models.Alert, error) {
	if strings.TrimSpace(userEmail) == "" {
		return nil, fmt.Errorf("user email is required")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_email, title, message, type, priority, is_read, created_at
FROM alerts
WHERE user_email = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`, userEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var alert models.Alert
		if err := rows.Scan(&alert.ID, &alert.UserEmail, &alert.Title, &alert.Message, &alert.Type, &alert.Priority, &alert.IsRead, &alert.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alerts rows: %w", err)
	}
	return alerts, nil
}

func (s *Store) MarkAlertRead(ctx context.Context, alertID string) error {
	if strings.TrimSpace(alertID) == "" {
		return fmt.Errorf("alert id is required")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET is_read = 1 WHERE id = ?`, alertID)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UnreadAlertCount(ctx context.Context, userEmail string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM alerts WHERE user_email = ? AND is_read = 0
`, userEmail).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread alerts: %w", err)
	}
	return count, nil
}

// ---- alert preferences ----

func (s *Store) GetPreferences(ctx context.Context, userEmail string) (*models.AlertPreferences, error) {
	if strings.TrimSpace(userEmail) == "" {
		return nil, fmt.Errorf("user email is required")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_email, market_updates, opportunities, risk_alerts, news, min_priority, sectors
FROM alert_preferences
WHERE user_email = ?
LIMIT 1
`, userEmail)

	var (
		prefs       models.AlertPreferences
		sectorsJSON string
	)
	if err := row.Scan(&prefs.ID, &prefs.UserEmail, &prefs.MarketUpdates, &prefs.Opportunities, &prefs.RiskAlerts, &prefs.News, &prefs.MinPriority, &sectorsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(sectorsJSON), &prefs.Sectors); err != nil {
		return nil, fmt.Errorf("decode sectors: %w", err)
	}
	return &prefs, nil
}

func (s *Store) SavePreferences(ctx context.Context, prefs models.AlertPreferences) (models.AlertPreferences, error) {
	if strings.TrimSpace(prefs.UserEmail) == "" {
		return models.AlertPreferences{}, fmt.Errorf("user email is required")
	}
	if !models.ValidAlertPriority(prefs.MinPriority) {
		return models.AlertPreferences{}, fmt.Errorf("unknown min priority %q", prefs.MinPriority)
	}
	if prefs.ID == "" {
		prefs.ID = uuid.NewString()
	}
	sectors := prefs.Sectors
	if sectors == nil {
		sectors = []string{}
	}
	sectorsJSON, err := json.Marshal(sectors)
	if err != nil {
		return models.AlertPreferences{}, fmt.Errorf("encode sectors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO alert_preferences (id, user_email, market_updates, opportunities, risk_alerts, news, min_priority, sectors)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_email) DO UPDATE SET
    market_updates=excluded.market_updates,
    opportunities=excluded.opportunities,
    risk_alerts=excluded.risk_alerts,
    news=excluded.news,
    min_priority=excluded.min_priority,
    sectors=excluded.sectors
`, prefs.ID, prefs.UserEmail, prefs.MarketUpdates, prefs.Opportunities, prefs.RiskAlerts, prefs.News, string(prefs.MinPriority), string(sectorsJSON))
	if err != nil {
		return models.AlertPreferences{}, fmt.Errorf("save preferences: %w", err)
	}

	saved, err := s.GetPreferences(ctx, prefs.UserEmail)
	if err != nil {
		return models.AlertPreferences{}, err
	}
	return *saved, nil
}
