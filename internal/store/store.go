package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id    TEXT PRIMARY KEY,
	started_at    TEXT NOT NULL,
	ended_at      TEXT NOT NULL,
	duration      REAL NOT NULL,
	results_json  TEXT NOT NULL,
	history_json  TEXT NOT NULL,
	summary       TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS event_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	event_type    TEXT NOT NULL,
	detail_json   TEXT,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_log_session
ON event_log(session_id, created_at);
`

// #endregion schema

// #region records

// SessionRecord is one archived session.
type SessionRecord struct {
	SessionID string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  float64
	Results   collector.SessionResults
	History   []collector.Pair
	Summary   string
	CreatedAt time.Time
}

// EventEntry is one row in the event log.
type EventEntry struct {
	SessionID  string
	EventType  string // "pair_started" | "pair_ended" | "session_saved"
	DetailJSON string
	CreatedAt  time.Time
}

// #endregion records

// #region store-struct

// Store archives completed sessions in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store-struct

// #region save-session

// SaveSession archives a completed session.
func (s *Store) SaveSession(rec SessionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	resultsJSON, err := json.Marshal(rec.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	historyJSON, err := json.Marshal(rec.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions (session_id, started_at, ended_at, duration, results_json, history_json, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.EndedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration,
		string(resultsJSON),
		string(historyJSON),
		rec.Summary,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// #endregion save-session

// #region get-session

// GetSession retrieves one archived session by ID.
func (s *Store) GetSession(id string) (SessionRecord, error) {
	var rec SessionRecord
	var startedStr, endedStr, createdStr string
	var resultsJSON, historyJSON string

	err := s.db.QueryRow(
		`SELECT session_id, started_at, ended_at, duration, results_json, history_json, summary, created_at
		 FROM sessions WHERE session_id = ?`, id,
	).Scan(&rec.SessionID, &startedStr, &endedStr, &rec.Duration,
		&resultsJSON, &historyJSON, &rec.Summary, &createdStr)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("get session %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(resultsJSON), &rec.Results); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal results: %w", err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &rec.History); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal history: %w", err)
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	rec.EndedAt, _ = time.Parse(time.RFC3339Nano, endedStr)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// #endregion get-session

// #region list-sessions

// SessionInfo is the listing view of an archived session.
type SessionInfo struct {
	SessionID string
	StartedAt time.Time
	Duration  float64
	PairCount int
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(limit int) ([]SessionInfo, error) {
	rows, err := s.db.Query(
		`SELECT session_id, started_at, duration, history_json
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var startedStr, historyJSON string
		if err := rows.Scan(&info.SessionID, &startedStr, &info.Duration, &historyJSON); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)

		var history []collector.Pair
		if err := json.Unmarshal([]byte(historyJSON), &history); err == nil {
			info.PairCount = len(history)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// #endregion list-sessions

// #region event-log

// LogEvent appends an entry to the event log.
func (s *Store) LogEvent(entry EventEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var detail any
	if entry.DetailJSON != "" {
		detail = entry.DetailJSON
	}

	_, err := s.db.Exec(
		`INSERT INTO event_log (session_id, event_type, detail_json, created_at)
		 VALUES (?, ?, ?, ?)`,
		entry.SessionID, entry.EventType, detail,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// Events returns the event log for a session in chronological order.
func (s *Store) Events(sessionID string) ([]EventEntry, error) {
	rows, err := s.db.Query(
		`SELECT session_id, event_type, detail_json, created_at
		 FROM event_log WHERE session_id = ? ORDER BY created_at ASC, id ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var entries []EventEntry
	for rows.Next() {
		var e EventEntry
		var detail sql.NullString
		var createdStr string
		if err := rows.Scan(&e.SessionID, &e.EventType, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if detail.Valid {
			e.DetailJSON = detail.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion event-log
