package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"studyloop/internal/modules/timer/domain"
	timerout "studyloop/internal/modules/timer/port/out"
	apperrors "studyloop/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// Fixed-width UTC timestamps keep ORDER BY start_time chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes concurrent appends instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS focus_sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  owner_id TEXT NOT NULL,
  start_time TEXT NOT NULL,
  end_time TEXT,
  duration_ms INTEGER NOT NULL,
  phase TEXT NOT NULL,
  completed INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_focus_sessions_owner ON focus_sessions (owner_id, phase);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create focus_sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionStore) Append(ctx context.Context, session domain.FocusSession) (domain.FocusSession, error) {
	if err := session.Phase.Validate(); err != nil {
		return domain.FocusSession{}, err
	}
	const stmt = `
INSERT INTO focus_sessions (owner_id, start_time, end_time, duration_ms, phase, completed)
VALUES (?, ?, ?, ?, ?, ?);
`
	var endTime sql.NullString
	if session.EndTime != nil {
		endTime = sql.NullString{String: session.EndTime.UTC().Format(timeLayout), Valid: true}
	}
	result, err := s.db.ExecContext(ctx, stmt,
		session.OwnerID,
		session.StartTime.UTC().Format(timeLayout),
		endTime,
		session.Duration.Milliseconds(),
		string(session.Phase),
		session.Completed,
	)
	if err != nil {
		return domain.FocusSession{}, apperrors.NewStoreError("append session", err)
	}
	rowID, err := result.LastInsertId()
	if err != nil {
		return domain.FocusSession{}, apperrors.NewStoreError("append session", err)
	}
	session.ID = strconv.FormatInt(rowID, 10)
	return session, nil
}

func (s *SQLiteSessionStore) TotalCompletedSessions(ctx context.Context, ownerID string, phase domain.Phase) (int, error) {
	const query = `SELECT COUNT(*) FROM focus_sessions WHERE owner_id = ? AND phase = ? AND completed = 1`
	var count int
	if err := s.db.QueryRowContext(ctx, query, ownerID, string(phase)).Scan(&count); err != nil {
		return 0, apperrors.NewStoreError("count sessions", err)
	}
	return count, nil
}

func (s *SQLiteSessionStore) TotalFocusDuration(ctx context.Context, ownerID string) (time.Duration, error) {
	const query = `SELECT COALESCE(SUM(duration_ms), 0) FROM focus_sessions WHERE owner_id = ? AND phase = ?`
	var totalMS int64
	if err := s.db.QueryRowContext(ctx, query, ownerID, string(domain.PhaseFocus)).Scan(&totalMS); err != nil {
		return 0, apperrors.NewStoreError("sum focus duration", err)
	}
	return time.Duration(totalMS) * time.Millisecond, nil
}

func (s *SQLiteSessionStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.FocusSession, error) {
	const query = `
SELECT id, owner_id, start_time, end_time, duration_ms, phase, completed
FROM focus_sessions
WHERE owner_id = ?
ORDER BY start_time DESC, id DESC;
`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewStoreError("list sessions", err)
	}
	defer rows.Close()

	out := []domain.FocusSession{}
	for rows.Next() {
		var (
			rowID      int64
			session    domain.FocusSession
			startTime  string
			endTime    sql.NullString
			durationMS int64
			phase      string
		)
		if err := rows.Scan(&rowID, &session.OwnerID, &startTime, &endTime, &durationMS, &phase, &session.Completed); err != nil {
			return nil, apperrors.NewStoreError("scan session", err)
		}
		session.ID = strconv.FormatInt(rowID, 10)
		session.Phase = domain.Phase(phase)
		session.Duration = time.Duration(durationMS) * time.Millisecond
		if session.StartTime, err = time.Parse(timeLayout, startTime); err != nil {
			return nil, fmt.Errorf("decode start time of session %d: %w", rowID, err)
		}
		if endTime.Valid {
			end, err := time.Parse(timeLayout, endTime.String)
			if err != nil {
				return nil, fmt.Errorf("decode end time of session %d: %w", rowID, err)
			}
			session.EndTime = &end
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list sessions", err)
	}
	return out, nil
}

var _ timerout.SessionStore = (*SQLiteSessionStore)(nil)
