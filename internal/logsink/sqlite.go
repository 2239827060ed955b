package logsink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/ron-bot/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteSink appends interaction records to a local SQLite database through
// a bounded queue. A full queue drops records rather than blocking the reply
// path.
type SQLiteSink struct {
	db    *sql.DB
	queue chan Record
	wg    sync.WaitGroup
}

// NewSQLite opens (creating if needed) the interaction log database and
// starts the background writer.
func NewSQLite(dbPath string, queueSize int) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL keeps the single writer from stalling readers of the file.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteSink{
		db:    db,
		queue: make(chan Record, queueSize),
	}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	s.wg.Add(1)
	go s.writeLoop()
	return s, nil
}

func (s *SQLiteSink) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		ts INTEGER NOT NULL,
		provider TEXT NOT NULL,
		user_id TEXT NOT NULL,
		user_text TEXT NOT NULL,
		reply_text TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id, ts);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Append enqueues the record. Drops it if the queue is full.
func (s *SQLiteSink) Append(rec Record) {
	select {
	case s.queue <- rec:
	default:
		slog.Warn("interaction log queue full, dropping record", "user_id", rec.UserID)
	}
}

func (s *SQLiteSink) writeLoop() {
	defer s.wg.Done()
	for rec := range s.queue {
		s.insert(rec)
	}
}

func (s *SQLiteSink) insert(rec Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, ts, provider, user_id, user_text, reply_text) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UnixMilli(), rec.Provider, rec.UserID, rec.UserText, rec.ReplyText,
	)
	if err == nil {
		return
	}
	if shared.IsSQLiteConflictError(err) {
		slog.Debug("interaction log busy, record dropped", "id", rec.ID)
		return
	}
	slog.Warn("interaction log write failed", "id", rec.ID, "error", err)
}

// Close drains the queue and closes the database.
func (s *SQLiteSink) Close() error {
	close(s.queue)
	s.wg.Wait()
	return s.db.Close()
}

var _ Sink = (*SQLiteSink)(nil)
