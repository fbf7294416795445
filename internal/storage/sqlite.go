// Package storage keeps the admin panel's bookkeeping in SQLite: the
// journal of recently dispatched actions and privacy-conscious page view
// tracking. Portfolio data itself is never stored here.
package storage

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS actions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL,
	payload TEXT NOT NULL,
	skills INTEGER NOT NULL,
	projects INTEGER NOT NULL,
	loading INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	recorded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,  -- never the raw address
	user_agent TEXT,
	path TEXT,
	visited_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visitors_visited_at ON visitors(visited_at);
`

// DefaultJournalSize matches the history depth of the store devtools.
const DefaultJournalSize = 25

type Store struct {
	db          *sql.DB
	logger      *zap.Logger
	journalSize int
	salt        string
	now         func() time.Time
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithJournalSize bounds how many actions the journal keeps.
func WithJournalSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.journalSize = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens (or creates) the database at path and applies the schema.
// Pass ":memory:" for a throwaway in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create data directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// One connection: an in-memory database exists per connection, and a
	// file database avoids "database is locked" this way.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set busy timeout")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create tables")
	}

	salt, err := generateSalt()
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:          db,
		logger:      zap.NewNop(),
		journalSize: DefaultJournalSize,
		salt:        salt,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func generateSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate hashing salt")
	}
	return hex.EncodeToString(b), nil
}
