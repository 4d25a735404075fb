// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/kkshivani18/infralens-tui/internal/model"
)

// ErrNoTranscript indicates no archived messages exist for a repository.
var ErrNoTranscript = errors.New("no transcript for repository")

// schema creates the transcript tables.
const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	repository TEXT NOT NULL,
	message_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcripts_repository
	ON transcripts(repository, id);
`

// TranscriptStore is the local archive of completed exchanges.
type TranscriptStore struct {
	db *sql.DB
}

// OpenTranscriptStore opens (and creates if needed) the archive at path.
func OpenTranscriptStore(path string) (*TranscriptStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &TranscriptStore{db: db}, nil
}

// Close releases the database handle.
func (s *TranscriptStore) Close() error {
	return s.db.Close()
}

// Record appends a message to a repository's transcript. Implements
// session.Recorder.
func (s *TranscriptStore) Record(repositoryName string, msg *model.Message) {
	if msg == nil {
		return
	}
	// Write-behind: an archive failure must never disturb the session.
	_ = s.Append(repositoryName, msg)
}

// Append appends a message to a repository's transcript.
func (s *TranscriptStore) Append(repositoryName string, msg *model.Message) error {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(
		"INSERT INTO transcripts (repository, message_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
		repositoryName, msg.ID, string(msg.Role), msg.Content, ts.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append transcript row: %w", err)
	}
	return nil
}

// History returns a repository's archived messages in insertion order.
func (s *TranscriptStore) History(repositoryName string) ([]*model.Message, error) {
	rows, err := s.db.Query(
		"SELECT message_id, role, content, created_at FROM transcripts WHERE repository = ? ORDER BY id",
		repositoryName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	defer rows.Close()

	var msgs []*model.Message
	for rows.Next() {
		var m model.Message
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}
		m.Role = model.Role(role)
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTranscript, repositoryName)
	}
	return msgs, nil
}

// Repositories returns the names of all archived repositories.
func (s *TranscriptStore) Repositories() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT repository FROM transcripts ORDER BY repository")
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a repository's archived transcript.
func (s *TranscriptStore) Delete(repositoryName string) error {
	_, err := s.db.Exec("DELETE FROM transcripts WHERE repository = ?", repositoryName)
	return err
}

// Count returns the number of archived messages for a repository.
func (s *TranscriptStore) Count(repositoryName string) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM transcripts WHERE repository = ?", repositoryName,
	).Scan(&n)
	return n, err
}
