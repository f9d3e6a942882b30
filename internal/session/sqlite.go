package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/joshua-takyi/jocky/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps the session as key/value rows under TokenKey and UserKey.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS client_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (string, *models.User, error) {
	token, err := s.get(ctx, TokenKey)
	if err != nil {
		return "", nil, err
	}
	raw, err := s.get(ctx, UserKey)
	if err != nil {
		return "", nil, err
	}
	if raw == "" {
		return token, nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return "", nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return token, &user, nil
}

// Save replaces both keys in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, token string, user *models.User) error {
	raw := []byte("")
	if user != nil {
		var err error
		if raw, err = json.Marshal(user); err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, query, TokenKey, token, now); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, UserKey, string(raw), now); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return tx.Commit()
}

// Clear removes everything the client stored.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE key IN (?, ?)`, TokenKey, UserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
