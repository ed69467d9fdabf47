package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

const stateSchema = `
CREATE TABLE IF NOT EXISTS kv_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// StateRepo реализует repository.StateRepository поверх встроенной SQLite базы
type StateRepo struct {
	db *sql.DB
}

// NewStateRepo создает таблицу состояния, если её нет, и возвращает репозиторий
func NewStateRepo(db *sql.DB) (*StateRepo, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite db cannot be nil for StateRepo")
	}
	if _, err := db.Exec(stateSchema); err != nil {
		return nil, fmt.Errorf("failed to create kv_state table: %w", err)
	}
	return &StateRepo{db: db}, nil
}

// Set сохраняет значение (вставка или замена)
func (r *StateRepo) Set(key string, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	return err
}

// Get возвращает значение или apperrors.ErrNotFound
func (r *StateRepo) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv_state WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Delete удаляет значение
func (r *StateRepo) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM kv_state WHERE key = ?`, key)
	return err
}

// Exists проверяет существование ключа
func (r *StateRepo) Exists(key string) (bool, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(1) FROM kv_state WHERE key = ?`, key).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetJSON сохраняет структуру в виде JSON
func (r *StateRepo) SetJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(key, string(data))
}

// GetJSON читает JSON и раскладывает его в dest
func (r *StateRepo) GetJSON(key string, dest interface{}) error {
	val, err := r.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}
