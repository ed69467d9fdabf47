package memory

import (
	"encoding/json"
	"sync"

	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

// StateRepo - хранилище ключ-значение в памяти процесса.
// Используется по умолчанию и в тестах.
type StateRepo struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewStateRepo создает пустое хранилище
func NewStateRepo() *StateRepo {
	return &StateRepo{data: make(map[string]string)}
}

// Set сохраняет значение
func (r *StateRepo) Set(key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

// Get возвращает значение или apperrors.ErrNotFound
func (r *StateRepo) Get(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return val, nil
}

// Delete удаляет значение
func (r *StateRepo) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

// Exists проверяет существование ключа
func (r *StateRepo) Exists(key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data[key]
	return ok, nil
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
