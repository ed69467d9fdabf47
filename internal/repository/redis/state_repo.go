package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

// StateRepo реализует repository.StateRepository поверх Redis.
// Все ключи получают общий префикс, чтобы несколько установок могли делить один Redis.
type StateRepo struct {
	client redis.UniversalClient
	prefix string
	ctx    context.Context
}

// NewStateRepo создает новый репозиторий состояния и возвращает ошибку при проблемах
func NewStateRepo(client redis.UniversalClient, prefix string) (*StateRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for StateRepo")
	}
	return &StateRepo{
		client: client,
		prefix: prefix,
		ctx:    context.Background(),
	}, nil
}

func (r *StateRepo) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// Set сохраняет значение без срока жизни
func (r *StateRepo) Set(key string, value string) error {
	return r.client.Set(r.ctx, r.key(key), value, 0).Err()
}

// Get получает значение по ключу
func (r *StateRepo) Get(key string) (string, error) {
	val, err := r.client.Get(r.ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Delete удаляет значение
func (r *StateRepo) Delete(key string) error {
	return r.client.Del(r.ctx, r.key(key)).Err()
}

// Exists проверяет существование ключа
func (r *StateRepo) Exists(key string) (bool, error) {
	result, err := r.client.Exists(r.ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// SetJSON сохраняет структуру в виде JSON
func (r *StateRepo) SetJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, r.key(key), data, 0).Err()
}

// GetJSON читает JSON и раскладывает его в dest
func (r *StateRepo) GetJSON(key string, dest interface{}) error {
	data, err := r.client.Get(r.ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}
