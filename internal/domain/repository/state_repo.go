package repository

// StateRepository - хранилище ключ-значение для сохранения состояния сессий и прогресса.
// Get и GetJSON возвращают apperrors.ErrNotFound, если ключа нет.
type StateRepository interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Delete(key string) error
	Exists(key string) (bool, error)
	SetJSON(key string, value interface{}) error
	GetJSON(key string, dest interface{}) error
}
