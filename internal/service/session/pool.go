package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
)

// PoolBuilder собирает случайный набор вопросов для сессии.
// Источник случайности можно подменить для детерминированных тестов.
type PoolBuilder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPoolBuilder создает сборщик. Если src == nil, используется источник на текущем времени.
func NewPoolBuilder(src rand.Source) *PoolBuilder {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &PoolBuilder{rng: rand.New(src)}
}

// Build фильтрует вопросы по теме ("ALL" - без фильтра), равномерно перемешивает их
// (Fisher-Yates через rand.Shuffle) и обрезает до min(size, найдено).
// Ноль найденных вопросов даёт пустой пул, это не ошибка.
func (b *PoolBuilder) Build(questions []entity.Question, topic string, size int) []entity.Question {
	pool := make([]entity.Question, 0, len(questions))
	if size <= 0 {
		return pool
	}

	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if !q.MatchesTopic(topic) {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		pool = append(pool, q)
	}

	b.mu.Lock()
	b.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	b.mu.Unlock()

	if size < len(pool) {
		pool = pool[:size]
	}
	return pool
}
