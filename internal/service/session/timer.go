package session

import (
	"context"
	"log"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// TimerController ведёт обратный отсчёт до абсолютного срока.
// Пока время есть, на каждом тике вызывается onTick; по истечении onExpire вызывается ровно один раз.
type TimerController struct {
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewTimerController создает таймер с заданным периодом тика
func NewTimerController(interval time.Duration, now func() time.Time) *TimerController {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if now == nil {
		now = time.Now
	}
	return &TimerController{interval: interval, now: now}
}

// Start запускает отсчёт до deadline. Уже идущий отсчёт останавливается.
func (t *TimerController) Start(ctx context.Context, deadline time.Time, onTick func(remaining time.Duration), onExpire func()) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.mu.Unlock()

	go t.run(runCtx, deadline, atomic.NewBool(false), onTick, onExpire)
}

// Stop останавливает отсчёт. Безопасно вызывать повторно и из onExpire.
func (t *TimerController) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Running сообщает, запущен ли отсчёт
func (t *TimerController) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *TimerController) run(ctx context.Context, deadline time.Time, fired *atomic.Bool, onTick func(time.Duration), onExpire func()) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			remaining := deadline.Sub(t.now())
			if remaining <= 0 {
				if fired.CompareAndSwap(false, true) {
					log.Printf("[Timer] Время вышло (срок %s)", deadline.Format(time.RFC3339))
					if onExpire != nil {
						onExpire()
					}
				}
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
}
