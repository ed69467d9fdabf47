package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests - максимальное количество запросов за Window
	MaxRequests int
	// Window - временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix - префикс для ключей счётчиков
	KeyPrefix string
}

// DefaultAPIRateLimitConfig возвращает общий лимит для REST API
func DefaultAPIRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 300,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:api",
	}
}

// SessionStartRateLimitConfig - лимит на пересборку пулов (старт экзамена, новый набор практики)
func SessionStartRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 20,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:session",
	}
}

// RateLimiter создаёт middleware для rate limiting.
// С клиентом Redis счётчики общие для всех экземпляров, без него лимит считается в памяти процесса.
type RateLimiter struct {
	redisClient redis.UniversalClient

	localMu sync.Mutex
	local   map[string]*rate.Limiter
}

// NewRateLimiter создает новый RateLimiter. redisClient может быть nil.
func NewRateLimiter(redisClient redis.UniversalClient) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		local:       make(map[string]*rate.Limiter),
	}
}

// Limit возвращает Gin middleware с заданной конфигурацией
// Ключ формируется из IP + endpoint path
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath() // Gin route pattern, e.g. "/api/exam/start"
		if path == "" {
			path = c.Request.URL.Path
		}
		rl.apply(c, cfg, fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, c.ClientIP(), path))
	}
}

// LimitByIP ограничивает количество запросов по IP (без привязки к path)
// Полезно для глобального лимита на группу endpoints
func (rl *RateLimiter) LimitByIP(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.apply(c, cfg, fmt.Sprintf("%s:%s", cfg.KeyPrefix, c.ClientIP()))
	}
}

func (rl *RateLimiter) apply(c *gin.Context, cfg RateLimitConfig, key string) {
	var allowed bool
	var remaining, retryAfter int
	var err error

	if rl.redisClient != nil {
		allowed, remaining, retryAfter, err = rl.redisAllow(key, cfg)
		if err != nil {
			// При ошибке Redis пропускаем запрос (fail-open), но логируем
			log.Printf("[RateLimiter] Redis error for key %s: %v. Allowing request (fail-open).", key, err)
			c.Next()
			return
		}
	} else {
		allowed, remaining, retryAfter = rl.localAllow(key, cfg)
	}

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", retryAfter))

	if !allowed {
		log.Printf("[RateLimiter] Rate limit exceeded for key=%s. Limit=%d", key, cfg.MaxRequests)

		c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "Too many requests. Please try again later.",
			"error_type":  "rate_limited",
			"retry_after": retryAfter,
		})
		return
	}

	c.Next()
}

// redisAllow считает запросы в фиксированном окне через INCR + EXPIRE
func (rl *RateLimiter) redisAllow(key string, cfg RateLimitConfig) (bool, int, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	count, err := rl.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, 0, err
	}

	// Если это первый запрос в окне - устанавливаем TTL
	if count == 1 {
		if err := rl.redisClient.Expire(ctx, key, cfg.Window).Err(); err != nil {
			log.Printf("[RateLimiter] Failed to set TTL for key %s: %v", key, err)
		}
	}

	remaining := cfg.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	ttl, _ := rl.redisClient.TTL(ctx, key).Result()
	retryAfter := int(ttl.Seconds())
	if retryAfter < 0 {
		retryAfter = int(cfg.Window.Seconds())
	}

	return int(count) <= cfg.MaxRequests, remaining, retryAfter, nil
}

// localAllow использует token bucket на ключ: MaxRequests токенов, пополнение за Window
func (rl *RateLimiter) localAllow(key string, cfg RateLimitConfig) (bool, int, int) {
	rl.localMu.Lock()
	limiter, ok := rl.local[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(cfg.Window/time.Duration(cfg.MaxRequests)), cfg.MaxRequests)
		rl.local[key] = limiter
	}
	rl.localMu.Unlock()

	allowed := limiter.Allow()
	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	retryAfter := 0
	if !allowed {
		retryAfter = int((cfg.Window / time.Duration(cfg.MaxRequests)).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
	}
	return allowed, remaining, retryAfter
}
