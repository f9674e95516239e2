package middleware

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests — максимальное количество запросов за Window
	MaxRequests int
	// Window — временное окно для подсчёта запросов
	Window time.Duration
}

// DefaultRateLimitConfig — лимит по умолчанию для чувствительных endpoints
// (регистрация, вход, коды подтверждения, сброс пароля)
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 5,               // 5 попыток
		Window:      5 * time.Minute, // за 5 минут
	}
}

// RateLimiter — скользящее окно в памяти процесса. Один экземпляр
// разделяется всеми чувствительными endpoints: бюджет запросов общий
// для клиента, а не на каждый endpoint отдельно. Кросс-процессного
// состояния нет — развертывание предполагается в один экземпляр.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	window   time.Duration
	maxReqs  int
	// now подменяется в тестах
	now func() time.Time
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 5 * time.Minute
	}
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		window:   cfg.Window,
		maxReqs:  cfg.MaxRequests,
		now:      time.Now,
	}
}

// Allow проверяет, разрешен ли запрос для ключа, и при разрешении
// учитывает его в окне. Отклоненный запрос в окно не записывается.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	// Лениво отбрасываем записи, вышедшие из окна
	kept := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= rl.maxReqs {
		rl.requests[key] = kept
		return false
	}

	rl.requests[key] = append(kept, now)
	return true
}

// RetryAfter возвращает, через сколько освободится место в окне для ключа
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.requests[key]
	if len(timestamps) < rl.maxReqs {
		return 0
	}
	oldest := timestamps[len(timestamps)-rl.maxReqs]
	retry := oldest.Add(rl.window).Sub(rl.now())
	if retry < 0 {
		return 0
	}
	return retry
}

// Limit возвращает Gin middleware, отклоняющий запросы сверх лимита.
// Ключ — IP клиента, без привязки к path: лимит общий на клиента.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !rl.Allow(clientIP) {
			retryAfter := int(rl.RetryAfter(clientIP).Seconds()) + 1

			log.Printf("[RateLimiter] Rate limit exceeded for IP=%s path=%s. Limit=%d per %v",
				clientIP, c.Request.URL.Path, rl.maxReqs, rl.window)

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
}
