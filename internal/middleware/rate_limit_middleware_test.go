package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRateLimiter(maxReqs int, window time.Duration, start time.Time) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(RateLimitConfig{MaxRequests: maxReqs, Window: window})
	current := start
	rl.now = func() time.Time { return current }
	return rl, &current
}

func TestRateLimiter_AllowsExactlyMaxRequests(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rl, _ := newTestRateLimiter(5, 5*time.Minute, start)

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "запрос %d должен пройти", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"), "шестой запрос должен быть отклонен")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rl, _ := newTestRateLimiter(2, time.Minute, start)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Другой клиент лимит не разделяет
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rl, now := newTestRateLimiter(2, time.Minute, start)

	assert.True(t, rl.Allow("1.2.3.4"))
	*now = start.Add(30 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Первый запрос вышел из окна, место освободилось
	*now = start.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))

	// Второй запрос (12:00:30) все еще в окне, лимит снова исчерпан
	assert.False(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiter_RejectedRequestsNotRecorded(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rl, now := newTestRateLimiter(2, time.Minute, start)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))

	// Шквал отклоненных запросов не должен продлевать блокировку
	for i := 0; i < 10; i++ {
		assert.False(t, rl.Allow("1.2.3.4"))
	}

	*now = start.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "после выхода разрешенных запросов из окна лимит свободен")
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rl, now := newTestRateLimiter(2, time.Minute, start)

	assert.Zero(t, rl.RetryAfter("1.2.3.4"))

	assert.True(t, rl.Allow("1.2.3.4"))
	*now = start.Add(10 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))

	// Место освободится, когда самый старый учтенный запрос выйдет из окна
	*now = start.Add(20 * time.Second)
	assert.Equal(t, 40*time.Second, rl.RetryAfter("1.2.3.4"))

	*now = start.Add(2 * time.Minute)
	assert.Zero(t, rl.RetryAfter("1.2.3.4"))
}

func TestNewRateLimiter_DefaultsOnInvalidConfig(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	assert.Equal(t, 5, rl.maxReqs)
	assert.Equal(t, 5*time.Minute, rl.window)
}
