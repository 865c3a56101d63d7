package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLimiterEnforcesBudget(t *testing.T) {
	limiter := New(NewMemoryStore(), false)
	rule := Rule{Limit: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Check(context.Background(), "login:ip:user@example.com", rule))
	}

	err := limiter.Check(context.Background(), "login:ip:user@example.com", rule)
	var rlErr *Error
	require.ErrorAs(t, err, &rlErr)
	require.GreaterOrEqual(t, rlErr.RetryAfterSeconds(), 1)

	// Other keys keep their own budget.
	require.NoError(t, limiter.Check(context.Background(), "login:ip:other@example.com", rule))
}

func TestLimiterWindowResets(t *testing.T) {
	limiter := New(NewMemoryStore(), false)
	rule := Rule{Limit: 1, Window: 20 * time.Millisecond}

	require.NoError(t, limiter.Check(context.Background(), "k", rule))
	require.Error(t, limiter.Check(context.Background(), "k", rule))

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, limiter.Check(context.Background(), "k", rule))
}

func TestLimiterReset(t *testing.T) {
	limiter := New(NewMemoryStore(), false)
	rule := Rule{Limit: 1, Window: time.Minute}

	require.NoError(t, limiter.Check(context.Background(), "k", rule))
	require.Error(t, limiter.Check(context.Background(), "k", rule))

	require.NoError(t, limiter.Reset(context.Background(), "k"))
	require.NoError(t, limiter.Check(context.Background(), "k", rule))
}

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("store down")
}

func (failingStore) Reset(context.Context, string) error {
	return errors.New("store down")
}

func TestLimiterFailOpen(t *testing.T) {
	limiter := New(failingStore{}, false)
	rule := Rule{Limit: 1, Window: time.Minute}

	require.NoError(t, limiter.Check(context.Background(), "k", rule))
	require.NoError(t, limiter.Check(context.Background(), "k", rule))
}

func TestLimiterFailClosed(t *testing.T) {
	limiter := New(failingStore{}, true)
	rule := Rule{Limit: 1, Window: time.Minute}

	err := limiter.Check(context.Background(), "k", rule)
	var rlErr *Error
	require.ErrorAs(t, err, &rlErr)
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()

	_, _, err := store.Increment(context.Background(), "expired", 10*time.Millisecond)
	require.NoError(t, err)
	_, _, err = store.Increment(context.Background(), "live", time.Minute)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	store.sweep(time.Now())

	store.mu.Lock()
	defer store.mu.Unlock()
	require.NotContains(t, store.records, "expired")
	require.Contains(t, store.records, "live")
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client)

	count, _, err := store.Increment(context.Background(), "login:ip:user@example.com", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	count, resetAt, err := store.Increment(context.Background(), "login:ip:user@example.com", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
	require.True(t, resetAt.After(time.Now()))

	// Window expiry starts a fresh count.
	mr.FastForward(2 * time.Minute)
	count, _, err = store.Increment(context.Background(), "login:ip:user@example.com", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, store.Reset(context.Background(), "login:ip:user@example.com"))
	count, _, err = store.Increment(context.Background(), "login:ip:user@example.com", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.RemoteAddr = "203.0.113.9:1234"
	c.Request.Header.Set("X-Forwarded-For", "198.51.100.7")

	// Proxy headers are ignored unless explicitly trusted; everyone shares
	// one bucket rather than letting callers mint fresh ones per request.
	require.Equal(t, "untrusted", ClientIP(c, false))
	require.NotEmpty(t, ClientIP(c, true))
	require.NotEqual(t, "untrusted", ClientIP(c, true))
}

func TestErrorRetryAfterSeconds(t *testing.T) {
	require.Equal(t, 1, (&Error{RetryAfter: 10 * time.Millisecond}).RetryAfterSeconds())
	require.Equal(t, 1, (&Error{RetryAfter: -time.Second}).RetryAfterSeconds())
	require.Equal(t, 2, (&Error{RetryAfter: 1100 * time.Millisecond}).RetryAfterSeconds())
	require.Equal(t, 60, (&Error{RetryAfter: time.Minute}).RetryAfterSeconds())
}
