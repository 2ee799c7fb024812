package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/videohub/internal/model"
)

type fakeSource struct {
	mu    sync.Mutex
	users map[string]model.UserSummary
	calls [][]string
	err   error
}

func (f *fakeSource) GetSummaries(_ context.Context, ids []string) (map[string]model.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]model.UserSummary{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func newCache(t *testing.T, src SummarySource) (*UserSummaryCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewUserSummaryCache(src, client, time.Minute), mr
}

func TestReadThroughAndFill(t *testing.T) {
	src := &fakeSource{users: map[string]model.UserSummary{
		"a": {ID: "a", DisplayName: "Alice", Handle: "alice"},
		"b": {ID: "b", DisplayName: "Bob", Handle: "bob"},
	}}
	c, mr := newCache(t, src)
	ctx := context.Background()

	got, err := c.GetSummaries(ctx, []string{"a", "b", "ghost"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, mr.Exists("user:summary:a"))
	assert.False(t, mr.Exists("user:summary:ghost"))

	got, err = c.GetSummaries(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", got["b"].DisplayName)
	// 第二次全部命中，不再回源
	assert.Len(t, src.calls, 1)

	mr.FastForward(2 * time.Minute)
	_, err = c.GetSummaries(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Len(t, src.calls, 2)
}

func TestCanceledRequestsDoNotTripBreaker(t *testing.T) {
	src := &fakeSource{users: map[string]model.UserSummary{"a": {ID: "a", DisplayName: "Alice"}}}
	c, mr := newCache(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		got, err := c.GetSummaries(ctx, []string{"a"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", got["a"].DisplayName)
	}
	assert.Equal(t, gobreaker.StateClosed, c.breaker.State())
	assert.False(t, mr.Exists("user:summary:a"))

	// 熔断器未打开，正常请求仍然读写 redis
	_, err := c.GetSummaries(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("user:summary:a"))
}

func TestRedisDownFallsBackToSource(t *testing.T) {
	src := &fakeSource{users: map[string]model.UserSummary{"a": {ID: "a", DisplayName: "Alice"}}}
	c, mr := newCache(t, src)
	mr.Close()

	for i := 0; i < 8; i++ {
		got, err := c.GetSummaries(context.Background(), []string{"a"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", got["a"].DisplayName)
	}
	assert.Equal(t, gobreaker.StateOpen, c.breaker.State())
}

func TestSourceErrorPropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	c, _ := newCache(t, src)
	_, err := c.GetSummaries(context.Background(), []string{"a"})
	assert.EqualError(t, err, "db down")
}
