package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizprompt-api/internal/domain/entity"
	"bizprompt-api/internal/domain/repository"
	"bizprompt-api/internal/domain/service"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClientFromRedis(rdb), mr
}

func TestHealthCheck(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, client.HealthCheck(context.Background()))

	mr.Close()
	require.Error(t, client.HealthCheck(context.Background()))
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	now := time.UnixMilli(1_700_000_000_000)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()
	key := BuildRateLimitKey("generate", "10.0.0.1")
	assert.Equal(t, "ratelimit:generate:10.0.0.1", key)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Minute + time.Millisecond)
	ok, err = limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, BuildRateLimitKey("generate", "10.0.0.2"), 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestToolRanking(t *testing.T) {
	client, _ := newTestClient(t)
	ranking := NewToolRanking(client)
	ctx := context.Background()

	require.NoError(t, ranking.Incr(ctx, []string{"Stripe", "React", " stripe ", ""}))
	require.NoError(t, ranking.Incr(ctx, []string{"STRIPE", "Notion"}))
	require.NoError(t, ranking.Incr(ctx, nil))

	top, err := ranking.Top(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []service.ToolCount{{Tool: "stripe", Count: 2}}, top)

	all, err := ranking.Top(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

type countingRepo struct {
	lists   atomic.Int32
	creates atomic.Int32
	err     error
}

func (r *countingRepo) Create(context.Context, *entity.BusinessIdea) error {
	r.creates.Add(1)
	return r.err
}

func (r *countingRepo) GetPublicByID(context.Context, string) (*entity.BusinessIdea, error) {
	return nil, nil
}

func (r *countingRepo) ListPublic(_ context.Context, opts repository.ListOptions) ([]*entity.BusinessIdea, error) {
	r.lists.Add(1)
	return []*entity.BusinessIdea{{ID: "a", Prompt: "p", GeneratedIdea: []byte(`{"name":"A"}`), ToolsNeeded: []string{opts.Tool}}}, nil
}

func TestCachedIdeaRepositoryListAndInvalidate(t *testing.T) {
	client, _ := newTestClient(t)
	next := &countingRepo{}
	repo := NewCachedIdeaRepository(next, NewCache(client), time.Minute)
	ctx := context.Background()
	opts := repository.ListOptions{Limit: 20, Tool: "Stripe"}

	first, err := repo.ListPublic(ctx, opts)
	require.NoError(t, err)
	second, err := repo.ListPublic(ctx, opts)
	require.NoError(t, err)
	assert.EqualValues(t, 1, next.lists.Load())
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.JSONEq(t, `{"name":"A"}`, string(second[0].GeneratedIdea))
	assert.Equal(t, []string{"Stripe"}, []string(second[0].ToolsNeeded))

	require.NoError(t, repo.Create(ctx, &entity.BusinessIdea{ID: "b"}))
	_, err = repo.ListPublic(ctx, opts)
	require.NoError(t, err)
	assert.EqualValues(t, 2, next.lists.Load())
}

// exactToolRepo 只返回工具名完全一致的记录
type exactToolRepo struct {
	countingRepo
	ideas []*entity.BusinessIdea
}

func (r *exactToolRepo) ListPublic(_ context.Context, opts repository.ListOptions) ([]*entity.BusinessIdea, error) {
	r.lists.Add(1)
	out := []*entity.BusinessIdea{}
	for _, idea := range r.ideas {
		for _, tool := range idea.ToolsNeeded {
			if tool == opts.Tool {
				out = append(out, idea)
				break
			}
		}
	}
	return out, nil
}

func TestCachedIdeaRepositoryKeepsToolCaseInKey(t *testing.T) {
	client, _ := newTestClient(t)
	next := &exactToolRepo{ideas: []*entity.BusinessIdea{
		{ID: "a", Prompt: "p", GeneratedIdea: []byte(`{}`), ToolsNeeded: []string{"Figma"}},
	}}
	repo := NewCachedIdeaRepository(next, NewCache(client), time.Minute)
	ctx := context.Background()

	lower, err := repo.ListPublic(ctx, repository.ListOptions{Limit: 20, Tool: "figma"})
	require.NoError(t, err)
	assert.Empty(t, lower)

	exact, err := repo.ListPublic(ctx, repository.ListOptions{Limit: 20, Tool: "Figma"})
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, "a", exact[0].ID)
	assert.EqualValues(t, 2, next.lists.Load())

	again, err := repo.ListPublic(ctx, repository.ListOptions{Limit: 20, Tool: "Figma"})
	require.NoError(t, err)
	assert.Len(t, again, 1)
	assert.EqualValues(t, 2, next.lists.Load())
}

func TestCachedIdeaRepositoryCreateError(t *testing.T) {
	client, _ := newTestClient(t)
	next := &countingRepo{err: errors.New("insert failed")}
	repo := NewCachedIdeaRepository(next, NewCache(client), 0)

	require.Error(t, repo.Create(context.Background(), &entity.BusinessIdea{}))
}

func TestCachedIdeaRepositoryFallsBackWhenRedisDown(t *testing.T) {
	client, mr := newTestClient(t)
	next := &countingRepo{}
	repo := NewCachedIdeaRepository(next, NewCache(client), time.Minute)
	mr.Close()

	out, err := repo.ListPublic(context.Background(), repository.ListOptions{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
