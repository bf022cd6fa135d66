package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/refinehq/refine/pkg/adapters/redis"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStore_Contract(t *testing.T) {
	store := redisadapter.NewStore(newTestClient(t), "refine:")
	ports.RunConversationStoreContract(t, store)
}

func TestStore_HistoryPreservesFields(t *testing.T) {
	store := redisadapter.NewStore(newTestClient(t), "refine:")
	ctx := context.Background()

	saved := &domain.Snapshot{
		ThreadID:       "t-1",
		Timestamp:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		UserQuery:      "design a booking engine",
		QueryType:      domain.QueryTechnical,
		CurrentStep:    3,
		ActiveAgent:    domain.AgentTechnical,
		ProcessingTime: 1.25,
		History: []domain.HistoryEntry{
			{Step: 2, Agent: "supervisor", Decision: domain.DecisionContinue},
		},
	}
	require.NoError(t, store.Save(ctx, "t-1", saved))

	got, err := store.History(ctx, "t-1", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, saved.UserQuery, got[0].UserQuery)
	assert.Equal(t, saved.QueryType, got[0].QueryType)
	assert.Equal(t, saved.ActiveAgent, got[0].ActiveAgent)
	require.Len(t, got[0].History, 1)
	assert.Equal(t, domain.DecisionContinue, got[0].History[0].Decision)
}

func TestStore_PrefixIsolation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	a := redisadapter.NewStore(client, "a:")
	b := redisadapter.NewStore(client, "b:")

	require.NoError(t, a.Save(ctx, "t-1", &domain.Snapshot{ThreadID: "t-1", UserQuery: "q"}))

	_, err := b.History(ctx, "t-1", 5)
	assert.ErrorIs(t, err, domain.ErrThreadNotFound)
}

func TestLocker_MutualExclusion(t *testing.T) {
	client := newTestClient(t)
	locker := redisadapter.NewLocker(client, "refine:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "thread-1", time.Minute)
	require.NoError(t, err)

	// Second acquisition blocks until the context gives up.
	blocked, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blocked, "thread-1", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	// Released lock is acquirable again.
	unlock2, err := locker.Lock(ctx, "thread-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_IndependentKeys(t *testing.T) {
	locker := redisadapter.NewLocker(newTestClient(t), "refine:")
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "thread-a", time.Minute)
	require.NoError(t, err)
	unlockB, err := locker.Lock(ctx, "thread-b", time.Minute)
	require.NoError(t, err)

	require.NoError(t, unlockA(ctx))
	require.NoError(t, unlockB(ctx))
}
