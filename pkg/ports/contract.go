package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinehq/refine/pkg/domain"
)

// RunConversationStoreContract runs a suite of tests to verify that a
// ConversationStore implementation adheres to the interface contract.
func RunConversationStoreContract(t *testing.T, store ConversationStore) {
	ctx := context.Background()
	threadID := "contract-test-thread-" + time.Now().Format("20060102150405")

	snap := func(step int, query string) *domain.Snapshot {
		return &domain.Snapshot{
			ThreadID:    threadID,
			Timestamp:   time.Now().UTC(),
			UserQuery:   query,
			QueryType:   domain.QueryGeneral,
			CurrentStep: step,
		}
	}

	t.Run("Save and History", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, threadID, snap(1, "first")))
		require.NoError(t, store.Save(ctx, threadID, snap(2, "second")))

		got, err := store.History(ctx, threadID, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		// Most recent first.
		assert.Equal(t, "second", got[0].UserQuery)
		assert.Equal(t, "first", got[1].UserQuery)
	})

	t.Run("History Limit", func(t *testing.T) {
		got, err := store.History(ctx, threadID, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].CurrentStep)
	})

	t.Run("History Non-Existent", func(t *testing.T) {
		_, err := store.History(ctx, "non-existent-"+threadID, 5)
		assert.ErrorIs(t, err, domain.ErrThreadNotFound)
	})

	t.Run("List", func(t *testing.T) {
		threads, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, threads, threadID)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx, threadID))
		_, err := store.History(ctx, threadID, 5)
		assert.ErrorIs(t, err, domain.ErrThreadNotFound, "History after Clear should return ErrThreadNotFound")
	})

	t.Run("Concurrent Threads", func(t *testing.T) {
		id1 := threadID + "-a"
		id2 := threadID + "-b"
		defer func() {
			_ = store.Clear(ctx, id1)
			_ = store.Clear(ctx, id2)
		}()

		done := make(chan error, 2)
		for _, id := range []string{id1, id2} {
			go func(id string) {
				var err error
				for i := 1; i <= 5 && err == nil; i++ {
					s := snap(i, "q")
					s.ThreadID = id
					err = store.Save(ctx, id, s)
				}
				done <- err
			}(id)
		}
		require.NoError(t, <-done)
		require.NoError(t, <-done)

		got, err := store.History(ctx, id1, 10)
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})
}
