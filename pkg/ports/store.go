package ports

import (
	"context"

	"github.com/refinehq/refine/pkg/domain"
)

// ConversationStore persists conversation snapshots keyed by thread ID.
// Saves are best-effort from the engine's point of view: a failing store
// must never abort a run. Appends for distinct threads require no
// engine-side coordination.
type ConversationStore interface {
	// Save appends a snapshot to the thread's history.
	Save(ctx context.Context, threadID string, snap *domain.Snapshot) error

	// History returns up to limit prior snapshots for the thread, most
	// recent first. Returns domain.ErrThreadNotFound for unknown threads.
	History(ctx context.Context, threadID string, limit int) ([]*domain.Snapshot, error)

	// Clear removes all snapshots for the thread.
	Clear(ctx context.Context, threadID string) error

	// List returns the known thread IDs.
	List(ctx context.Context) ([]string, error)
}
