package vecstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quangdv/declutter/pkg/ai"
	"github.com/quangdv/declutter/pkg/calendar"
	"github.com/quangdv/declutter/pkg/journal"
)

// Rebuild re-indexes the store from already-written journal and calendar
// files, with no model classification call. It is a pure re-index: running it
// any number of times against the same output yields the same store.
func (s *Store) Rebuild(ctx context.Context, outDir string) (int, error) {
	notes, err := journal.ReadDir(outDir)
	if err != nil {
		return 0, fmt.Errorf("rebuild: %w", err)
	}

	events, err := calendar.Read(outDir)
	if err != nil {
		// A missing calendar file is fine; journals alone can be indexed.
		slog.Warn("rebuild: no calendar events loaded", "error", err)
		events = nil
	}

	slog.Info("rebuilding vector store", "notes", len(notes), "events", len(events))
	return s.IndexResult(ctx, &ai.Result{Notes: notes, Events: events})
}
