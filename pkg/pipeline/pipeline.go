// Package pipeline wires the full run: scan the input directory, extract a
// reduced unit per file, aggregate into one batched request, classify with
// the model, then write journals, the calendar, and the vector index.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/quangdv/declutter/pkg/ai"
	"github.com/quangdv/declutter/pkg/batch"
	"github.com/quangdv/declutter/pkg/calendar"
	"github.com/quangdv/declutter/pkg/extract"
	"github.com/quangdv/declutter/pkg/journal"
	"github.com/quangdv/declutter/pkg/scan"
)

const maxWorkers = 8

// Organizer is the classification collaborator (the Gemini client outside
// of tests).
type Organizer interface {
	Organize(ctx context.Context, batchText string) (*ai.Result, error)
	DescribeImage(ctx context.Context, name string, data []byte) (string, error)
}

// Indexer is the vector store side of the run.
type Indexer interface {
	IndexResult(ctx context.Context, result *ai.Result) (int, error)
}

// Config holds one run's parameters.
type Config struct {
	InputDir string
	OutDir   string
	Policy   extract.Policy
	Budget   int              // aggregate character budget (0 = batch.DefaultBudget)
	Now      func() time.Time // stamp source for generated files (nil = time.Now)
}

// Report summarizes a completed run.
type Report struct {
	Files        int
	Units        int
	BatchChars   int
	Topics       []string
	Notes        int
	Events       int
	JournalFiles []journal.TopicFile
	CalendarPath string
	Indexed      int
}

// Run executes the whole pipeline. Per-file extraction errors are recovered
// as placeholder units; budget overflow and collaborator failures are fatal.
func Run(ctx context.Context, cfg Config, org Organizer, idx Indexer) (*Report, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	files, err := scan.Dir(cfg.InputDir)
	if err != nil {
		return nil, err
	}
	slog.Info("scanned input", "dir", cfg.InputDir, "files", len(files))

	units := extractAll(files, cfg.Policy)

	// Images are routed to the vision collaborator; the unit keeps its
	// placeholder if description fails, annotated with the error.
	for i, u := range units {
		if u.Kind != scan.KindImage {
			continue
		}
		desc, err := org.DescribeImage(ctx, files[i].Name, files[i].Content)
		if err != nil {
			slog.Warn("image description failed", "file", files[i].Name, "error", err)
			units[i].Err = err.Error()
			continue
		}
		units[i].Text = fmt.Sprintf("[IMAGE] %s", desc)
		units[i].Size = len(units[i].Text)
	}

	b := batch.NewBuilder(cfg.Budget)
	for _, u := range units {
		if err := b.Add(u); err != nil {
			// Silent truncation could drop whole files; make the caller
			// tighten extraction ceilings instead.
			return nil, err
		}
	}
	slog.Info("aggregated batch", "units", len(units), "chars", b.Size(), "budget", b.Budget())

	result, err := org.Organize(ctx, b.String())
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	journalFiles, err := journal.Write(cfg.OutDir, result.Notes, now())
	if err != nil {
		return nil, err
	}

	calendarPath, err := calendar.Write(cfg.OutDir, result.Events, now())
	if err != nil {
		return nil, err
	}

	indexed, err := idx.IndexResult(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("vector indexing failed: %w", err)
	}

	return &Report{
		Files:        len(files),
		Units:        len(units),
		BatchChars:   b.Size(),
		Topics:       result.Topics,
		Notes:        len(result.Notes),
		Events:       len(result.Events),
		JournalFiles: journalFiles,
		CalendarPath: calendarPath,
		Indexed:      indexed,
	}, nil
}

// extractAll runs extraction across a bounded worker pool. Results land in
// their input slot, so the output order matches the path-sorted scan order
// regardless of scheduling.
func extractAll(files []scan.File, policy extract.Policy) []extract.Unit {
	units := make([]extract.Unit, len(files))

	workerCount := runtime.NumCPU()
	if workerCount > maxWorkers {
		workerCount = maxWorkers
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}
	if workerCount < 1 {
		return units
	}

	jobs := make(chan int, len(files))
	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				units[i] = extract.Extract(files[i], policy)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return units
}
