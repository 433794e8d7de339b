package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/logger"
	"github.com/codeGROOVE-dev/retry"
)

// MirrorReconciler repairs drift between the document store and the vector
// index left behind by degraded writes: documents without a mirror get one,
// mirrors without a document are removed. It runs outside the request path.
type MirrorReconciler struct {
	storage         ReconcileStorage
	index           VectorIndex
	mirror          *Mirror
	safetyThreshold time.Duration
	attempts        uint
	retryDelay      time.Duration
	now             func() time.Time
	log             *slog.Logger

	mu        sync.Mutex
	lastStats ReconcileStats
}

// ReconcileStats tracks metrics from the last reconcile run.
type ReconcileStats struct {
	RunAt            time.Time
	DocumentsScanned int
	MirrorsScanned   int
	MissingMirrors   int
	MirrorsRestored  int
	OrphanedMirrors  int
	OrphansRemoved   int
	DurationMs       int64
	Errors           []string
}

// ReconcileStorage lists what the document store holds.
type ReconcileStorage interface {
	ListContentSources(ctx context.Context) ([]domain.ContentSource, error)
}

// NewMirrorReconciler creates a reconciler. Records younger than
// safetyThreshold are skipped since their dual write may still be in flight.
func NewMirrorReconciler(storage ReconcileStorage, index VectorIndex, mirror *Mirror, safetyThreshold time.Duration, attempts uint) *MirrorReconciler {
	return &MirrorReconciler{
		storage:         storage,
		index:           index,
		mirror:          mirror,
		safetyThreshold: safetyThreshold,
		attempts:        attempts,
		retryDelay:      time.Second,
		now:             time.Now,
		log:             logger.Component("reconciler"),
	}
}

// StartBackgroundReconcile runs a reconcile every interval until ctx is done.
func (r *MirrorReconciler) StartBackgroundReconcile(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	r.log.Info("started mirror reconciler", "interval", interval, "safety_threshold", r.safetyThreshold)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.RunReconcile(ctx); err != nil {
					r.log.Error("reconcile failed", "error", err)
					continue
				}
				stats := r.LastStats()
				r.log.Info("reconcile completed",
					"documents_scanned", stats.DocumentsScanned,
					"mirrors_scanned", stats.MirrorsScanned,
					"mirrors_restored", stats.MirrorsRestored,
					"orphans_removed", stats.OrphansRemoved,
					"duration_ms", stats.DurationMs,
					"errors", len(stats.Errors))
			case <-ctx.Done():
				r.log.Info("mirror reconciler shutting down gracefully")
				return
			}
		}
	}()
}

// RunReconcile executes a single reconcile cycle.
func (r *MirrorReconciler) RunReconcile(ctx context.Context) error {
	start := r.now()
	stats := ReconcileStats{RunAt: start, Errors: []string{}}
	cutoff := start.Add(-r.safetyThreshold)

	docs, err := r.storage.ListContentSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	mirrors, err := r.index.ListMirrors(ctx)
	if err != nil {
		return fmt.Errorf("failed to list mirrors: %w", err)
	}
	stats.DocumentsScanned = len(docs)
	stats.MirrorsScanned = len(mirrors)

	mirrored := make(map[domain.IndexId]bool, len(mirrors))
	for _, m := range mirrors {
		mirrored[m.IndexId] = true
	}
	documented := make(map[domain.IndexId]bool, len(docs))
	for _, d := range docs {
		documented[d.Ref.IndexId] = true
	}

	for _, d := range docs {
		if mirrored[d.Ref.IndexId] || d.CreatedAt.After(cutoff) {
			continue
		}
		stats.MissingMirrors++
		err := r.withRetry(ctx, "restore", func() error { return r.mirror.Sync(ctx, d.Ref, d.Text) })
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("restore %s: %v", d.Ref, err))
			continue
		}
		stats.MirrorsRestored++
		reconcileRepairs.WithLabelValues("restore").Inc()
	}

	for _, m := range mirrors {
		if documented[m.IndexId] || m.UpdatedAt.After(cutoff) {
			continue
		}
		stats.OrphanedMirrors++
		ref := domain.ContentRef{Kind: m.Kind, Id: m.DocId, IndexId: m.IndexId}
		err := r.withRetry(ctx, "remove", func() error { return r.mirror.Remove(ctx, ref) })
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("remove %s: %v", ref, err))
			continue
		}
		stats.OrphansRemoved++
		reconcileRepairs.WithLabelValues("remove").Inc()
	}

	stats.DurationMs = r.now().Sub(start).Milliseconds()
	r.mu.Lock()
	r.lastStats = stats
	r.mu.Unlock()
	return nil
}

func (r *MirrorReconciler) withRetry(ctx context.Context, op string, fn func() error) error {
	return retry.Do(fn,
		retry.Attempts(r.attempts),
		retry.Delay(r.retryDelay),
		retry.MaxDelay(30*time.Second),
		retry.Context(ctx),
		retry.MaxJitter(r.retryDelay),
		retry.OnRetry(func(n uint, err error) {
			r.log.Debug("retrying mirror repair", "op", op, "attempt", n, "error", err)
		}),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled)
		}),
	)
}

// LastStats returns statistics from the last reconcile run.
func (r *MirrorReconciler) LastStats() ReconcileStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStats
}
