package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/logging"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/metrics"
)

// SnapshotLoader produces dashboard snapshots. *Aggregator implements it.
type SnapshotLoader interface {
	Load(ctx context.Context) (Snapshot, error)
}

// Compile-time interface check.
var _ SnapshotLoader = (*Aggregator)(nil)

// Loader runs dashboard refreshes and keeps the last snapshot.
//
// Refreshes may run concurrently. Every Refresh takes a new generation
// number; when a refresh completes after a newer one has started, its
// result is discarded and Refresh returns ErrSuperseded, so a slow response
// never overwrites a fresher one. A refresh whose context is canceled is
// discarded the same way.
type Loader struct {
	source   SnapshotLoader
	notifier Notifier

	mu   sync.Mutex
	gen  uint64
	last *Snapshot
}

// NewLoader creates a Loader. notifier may be nil.
func NewLoader(src SnapshotLoader, notifier Notifier) *Loader {
	return &Loader{source: src, notifier: notifier}
}

// Refresh loads a new snapshot. Partial failures still store the snapshot;
// the error describes the failed panels and is reported to the notifier.
func (l *Loader) Refresh(ctx context.Context) (Snapshot, error) {
	ctx = logging.EnsureCorrelationID(ctx)

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	snap, err := l.source.Load(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		metrics.DashboardRefreshes.WithLabelValues("canceled").Inc()
		logging.Ctx(ctx).Debug().Uint64("generation", gen).Msg("dashboard refresh canceled")
		return Snapshot{}, ctxErr
	}

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		metrics.DashboardRefreshes.WithLabelValues("superseded").Inc()
		logging.Ctx(ctx).Debug().Uint64("generation", gen).Msg("dashboard refresh superseded")
		return Snapshot{}, ErrSuperseded
	}
	snap.Generation = gen
	if !errors.Is(err, ErrNoBaseURL) {
		stored := snap
		l.last = &stored
	}
	l.mu.Unlock()

	if err != nil {
		metrics.DashboardRefreshes.WithLabelValues("error").Inc()
		if l.notifier != nil {
			l.notifier.Notify(ctx, Describe(err))
		}
		return snap, err
	}
	metrics.DashboardRefreshes.WithLabelValues("success").Inc()
	return snap, nil
}

// Last returns the most recent stored snapshot.
func (l *Loader) Last() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == nil {
		return Snapshot{}, false
	}
	return *l.last, true
}

// Generation returns the number of refreshes started so far.
func (l *Loader) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}
