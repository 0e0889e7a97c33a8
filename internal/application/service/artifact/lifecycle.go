package artifact_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/artifact"
)

const defaultDeleteTimeout = 10 * time.Second

// Lifecycle retires image files that no longer back any post. Deletions run
// detached from the request that scheduled them; their outcome is only logged.
type Lifecycle struct {
	store   artifact.Store
	log     ports.Logger
	metrics ports.MetricsProvider
	timeout time.Duration
	wg      conc.WaitGroup
}

func NewLifecycle(store artifact.Store, log ports.Logger, metrics ports.MetricsProvider) *Lifecycle {
	return &Lifecycle{
		store:   store,
		log:     log,
		metrics: metrics,
		timeout: defaultDeleteTimeout,
	}
}

func (l *Lifecycle) ScheduleDeletion(path string) {
	path = strings.ReplaceAll(strings.TrimSpace(path), "\\", "/")
	if path == "" || path == model.ImageUnchanged {
		return
	}

	l.log.Debug("Scheduling artifact deletion", slog.String("path", path))
	l.wg.Go(func() {
		l.delete(path)
	})
}

func (l *Lifecycle) delete(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	err := l.store.Delete(ctx, path)
	switch {
	case err == nil:
		l.log.Debug("Artifact deleted", slog.String("path", path))
		l.metrics.IncrementArtifactOperations("delete", true)
	case errors.Is(err, custom_errors.ErrArtifactNotFound):
		l.log.Warn("Artifact already gone", slog.String("path", path))
		l.metrics.IncrementArtifactOperations("delete", false)
	default:
		l.log.Error("Failed to delete artifact",
			slog.String("path", path),
			slog.String("error", err.Error()))
		l.metrics.IncrementArtifactOperations("delete", false)
	}
}

// Close blocks until every scheduled deletion has finished.
func (l *Lifecycle) Close() {
	if r := l.wg.WaitAndRecover(); r != nil {
		l.log.Error("Artifact deletion panicked", slog.String("panic", r.String()))
	}
}
