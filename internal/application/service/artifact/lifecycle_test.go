package artifact_service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	artifact_service "feed-service/internal/application/service/artifact"
	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/metrics/prometheus"
	artifact_mock "feed-service/mocks/artifact"
)

func TestLifecycle_ScheduleDeletion(t *testing.T) {
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()

	tests := []struct {
		name  string
		paths []string
		mocks func(store *artifact_mock.Store)
	}{
		{
			name:  "deletes scheduled path",
			paths: []string{"images/a.png"},
			mocks: func(store *artifact_mock.Store) {
				store.On("Delete", mock.Anything, "images/a.png").Return(nil).Once()
			},
		},
		{
			name:  "normalises windows separators",
			paths: []string{"images\\b.png"},
			mocks: func(store *artifact_mock.Store) {
				store.On("Delete", mock.Anything, "images/b.png").Return(nil).Once()
			},
		},
		{
			name:  "ignores empty path and unchanged marker",
			paths: []string{"", "  ", model.ImageUnchanged},
			mocks: func(store *artifact_mock.Store) {},
		},
		{
			name:  "store failure is swallowed",
			paths: []string{"images/c.png"},
			mocks: func(store *artifact_mock.Store) {
				store.On("Delete", mock.Anything, "images/c.png").Return(errors.New("disk on fire")).Once()
			},
		},
		{
			name:  "missing file is swallowed",
			paths: []string{"images/d.png"},
			mocks: func(store *artifact_mock.Store) {
				store.On("Delete", mock.Anything, "images/d.png").Return(custom_errors.ErrArtifactNotFound).Once()
			},
		},
		{
			name:  "several deletions run to completion",
			paths: []string{"images/1.png", "images/2.png", "images/3.png"},
			mocks: func(store *artifact_mock.Store) {
				store.On("Delete", mock.Anything, "images/1.png").Return(nil).Once()
				store.On("Delete", mock.Anything, "images/2.png").Return(nil).Once()
				store.On("Delete", mock.Anything, "images/3.png").Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := artifact_mock.NewStore(t)
			tt.mocks(store)
			lifecycle := artifact_service.NewLifecycle(store, log, metrics)

			for _, p := range tt.paths {
				lifecycle.ScheduleDeletion(p)
			}
			lifecycle.Close()
		})
	}
}
