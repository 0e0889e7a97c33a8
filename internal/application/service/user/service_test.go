package user_service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/metrics/prometheus"
	user_memory "feed-service/internal/infrastructure/outbound/repository/user/memory"
)

func TestUserService(t *testing.T) {
	log := logger.New("test")
	users := user_memory.NewUserRepository(log)
	service := NewUserService(users, log, prometheus.NewPrometheusMetricsProvider())

	alice, err := users.Create(context.Background(), &model.User{Email: "alice@example.com", Name: "Alice", Password: "digest"})
	require.NoError(t, err)
	aliceRC := model.Authenticated(model.Identity{UserID: alice.ID, Email: alice.Email})
	ghostRC := model.Authenticated(model.Identity{UserID: "ghost"})

	tests := []struct {
		name           string
		call           func() (*model.User, error)
		wantStatus     int
		wantMsg        string
		wantStatusText string
	}{
		{
			name:           "GetUser",
			call:           func() (*model.User, error) { return service.GetUser(context.Background(), aliceRC) },
			wantStatusText: model.DefaultUserStatus,
		},
		{
			name:       "GetUser anonymous",
			call:       func() (*model.User, error) { return service.GetUser(context.Background(), model.Anonymous()) },
			wantStatus: http.StatusUnauthorized,
			wantMsg:    msgPleaseLogin,
		},
		{
			name:       "GetUser for deleted identity",
			call:       func() (*model.User, error) { return service.GetUser(context.Background(), ghostRC) },
			wantStatus: http.StatusUnauthorized,
			wantMsg:    msgNoUserFound,
		},
		{
			name: "UpdateStatus",
			call: func() (*model.User, error) {
				return service.UpdateStatus(context.Background(), aliceRC, "Writing a novel")
			},
			wantStatusText: "Writing a novel",
		},
		{
			name: "UpdateStatus anonymous",
			call: func() (*model.User, error) {
				return service.UpdateStatus(context.Background(), model.Anonymous(), "x")
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    msgPleaseLogin,
		},
		{
			name: "UpdateStatus for deleted identity",
			call: func() (*model.User, error) {
				return service.UpdateStatus(context.Background(), ghostRC, "x")
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    msgNoUserFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call()
			if tt.wantStatus != 0 {
				fault := custom_errors.Normalize(err)
				assert.Equal(t, tt.wantStatus, fault.Status)
				assert.Equal(t, tt.wantMsg, fault.Message)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice.ID, got.ID)
			assert.Equal(t, tt.wantStatusText, got.Status)
		})
	}
}
