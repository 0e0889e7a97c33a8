package user_service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	user_repository "feed-service/internal/domain/ports/output/user"
)

const (
	msgPleaseLogin = "Please login"
	msgNoUserFound = "No user found"
)

type UserService struct {
	users   user_repository.Repository
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewUserService(users user_repository.Repository, log ports.Logger, metrics ports.MetricsProvider) *UserService {
	return &UserService{users: users, log: log, metrics: metrics}
}

func (s *UserService) GetUser(ctx context.Context, rc model.RequestContext) (*model.User, error) {
	if !rc.IsAuthenticated() {
		return nil, custom_errors.New(msgPleaseLogin, http.StatusUnauthorized)
	}

	user, err := s.users.GetByID(ctx, rc.UserID())
	if err != nil {
		return nil, s.mapLookupError(rc.UserID(), err)
	}
	return user, nil
}

func (s *UserService) UpdateStatus(ctx context.Context, rc model.RequestContext, status string) (user *model.User, err error) {
	defer func() { s.metrics.IncrementAuthOperations("update_status", err == nil) }()

	if !rc.IsAuthenticated() {
		return nil, custom_errors.New(msgPleaseLogin, http.StatusUnauthorized)
	}

	user, err = s.users.UpdateStatus(ctx, rc.UserID(), status)
	if err != nil {
		return nil, s.mapLookupError(rc.UserID(), err)
	}
	return user, nil
}

func (s *UserService) mapLookupError(userID string, err error) error {
	if errors.Is(err, custom_errors.ErrUserNotFound) {
		s.log.Debug("User not found", slog.String("user_id", userID))
		return custom_errors.New(msgNoUserFound, http.StatusUnauthorized)
	}
	s.log.Error("Failed to load user", slog.String("user_id", userID), slog.String("error", err.Error()))
	return err
}
