package user_service

import (
	"context"

	model "feed-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/user --outpkg mocks --filename UserService.go
type Service interface {
	GetUser(ctx context.Context, rc model.RequestContext) (*model.User, error)
	UpdateStatus(ctx context.Context, rc model.RequestContext, status string) (*model.User, error)
}
