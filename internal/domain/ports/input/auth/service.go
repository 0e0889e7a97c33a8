package auth_service

import (
	"context"

	model "feed-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/auth --outpkg mocks --filename AuthService.go
type Service interface {
	Signup(ctx context.Context, dto *model.SignupDTO) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
}
