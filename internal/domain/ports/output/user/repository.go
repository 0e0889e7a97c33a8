package user_repository

import (
	"context"

	model "feed-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/user --outpkg mocks --filename UserRepository.go
type Repository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.User, error)
	// AppendPost adds postID at the end of the user's posts unless already present.
	AppendPost(ctx context.Context, userID string, postID string) error
	RemovePost(ctx context.Context, userID string, postID string) error
}
