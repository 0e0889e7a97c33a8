package cache

import (
	"context"

	model "feed-service/internal/domain/models"
)

//go:generate mockery --name PostCache --dir . --output ../../../../../mocks/cache --outpkg mocks --filename PostCache.go
type PostCache interface {
	GetPost(ctx context.Context, postID string) (*model.PostDetailed, error)
	SetPost(ctx context.Context, post *model.PostDetailed) error
	DeletePost(ctx context.Context, postID string) error
}
