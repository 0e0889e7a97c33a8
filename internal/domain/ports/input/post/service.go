package post_service

import (
	"context"

	model "feed-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostService.go
type Service interface {
	CreatePost(ctx context.Context, rc model.RequestContext, post *model.CreatePostDTO) (*model.PostDetailed, error)
	GetPost(ctx context.Context, rc model.RequestContext, id string) (*model.PostDetailed, error)
	ListPosts(ctx context.Context, rc model.RequestContext, page int) (*model.PostPage, error)
	UpdatePost(ctx context.Context, rc model.RequestContext, id string, post *model.UpdatePostDTO) (*model.PostDetailed, error)
	DeletePost(ctx context.Context, rc model.RequestContext, id string) error
	UserPosts(ctx context.Context, user *model.User) ([]*model.PostDetailed, error)
}
