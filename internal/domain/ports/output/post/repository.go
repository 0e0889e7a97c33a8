package post_repository

import (
	"context"

	model "feed-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostRepository.go
type Repository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error)
	// ImageInUse reports whether a post other than exceptID references imageURL.
	ImageInUse(ctx context.Context, imageURL string, exceptID string) (bool, error)
}
