package delivery_graphql

import (
	"context"
	"time"

	"github.com/graph-gophers/graphql-go"

	model "feed-service/internal/domain/models"
	post_service "feed-service/internal/domain/ports/input/post"
)

// isoTime matches the millisecond ISO-8601 form clients already parse.
const isoTime = "2006-01-02T15:04:05.000Z07:00"

type postResolver struct {
	post    *model.Post
	creator *model.Creator
}

func newPostResolver(p *model.PostDetailed) *postResolver {
	return &postResolver{post: p.Post, creator: p.Creator}
}

func (r *postResolver) ID() graphql.ID {
	return graphql.ID(r.post.ID)
}

func (r *postResolver) Title() string {
	return r.post.Title
}

func (r *postResolver) Content() string {
	return r.post.Content
}

func (r *postResolver) ImageURL() string {
	return r.post.ImageURL
}

func (r *postResolver) Creator() *creatorResolver {
	if r.creator == nil {
		return nil
	}
	return &creatorResolver{creator: r.creator}
}

func (r *postResolver) CreatedAt() string {
	return formatTime(r.post.CreatedAt)
}

func (r *postResolver) UpdatedAt() string {
	return formatTime(r.post.UpdatedAt)
}

type creatorResolver struct {
	creator *model.Creator
}

func (r *creatorResolver) ID() graphql.ID {
	return graphql.ID(r.creator.ID)
}

func (r *creatorResolver) Name() string {
	return r.creator.Name
}

type userResolver struct {
	user  *model.User
	posts post_service.Service
}

func (r *userResolver) ID() graphql.ID {
	return graphql.ID(r.user.ID)
}

func (r *userResolver) Name() string {
	return r.user.Name
}

func (r *userResolver) Email() string {
	return r.user.Email
}

func (r *userResolver) Status() string {
	return r.user.Status
}

// Posts resolves the user's posts lazily, only when the query selects them.
func (r *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts, err := r.posts.UserPosts(ctx, r.user)
	if err != nil {
		return nil, err
	}
	return toPostResolvers(posts), nil
}

type authDataResolver struct {
	result *model.AuthResult
}

func (r *authDataResolver) Token() string {
	return r.result.Token
}

func (r *authDataResolver) UserID() string {
	return r.result.UserID
}

type postDataResolver struct {
	page *model.PostPage
}

func (r *postDataResolver) Posts() []*postResolver {
	return toPostResolvers(r.page.Posts)
}

func (r *postDataResolver) TotalPosts() int32 {
	return int32(r.page.TotalItems)
}

func toPostResolvers(posts []*model.PostDetailed) []*postResolver {
	result := make([]*postResolver, 0, len(posts))
	for _, p := range posts {
		result = append(result, newPostResolver(p))
	}
	return result
}

func formatTime(t time.Time) string {
	return t.UTC().Format(isoTime)
}
