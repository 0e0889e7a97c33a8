package delivery_graphql

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"feed-service/internal/application/identity"
	model "feed-service/internal/domain/models"
	auth_service "feed-service/internal/domain/ports/input/auth"
	post_service "feed-service/internal/domain/ports/input/post"
	user_service "feed-service/internal/domain/ports/input/user"
	ports "feed-service/internal/domain/ports/output"
)

// Resolver is the root for both queries and mutations. The caller identity
// is read from the request context set by the HTTP identity middleware.
type Resolver struct {
	posts post_service.Service
	auth  auth_service.Service
	users user_service.Service
	log   ports.Logger
}

func NewResolver(posts post_service.Service, auth auth_service.Service, users user_service.Service, log ports.Logger) *Resolver {
	return &Resolver{posts: posts, auth: auth, users: users, log: log}
}

type userInputData struct {
	Email    string
	Name     string
	Password string
}

type postInputData struct {
	Title    string
	Content  string
	ImageURL string
}

func (r *Resolver) Posts(ctx context.Context, args struct{ Page *int32 }) (*postDataResolver, error) {
	page := 1
	if args.Page != nil {
		page = int(*args.Page)
	}
	result, err := r.posts.ListPosts(ctx, identity.FromContext(ctx), page)
	if err != nil {
		return nil, err
	}
	return &postDataResolver{page: result}, nil
}

func (r *Resolver) Post(ctx context.Context, args struct{ ID graphql.ID }) (*postResolver, error) {
	post, err := r.posts.GetPost(ctx, identity.FromContext(ctx), string(args.ID))
	if err != nil {
		return nil, err
	}
	return newPostResolver(post), nil
}

func (r *Resolver) User(ctx context.Context) (*userResolver, error) {
	user, err := r.users.GetUser(ctx, identity.FromContext(ctx))
	if err != nil {
		return nil, err
	}
	return &userResolver{user: user, posts: r.posts}, nil
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ UserInput userInputData }) (*userResolver, error) {
	user, err := r.auth.Signup(ctx, &model.SignupDTO{
		Email:    args.UserInput.Email,
		Name:     args.UserInput.Name,
		Password: args.UserInput.Password,
	})
	if err != nil {
		return nil, err
	}
	return &userResolver{user: user, posts: r.posts}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*authDataResolver, error) {
	result, err := r.auth.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, err
	}
	return &authDataResolver{result: result}, nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ PostInput postInputData }) (*postResolver, error) {
	created, err := r.posts.CreatePost(ctx, identity.FromContext(ctx), &model.CreatePostDTO{
		Title:    args.PostInput.Title,
		Content:  args.PostInput.Content,
		ImageURL: args.PostInput.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	return newPostResolver(created), nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	ID        graphql.ID
	PostInput postInputData
}) (*postResolver, error) {
	updated, err := r.posts.UpdatePost(ctx, identity.FromContext(ctx), string(args.ID), &model.UpdatePostDTO{
		Title:    args.PostInput.Title,
		Content:  args.PostInput.Content,
		ImageURL: args.PostInput.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	return newPostResolver(updated), nil
}

func (r *Resolver) DeletePost(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	if err := r.posts.DeletePost(ctx, identity.FromContext(ctx), string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) UpdateStatus(ctx context.Context, args struct{ Status string }) (*userResolver, error) {
	user, err := r.users.UpdateStatus(ctx, identity.FromContext(ctx), args.Status)
	if err != nil {
		return nil, err
	}
	return &userResolver{user: user, posts: r.posts}, nil
}
