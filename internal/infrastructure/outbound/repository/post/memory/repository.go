package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
)

type PostRepository struct {
	log   ports.Logger
	mu    sync.RWMutex
	posts map[string]*model.Post
	order []string
}

func NewPostRepository(log ports.Logger) *PostRepository {
	return &PostRepository{
		log:   log,
		posts: make(map[string]*model.Post),
	}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.log.Debug("Creating new post (memory impl)", slog.String("creator_id", post.CreatorID), slog.String("title", post.Title))

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().UTC()
	newPost := &model.Post{
		ID:        uuid.NewString(),
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		CreatorID: post.CreatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.posts[newPost.ID] = newPost
	p.order = append(p.order, newPost.ID)

	result := *newPost
	return &result, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	post, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.String("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	result := *post
	return &result, nil
}

// GetByIDs returns the posts in the order of ids, skipping unknown ones.
func (p *PostRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		if post, ok := p.posts[id]; ok {
			postCopy := *post
			result = append(result, &postCopy)
		}
	}
	return result, nil
}

// Update replaces the mutable fields of the stored post. CreatorID and
// CreatedAt are never taken from the argument.
func (p *PostRepository) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, exists := p.posts[post.ID]
	if !exists {
		return nil, custom_errors.ErrPostNotFound
	}

	stored.Title = post.Title
	stored.Content = post.Content
	stored.ImageURL = post.ImageURL
	stored.UpdatedAt = time.Now().UTC()

	result := *stored
	return &result, nil
}

func (p *PostRepository) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.posts[id]; !exists {
		return custom_errors.ErrPostNotFound
	}

	delete(p.posts, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

func (p *PostRepository) ImageInUse(ctx context.Context, imageURL string, exceptID string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for id, post := range p.posts {
		if id != exceptID && post.ImageURL == imageURL {
			return true, nil
		}
	}
	return false, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	p.log.Debug("Listing posts (memory impl)",
		slog.Any("limit", filters.Limit),
		slog.Any("offset", filters.Offset),
		slog.Bool("newest_first", filters.NewestFirst))

	p.mu.RLock()
	defer p.mu.RUnlock()

	ordered := make([]*model.Post, 0, len(p.order))
	for _, id := range p.order {
		ordered = append(ordered, p.posts[id])
	}
	if filters.NewestFirst {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	total := len(ordered)
	start := 0
	if filters.Offset != nil && *filters.Offset > 0 {
		start = *filters.Offset
	}
	if start > total {
		start = total
	}
	end := total
	if filters.Limit != nil && *filters.Limit >= 0 && start+*filters.Limit < total {
		end = start + *filters.Limit
	}

	result := make([]*model.Post, 0, end-start)
	for _, post := range ordered[start:end] {
		postCopy := *post
		result = append(result, &postCopy)
	}
	return result, total, nil
}
