package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
)

const (
	postCacheKeyPrefix  = "post:"
	defaultPostCacheTTL = 30 * time.Minute
	// invalidationHoldoff is how long an invalidated key refuses new fills.
	invalidationHoldoff = 10 * time.Second
)

// PostCache is a read-through cache for single posts. DeletePost leaves a
// short-lived tombstone and SetPost only fills absent keys, so a reader that
// loaded a post before a write cannot put the old version back.

type PostCache struct {
	client *Client
	ttl    time.Duration
	log    ports.Logger
}

func NewPostCache(client *Client, ttl time.Duration, log ports.Logger) *PostCache {
	if ttl <= 0 {
		ttl = defaultPostCacheTTL
	}
	return &PostCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (p *PostCache) GetPost(ctx context.Context, postID string) (*model.PostDetailed, error) {
	var post model.PostDetailed
	err := p.client.Get(ctx, postKey(postID), &post)
	if err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			p.log.Debug("Post cache miss", slog.String("post_id", postID))
			return nil, custom_errors.ErrCacheMiss
		}
		p.log.Error("Failed to get post from cache",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get post from cache: %w", err)
	}
	if post.Post == nil {
		return nil, custom_errors.ErrCacheMiss
	}

	p.log.Debug("Post cache hit", slog.String("post_id", postID))
	return &post, nil
}

func (p *PostCache) SetPost(ctx context.Context, post *model.PostDetailed) error {
	if post == nil || post.Post == nil {
		return fmt.Errorf("post cannot be nil")
	}

	stored, err := p.client.SetNX(ctx, postKey(post.Post.ID), post, p.ttl)
	if err != nil {
		p.log.Error("Failed to set post cache",
			slog.String("post_id", post.Post.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to set post cache: %w", err)
	}
	if !stored {
		p.log.Debug("Post cache fill skipped", slog.String("post_id", post.Post.ID))
		return nil
	}

	p.log.Debug("Post cached successfully",
		slog.String("post_id", post.Post.ID),
		slog.Duration("ttl", p.ttl))
	return nil
}

// DeletePost replaces the entry with a tombstone that GetPost reports as a
// miss and that blocks SetPost until it expires.
func (p *PostCache) DeletePost(ctx context.Context, postID string) error {
	if err := p.client.Set(ctx, postKey(postID), model.PostDetailed{}, invalidationHoldoff); err != nil {
		p.log.Error("Failed to delete post from cache",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete post from cache: %w", err)
	}

	p.log.Debug("Post deleted from cache", slog.String("post_id", postID))
	return nil
}

func postKey(postID string) string {
	return postCacheKeyPrefix + postID
}
