package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

const postColumns = `id, title, content, image_url, creator_id, created_at, updated_at`

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.String("creator_id", post.CreatorID), slog.String("title", post.Title))

	now := time.Now().UTC()
	args := pgx.NamedArgs{
		"id":         uuid.NewString(),
		"title":      post.Title,
		"content":    post.Content,
		"image_url":  post.ImageURL,
		"creator_id": post.CreatorID,
		"created_at": now,
		"updated_at": now,
	}
	query := `
		INSERT INTO posts (id, title, content, image_url, creator_id, created_at, updated_at)
		VALUES (@id, @title, @content, @image_url, @creator_id, @created_at, @updated_at)
		RETURNING ` + postColumns

	created, err := scanPost(p.db.QueryRow(ctx, query, args))
	p.observe("post_create", start, err == nil)
	if err != nil {
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.log.Debug("Successfully created post", slog.String("id", created.ID), slog.String("creator_id", created.CreatorID))
	return created, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Getting post by ID", slog.String("id", id))

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = @id`
	post, err := scanPost(p.db.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	p.observe("post_get_by_id", start, err == nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return post, nil
}

func (p *PostRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	start := time.Now()
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ANY(@ids)`
	found, err := p.queryPosts(ctx, query, pgx.NamedArgs{"ids": ids})
	p.observe("post_get_by_ids", start, err == nil)
	if err != nil {
		p.log.Error("Error getting posts by ids", slog.Int("count", len(ids)), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	byID := make(map[string]*model.Post, len(found))
	for _, post := range found {
		byID[post.ID] = post
	}
	result := make([]*model.Post, 0, len(found))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			result = append(result, post)
		}
	}
	return result, nil
}

func (p *PostRepository) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Updating post", slog.String("id", post.ID))

	args := pgx.NamedArgs{
		"id":         post.ID,
		"title":      post.Title,
		"content":    post.Content,
		"image_url":  post.ImageURL,
		"updated_at": time.Now().UTC(),
	}
	query := `
		UPDATE posts
		SET title = @title, content = @content, image_url = @image_url, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + postColumns

	updated, err := scanPost(p.db.QueryRow(ctx, query, args))
	p.observe("post_update", start, err == nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found for update", slog.String("id", post.ID))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.String("id", post.ID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return updated, nil
}

func (p *PostRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	p.log.Debug("Deleting post", slog.String("id", id))

	tag, err := p.db.Exec(ctx, `DELETE FROM posts WHERE id = @id`, pgx.NamedArgs{"id": id})
	p.observe("post_delete", start, err == nil)
	if err != nil {
		p.log.Error("Error deleting post", slog.String("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return custom_errors.ErrPostNotFound
	}
	return nil
}

// List pages through posts. Without NewestFirst the order is insertion order.
func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	start := time.Now()
	p.log.Debug("Listing posts",
		slog.Any("limit", filters.Limit),
		slog.Any("offset", filters.Offset),
		slog.Bool("newest_first", filters.NewestFirst))

	var total int
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		p.observe("post_count", start, false)
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	orderBy := "seq ASC"
	if filters.NewestFirst {
		orderBy = "created_at DESC, seq DESC"
	}
	args := pgx.NamedArgs{"limit": filters.Limit, "offset": 0}
	if filters.Offset != nil {
		args["offset"] = *filters.Offset
	}
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY ` + orderBy + ` LIMIT @limit OFFSET @offset`

	posts, err := p.queryPosts(ctx, query, args)
	p.observe("post_list", start, err == nil)
	if err != nil {
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	return posts, total, nil
}

func (p *PostRepository) ImageInUse(ctx context.Context, imageURL string, exceptID string) (bool, error) {
	start := time.Now()

	var inUse bool
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE image_url = @image_url AND id <> @except_id)`
	err := p.db.QueryRow(ctx, query, pgx.NamedArgs{"image_url": imageURL, "except_id": exceptID}).Scan(&inUse)
	p.observe("post_image_in_use", start, err == nil)
	if err != nil {
		p.log.Error("Error checking image usage", slog.String("image_url", imageURL), slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}
	return inUse, nil
}

func (p *PostRepository) queryPosts(ctx context.Context, query string, args pgx.NamedArgs) ([]*model.Post, error) {
	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.ImageURL,
		&post.CreatorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
