package user_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

const (
	userColumns        = `id, email, password, name, status, posts, created_at, updated_at`
	uniqueViolationSQL = "23505"
)

type UserRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewUserRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()

	status := user.Status
	if status == "" {
		status = model.DefaultUserStatus
	}
	now := time.Now().UTC()
	args := pgx.NamedArgs{
		"id":         uuid.NewString(),
		"email":      strings.ToLower(user.Email),
		"password":   user.Password,
		"name":       user.Name,
		"status":     status,
		"created_at": now,
		"updated_at": now,
	}
	query := `
		INSERT INTO users (id, email, password, name, status, posts, created_at, updated_at)
		VALUES (@id, @email, @password, @name, @status, '{}', @created_at, @updated_at)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query, args))
	r.observe("user_create", start, err == nil)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL {
			r.log.Debug("User already exists", slog.String("email", user.Email))
			return nil, custom_errors.ErrUserExists
		}
		r.log.Error("Error creating user", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_id", `SELECT `+userColumns+` FROM users WHERE id = @value`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_email", `SELECT `+userColumns+` FROM users WHERE email = @value`, strings.ToLower(email))
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status string) (*model.User, error) {
	start := time.Now()
	query := `
		UPDATE users SET status = @status, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, pgx.NamedArgs{
		"id":         id,
		"status":     status,
		"updated_at": time.Now().UTC(),
	}))
	r.observe("user_update_status", start, err == nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error updating user status", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return user, nil
}

func (r *UserRepository) AppendPost(ctx context.Context, userID string, postID string) error {
	query := `
		UPDATE users
		SET posts = CASE WHEN @post_id = ANY(posts) THEN posts ELSE array_append(posts, @post_id) END,
		    updated_at = @updated_at
		WHERE id = @id`
	return r.execOnUser(ctx, "user_append_post", query, userID, postID)
}

func (r *UserRepository) RemovePost(ctx context.Context, userID string, postID string) error {
	query := `
		UPDATE users
		SET posts = array_remove(posts, @post_id), updated_at = @updated_at
		WHERE id = @id`
	return r.execOnUser(ctx, "user_remove_post", query, userID, postID)
}

func (r *UserRepository) getOne(ctx context.Context, queryType, query, value string) (*model.User, error) {
	start := time.Now()
	user, err := scanUser(r.db.QueryRow(ctx, query, pgx.NamedArgs{"value": value}))
	r.observe(queryType, start, err == nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error getting user", slog.String("query", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return user, nil
}

func (r *UserRepository) execOnUser(ctx context.Context, queryType, query, userID, postID string) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, query, pgx.NamedArgs{
		"id":         userID,
		"post_id":    postID,
		"updated_at": time.Now().UTC(),
	})
	r.observe(queryType, start, err == nil)
	if err != nil {
		r.log.Error("Error updating user posts",
			slog.String("query", queryType),
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return custom_errors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) observe(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Name,
		&user.Status,
		&user.Posts,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
