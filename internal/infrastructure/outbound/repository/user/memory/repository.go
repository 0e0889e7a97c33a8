package memory

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
)

type UserRepository struct {
	log     ports.Logger
	mu      sync.RWMutex
	users   map[string]*model.User
	byEmail map[string]string
}

func NewUserRepository(log ports.Logger) *UserRepository {
	return &UserRepository{
		log:     log,
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		r.log.Debug("User already exists (memory impl)", slog.String("email", email))
		return nil, custom_errors.ErrUserExists
	}

	status := user.Status
	if status == "" {
		status = model.DefaultUserStatus
	}
	now := time.Now().UTC()
	newUser := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  user.Password,
		Name:      user.Name,
		Status:    status,
		Posts:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users[newUser.ID] = newUser
	r.byEmail[email] = newUser.ID

	return copyUser(newUser), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, custom_errors.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[strings.ToLower(email)]
	if !exists {
		return nil, custom_errors.ErrUserNotFound
	}
	return copyUser(r.users[id]), nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return nil, custom_errors.ErrUserNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	return copyUser(user), nil
}

func (r *UserRepository) AppendPost(ctx context.Context, userID string, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		return custom_errors.ErrUserNotFound
	}
	if !slices.Contains(user.Posts, postID) {
		user.Posts = append(user.Posts, postID)
		user.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *UserRepository) RemovePost(ctx context.Context, userID string, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		return custom_errors.ErrUserNotFound
	}
	user.Posts = slices.DeleteFunc(user.Posts, func(id string) bool { return id == postID })
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func copyUser(u *model.User) *model.User {
	result := *u
	result.Posts = slices.Clone(u.Posts)
	return &result
}
