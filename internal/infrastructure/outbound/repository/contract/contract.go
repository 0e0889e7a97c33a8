// Package contract holds the behaviour every post and user store must share.
// Each storage backend runs it from its own tests against a fresh store.
package contract

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	post_repository "feed-service/internal/domain/ports/output/post"
	user_repository "feed-service/internal/domain/ports/output/user"
)

type Stores struct {
	Posts post_repository.Repository
	Users user_repository.Repository
	UOW   ports.UnitOfWork
	// Transactional is set when Rollback discards writes made through the
	// transaction's repositories.
	Transactional bool
}

// Factory returns empty stores. It is called once per test group.
type Factory func(t *testing.T) Stores

func Run(t *testing.T, newStores Factory) {
	t.Run("users", func(t *testing.T) { runUsers(t, newStores(t)) })
	t.Run("posts", func(t *testing.T) { runPosts(t, newStores(t)) })
	t.Run("list", func(t *testing.T) { runList(t, newStores(t)) })
	t.Run("unit of work", func(t *testing.T) { runUnitOfWork(t, newStores(t)) })
}

func createUser(t *testing.T, users user_repository.Repository, email string) *model.User {
	t.Helper()
	user, err := users.Create(context.Background(), &model.User{
		Email:    email,
		Password: "digest",
		Name:     "Max",
	})
	require.NoError(t, err)
	return user
}

func createPost(t *testing.T, posts post_repository.Repository, creatorID, title string) *model.Post {
	t.Helper()
	post, err := posts.Create(context.Background(), &model.Post{
		Title:     title,
		Content:   "Some content",
		ImageURL:  "images/" + title + ".png",
		CreatorID: creatorID,
	})
	require.NoError(t, err)
	return post
}

func runUsers(t *testing.T, s Stores) {
	ctx := context.Background()
	created := createUser(t, s.Users, "Max@Example.com")

	t.Run("create fills defaults", func(t *testing.T) {
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "max@example.com", created.Email)
		assert.Equal(t, model.DefaultUserStatus, created.Status)
		assert.Empty(t, created.Posts)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("duplicate email ignores case", func(t *testing.T) {
		_, err := s.Users.Create(ctx, &model.User{Email: "MAX@example.com", Password: "digest", Name: "Other"})
		assert.ErrorIs(t, err, custom_errors.ErrUserExists)
	})

	t.Run("lookups", func(t *testing.T) {
		byID, err := s.Users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)
		assert.Equal(t, "digest", byID.Password)

		byEmail, err := s.Users.GetByEmail(ctx, "max@EXAMPLE.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		_, err = s.Users.GetByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)

		_, err = s.Users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
	})

	t.Run("update status", func(t *testing.T) {
		updated, err := s.Users.UpdateStatus(ctx, created.ID, "Busy")
		require.NoError(t, err)
		assert.Equal(t, "Busy", updated.Status)

		_, err = s.Users.UpdateStatus(ctx, "does-not-exist", "Busy")
		assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
	})

	t.Run("post collection", func(t *testing.T) {
		first := createPost(t, s.Posts, created.ID, "first")
		second := createPost(t, s.Posts, created.ID, "second")

		require.NoError(t, s.Users.AppendPost(ctx, created.ID, first.ID))
		require.NoError(t, s.Users.AppendPost(ctx, created.ID, second.ID))
		require.NoError(t, s.Users.AppendPost(ctx, created.ID, first.ID))

		user, err := s.Users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{first.ID, second.ID}, user.Posts)

		require.NoError(t, s.Users.RemovePost(ctx, created.ID, first.ID))
		user, err = s.Users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{second.ID}, user.Posts)

		assert.ErrorIs(t, s.Users.AppendPost(ctx, "does-not-exist", second.ID), custom_errors.ErrUserNotFound)
		assert.ErrorIs(t, s.Users.RemovePost(ctx, "does-not-exist", second.ID), custom_errors.ErrUserNotFound)
	})
}

func runPosts(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := createUser(t, s.Users, "owner@example.com")
	post := createPost(t, s.Posts, owner.ID, "hello")

	t.Run("create assigns identity", func(t *testing.T) {
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, owner.ID, post.CreatorID)
		assert.Equal(t, "images/hello.png", post.ImageURL)
		assert.False(t, post.CreatedAt.IsZero())
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := s.Posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Title, got.Title)
		assert.Equal(t, post.CreatorID, got.CreatorID)

		_, err = s.Posts.GetByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
	})

	t.Run("get by ids keeps argument order", func(t *testing.T) {
		other := createPost(t, s.Posts, owner.ID, "other")

		got, err := s.Posts.GetByIDs(ctx, []string{other.ID, "does-not-exist", post.ID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, other.ID, got[0].ID)
		assert.Equal(t, post.ID, got[1].ID)

		empty, err := s.Posts.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("image in use ignores the excepted post", func(t *testing.T) {
		inUse, err := s.Posts.ImageInUse(ctx, "images/hello.png", "")
		require.NoError(t, err)
		assert.True(t, inUse)

		inUse, err = s.Posts.ImageInUse(ctx, "images/hello.png", post.ID)
		require.NoError(t, err)
		assert.False(t, inUse)

		inUse, err = s.Posts.ImageInUse(ctx, "images/nobody.png", "")
		require.NoError(t, err)
		assert.False(t, inUse)
	})

	t.Run("update replaces mutable fields only", func(t *testing.T) {
		updated, err := s.Posts.Update(ctx, &model.Post{
			ID:        post.ID,
			Title:     "Changed",
			Content:   "Changed content",
			ImageURL:  "images/changed.png",
			CreatorID: "someone-else",
		})
		require.NoError(t, err)
		assert.Equal(t, "Changed", updated.Title)
		assert.Equal(t, "Changed content", updated.Content)
		assert.Equal(t, "images/changed.png", updated.ImageURL)
		assert.Equal(t, owner.ID, updated.CreatorID)
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

		_, err = s.Posts.Update(ctx, &model.Post{ID: "does-not-exist", Title: "x"})
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		victim := createPost(t, s.Posts, owner.ID, "victim")

		require.NoError(t, s.Posts.Delete(ctx, victim.ID))
		_, err := s.Posts.GetByID(ctx, victim.ID)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)

		assert.ErrorIs(t, s.Posts.Delete(ctx, victim.ID), custom_errors.ErrPostNotFound)
	})
}

func runList(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := createUser(t, s.Users, "lister@example.com")

	ids := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		ids = append(ids, createPost(t, s.Posts, owner.ID, fmt.Sprintf("post-%d", i)).ID)
	}
	reversed := []string{ids[4], ids[3], ids[2], ids[1], ids[0]}

	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name    string
		filters model.PostFilters
		want    []string
	}{
		{
			name:    "all in insertion order",
			filters: model.PostFilters{},
			want:    ids,
		},
		{
			name:    "first page",
			filters: model.PostFilters{Limit: intPtr(2), Offset: intPtr(0)},
			want:    ids[0:2],
		},
		{
			name:    "last partial page",
			filters: model.PostFilters{Limit: intPtr(2), Offset: intPtr(4)},
			want:    ids[4:5],
		},
		{
			name:    "offset past the end",
			filters: model.PostFilters{Limit: intPtr(2), Offset: intPtr(10)},
			want:    []string{},
		},
		{
			name:    "newest first",
			filters: model.PostFilters{Limit: intPtr(2), Offset: intPtr(0), NewestFirst: true},
			want:    reversed[0:2],
		},
		{
			name:    "newest first second page",
			filters: model.PostFilters{Limit: intPtr(2), Offset: intPtr(2), NewestFirst: true},
			want:    reversed[2:4],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, total, err := s.Posts.List(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, 5, total)

			got := make([]string, 0, len(posts))
			for _, p := range posts {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func runUnitOfWork(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := createUser(t, s.Users, "writer@example.com")

	t.Run("commit makes writes visible", func(t *testing.T) {
		tx, err := s.UOW.Begin(ctx)
		require.NoError(t, err)

		post := createPost(t, tx.PostRepository(), owner.ID, "committed")
		require.NoError(t, tx.UserRepository().AppendPost(ctx, owner.ID, post.ID))
		require.NoError(t, tx.Commit(ctx))

		got, err := s.Posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "committed", got.Title)

		user, err := s.Users.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Contains(t, user.Posts, post.ID)
	})

	t.Run("rollback", func(t *testing.T) {
		tx, err := s.UOW.Begin(ctx)
		require.NoError(t, err)

		post := createPost(t, tx.PostRepository(), owner.ID, "discarded")
		require.NoError(t, tx.Rollback(ctx))

		_, err = s.Posts.GetByID(ctx, post.ID)
		if s.Transactional {
			assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
		} else {
			assert.NoError(t, err)
		}
	})
}
