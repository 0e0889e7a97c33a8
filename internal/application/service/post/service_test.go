package post_service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	"feed-service/internal/domain/ports/output/cache"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/artifact/fs"
	"feed-service/internal/infrastructure/outbound/metrics/prometheus"
	memory_uow "feed-service/internal/infrastructure/outbound/repository/memory"
	post_memory "feed-service/internal/infrastructure/outbound/repository/post/memory"
	user_memory "feed-service/internal/infrastructure/outbound/repository/user/memory"
	artifact_mock "feed-service/mocks/artifact"
	cache_mock "feed-service/mocks/cache"
	post_repository_mock "feed-service/mocks/post"
	uow_mock "feed-service/mocks/uow"
	user_repository_mock "feed-service/mocks/user"
)

type fixture struct {
	posts     *post_memory.PostRepository
	users     *user_memory.UserRepository
	files     afero.Fs
	scheduler *artifact_mock.Scheduler
	service   *PostService
}

func newFixture(t *testing.T, policy Policy, postCache cache.PostCache) *fixture {
	t.Helper()
	log := logger.New("test")
	posts := post_memory.NewPostRepository(log)
	users := user_memory.NewUserRepository(log)
	files := afero.NewMemMapFs()
	images, err := fs.NewStore(files, "images", log)
	require.NoError(t, err)
	scheduler := artifact_mock.NewScheduler(t)
	service := NewPostService(
		posts,
		users,
		memory_uow.NewUnitOfWork(posts, users),
		scheduler,
		images,
		postCache,
		policy,
		log,
		prometheus.NewPrometheusMetricsProvider(),
	)

	f := &fixture{posts: posts, users: users, files: files, scheduler: scheduler, service: service}
	f.addImage(t, "images/a.png")
	f.addImage(t, "images/b.png")
	return f
}

func (f *fixture) addImage(t *testing.T, ref string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.files, ref, []byte("png"), 0o644))
}

func (f *fixture) seedUser(t *testing.T, email string) (*model.User, model.RequestContext) {
	t.Helper()
	user, err := f.users.Create(context.Background(), &model.User{Email: email, Name: "name of " + email, Password: "digest"})
	require.NoError(t, err)
	return user, model.Authenticated(model.Identity{UserID: user.ID, Email: user.Email})
}

func (f *fixture) seedPost(t *testing.T, rc model.RequestContext, title, image string) *model.Post {
	t.Helper()
	if image != "" {
		f.addImage(t, image)
	}
	created, err := f.service.CreatePost(context.Background(), rc, &model.CreatePostDTO{
		Title:    title,
		Content:  "some content",
		ImageURL: image,
	})
	require.NoError(t, err)
	return created.Post
}

func assertFault(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	fault := custom_errors.Normalize(err)
	assert.Equal(t, status, fault.Status)
	assert.Equal(t, message, fault.Message)
}

func TestPostService_CreatePost(t *testing.T) {
	tests := []struct {
		name      string
		anonymous bool
		dropOwner bool
		dto       *model.CreatePostDTO
		wantData  []custom_errors.FieldMessage
		wantErr   error
	}{
		{
			name: "Success",
			dto:  &model.CreatePostDTO{Title: "First post", Content: "Hello world", ImageURL: "images/a.png"},
		},
		{
			name:      "Anonymous request",
			anonymous: true,
			dto:       &model.CreatePostDTO{Title: "First post", Content: "Hello world"},
			wantErr:   custom_errors.New(msgPleaseLogin, http.StatusUnauthorized),
		},
		{
			name:     "Short title only reports title",
			dto:      &model.CreatePostDTO{Title: "abcd", Content: "0123456789"},
			wantData: []custom_errors.FieldMessage{{Msg: msgTitleTooShort}},
		},
		{
			name:     "Every failing field is reported",
			dto:      &model.CreatePostDTO{Title: "", Content: "abc"},
			wantData: []custom_errors.FieldMessage{{Msg: msgTitleTooShort}, {Msg: msgContentTooShort}},
		},
		{
			name:      "Owner no longer exists",
			dropOwner: true,
			dto:       &model.CreatePostDTO{Title: "First post", Content: "Hello world", ImageURL: "images/a.png"},
			wantErr:   custom_errors.New(msgPleaseLogin, http.StatusUnauthorized),
		},
		{
			name:    "Missing image",
			dto:     &model.CreatePostDTO{Title: "First post", Content: "Hello world", ImageURL: "  "},
			wantErr: custom_errors.New(msgNoImageProvided, http.StatusUnprocessableEntity),
		},
		{
			name:     "Validation is reported before the missing image",
			dto:      &model.CreatePostDTO{Title: "abc", Content: "Hello world"},
			wantData: []custom_errors.FieldMessage{{Msg: msgTitleTooShort}},
		},
		{
			name: "Surrounding spaces count toward the length",
			dto:  &model.CreatePostDTO{Title: "    abcd", Content: "  abc", ImageURL: "images/a.png"},
		},
		{
			name:    "Image without a stored file",
			dto:     &model.CreatePostDTO{Title: "First post", Content: "Hello world", ImageURL: "images/does-not-exist.png"},
			wantErr: custom_errors.New(msgImageNotFound, http.StatusUnprocessableEntity),
		},
		{
			name:    "Image outside the images directory",
			dto:     &model.CreatePostDTO{Title: "First post", Content: "Hello world", ImageURL: "../config/config.yaml"},
			wantErr: custom_errors.New(msgImageNotFound, http.StatusUnprocessableEntity),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, RESTPolicy(), nil)
			owner, rc := f.seedUser(t, "owner@example.com")
			if tt.anonymous {
				rc = model.Anonymous()
			}
			if tt.dropOwner {
				rc = model.Authenticated(model.Identity{UserID: "ghost"})
			}

			got, err := f.service.CreatePost(context.Background(), rc, tt.dto)

			switch {
			case tt.wantData != nil:
				var validationErr *custom_errors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.wantData, validationErr.Data())
				assert.Nil(t, got)
			case tt.wantErr != nil:
				assert.Equal(t, custom_errors.Normalize(tt.wantErr), custom_errors.Normalize(err))
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, got.Post.ID)
				assert.Equal(t, owner.ID, got.Post.CreatorID)
				assert.Equal(t, tt.dto.ImageURL, got.Post.ImageURL)
				assert.Equal(t, &model.Creator{ID: owner.ID, Name: owner.Name}, got.Creator)

				stored, err := f.users.GetByID(context.Background(), owner.ID)
				require.NoError(t, err)
				assert.Equal(t, []string{got.Post.ID}, stored.Posts)
				return
			}

			_, total, listErr := f.posts.List(context.Background(), model.PostFilters{})
			require.NoError(t, listErr)
			assert.Zero(t, total)
		})
	}
}

func TestPostService_CreatePostImageOwnership(t *testing.T) {
	f := newFixture(t, RESTPolicy(), nil)
	_, aliceRC := f.seedUser(t, "alice@example.com")
	_, bobRC := f.seedUser(t, "bob@example.com")
	alicePost := f.seedPost(t, aliceRC, "Alice's post", "images/alice.png")

	got, err := f.service.CreatePost(context.Background(), bobRC, &model.CreatePostDTO{
		Title:    "Bob's post",
		Content:  "Hello world",
		ImageURL: alicePost.ImageURL,
	})
	assertFault(t, err, http.StatusUnprocessableEntity, msgImageInUse)
	assert.Nil(t, got)

	_, total, err := f.posts.List(context.Background(), model.PostFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	exists, err := afero.Exists(f.files, alicePost.ImageURL)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostService_GetPost(t *testing.T) {
	tests := []struct {
		name       string
		policy     Policy
		anonymous  bool
		missing    bool
		wantStatus int
		wantMsg    string
	}{
		{name: "REST allows anonymous read", policy: RESTPolicy(), anonymous: true},
		{name: "GraphQL read with identity", policy: GraphQLPolicy()},
		{
			name: "GraphQL rejects anonymous read", policy: GraphQLPolicy(), anonymous: true,
			wantStatus: http.StatusUnauthorized, wantMsg: msgPleaseLogin,
		},
		{
			name: "REST missing post", policy: RESTPolicy(), missing: true,
			wantStatus: http.StatusNotFound, wantMsg: restNotFoundMessage,
		},
		{
			name: "GraphQL missing post", policy: GraphQLPolicy(), missing: true,
			wantStatus: http.StatusUnauthorized, wantMsg: gqlNotFoundMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.policy, nil)
			owner, rc := f.seedUser(t, "owner@example.com")
			post := f.seedPost(t, rc, "Readable post", "images/a.png")

			id := post.ID
			if tt.missing {
				id = "does-not-exist"
			}
			if tt.anonymous {
				rc = model.Anonymous()
			}

			got, err := f.service.GetPost(context.Background(), rc, id)
			if tt.wantStatus != 0 {
				assertFault(t, err, tt.wantStatus, tt.wantMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, post.ID, got.Post.ID)
			assert.Equal(t, owner.Name, got.Creator.Name)
		})
	}
}

func TestPostService_ListPosts(t *testing.T) {
	tests := []struct {
		name       string
		policy     Policy
		page       int
		wantTitles []string
	}{
		{name: "first page natural order", policy: RESTPolicy(), page: 1, wantTitles: []string{"Post number 1", "Post number 2"}},
		{name: "last page holds the remainder", policy: RESTPolicy(), page: 3, wantTitles: []string{"Post number 5"}},
		{name: "page below one is the first page", policy: RESTPolicy(), page: 0, wantTitles: []string{"Post number 1", "Post number 2"}},
		{name: "page past the end is empty", policy: RESTPolicy(), page: 4, wantTitles: []string{}},
		{name: "GraphQL lists newest first", policy: GraphQLPolicy(), page: 1, wantTitles: []string{"Post number 5", "Post number 4"}},
		{name: "GraphQL last page", policy: GraphQLPolicy(), page: 3, wantTitles: []string{"Post number 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.policy, nil)
			owner, rc := f.seedUser(t, "owner@example.com")
			for i := 1; i <= 5; i++ {
				f.seedPost(t, rc, fmt.Sprintf("Post number %d", i), fmt.Sprintf("images/%d.png", i))
			}

			page, err := f.service.ListPosts(context.Background(), rc, tt.page)
			require.NoError(t, err)

			assert.Equal(t, 5, page.TotalItems)
			titles := make([]string, 0, len(page.Posts))
			for _, p := range page.Posts {
				titles = append(titles, p.Post.Title)
				assert.Equal(t, owner.ID, p.Creator.ID)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}

	t.Run("GraphQL rejects anonymous listing", func(t *testing.T) {
		f := newFixture(t, GraphQLPolicy(), nil)
		_, err := f.service.ListPosts(context.Background(), model.Anonymous(), 1)
		assertFault(t, err, http.StatusUnauthorized, msgPleaseLogin)
	})

	t.Run("REST allows anonymous listing", func(t *testing.T) {
		f := newFixture(t, RESTPolicy(), nil)
		page, err := f.service.ListPosts(context.Background(), model.Anonymous(), 1)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Zero(t, page.TotalItems)
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	tests := []struct {
		name        string
		policy      Policy
		asStranger  bool
		anonymous   bool
		dto         model.UpdatePostDTO
		mocks       func(scheduler *artifact_mock.Scheduler)
		wantImage   string
		wantStatus  int
		wantMessage string
	}{
		{
			name:   "New image retires the old one",
			policy: RESTPolicy(),
			dto:    model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ImageURL: "images/b.png"},
			mocks: func(scheduler *artifact_mock.Scheduler) {
				scheduler.On("ScheduleDeletion", "images/a.png").Once()
			},
			wantImage: "images/b.png",
		},
		{
			name:      "Unchanged marker keeps the image",
			policy:    GraphQLPolicy(),
			dto:       model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ImageURL: model.ImageUnchanged},
			mocks:     func(scheduler *artifact_mock.Scheduler) {},
			wantImage: "images/a.png",
		},
		{
			name:      "Same image schedules nothing",
			policy:    RESTPolicy(),
			dto:       model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ImageURL: "images/a.png"},
			mocks:     func(scheduler *artifact_mock.Scheduler) {},
			wantImage: "images/a.png",
		},
		{
			name:        "Empty image is rejected",
			policy:      RESTPolicy(),
			dto:         model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ImageURL: ""},
			mocks:       func(scheduler *artifact_mock.Scheduler) {},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: msgNoFileAdded,
		},
		{
			name:        "Image without a stored file keeps the old one",
			policy:      RESTPolicy(),
			dto:         model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ImageURL: "images/does-not-exist.png"},
			mocks:       func(scheduler *artifact_mock.Scheduler) {},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: msgImageNotFound,
		},
		{
			name:        "Invalid fields",
			policy:      RESTPolicy(),
			dto:         model.UpdatePostDTO{Title: "abc", Content: "Edited content", ImageURL: "images/b.png"},
			mocks:       func(scheduler *artifact_mock.Scheduler) {},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Validation Failed",
		},
		{
			name:        "REST non-owner",
			policy:      RESTPolicy(),
			asStranger:  true,
			dto:         model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ImageURL: "images/b.png"},
			mocks:       func(scheduler *artifact_mock.Scheduler) {},
			wantStatus:  http.StatusForbidden,
			wantMessage: restOwnershipMessage,
		},
		{
			name:        "GraphQL non-owner",
			policy:      GraphQLPolicy(),
			asStranger:  true,
			dto:         model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ImageURL: "images/b.png"},
			mocks:       func(scheduler *artifact_mock.Scheduler) {},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: gqlOwnershipMessage,
		},
		{
			name:        "Anonymous request",
			policy:      RESTPolicy(),
			anonymous:   true,
			dto:         model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ImageURL: "images/b.png"},
			mocks:       func(scheduler *artifact_mock.Scheduler) {},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: msgPleaseLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.policy, nil)
			_, ownerRC := f.seedUser(t, "owner@example.com")
			_, strangerRC := f.seedUser(t, "stranger@example.com")
			post := f.seedPost(t, ownerRC, "Original title", "images/a.png")
			tt.mocks(f.scheduler)

			rc := ownerRC
			if tt.asStranger {
				rc = strangerRC
			}
			if tt.anonymous {
				rc = model.Anonymous()
			}

			got, err := f.service.UpdatePost(context.Background(), rc, post.ID, &tt.dto)

			stored, getErr := f.posts.GetByID(context.Background(), post.ID)
			require.NoError(t, getErr)

			if tt.wantStatus != 0 {
				assertFault(t, err, tt.wantStatus, tt.wantMessage)
				assert.Equal(t, post, stored)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantImage, got.Post.ImageURL)
			assert.Equal(t, tt.dto.Title, stored.Title)
			assert.Equal(t, tt.wantImage, stored.ImageURL)
			assert.Equal(t, post.CreatorID, stored.CreatorID)
		})
	}

	t.Run("Image of another post is rejected", func(t *testing.T) {
		f := newFixture(t, GraphQLPolicy(), nil)
		_, rc := f.seedUser(t, "owner@example.com")
		mine := f.seedPost(t, rc, "Mine to edit", "images/mine.png")
		theirs := f.seedPost(t, rc, "Other post", "images/theirs.png")

		_, err := f.service.UpdatePost(context.Background(), rc, mine.ID, &model.UpdatePostDTO{
			Title: "Edited title", Content: "Edited content", ImageURL: theirs.ImageURL,
		})
		assertFault(t, err, http.StatusUnprocessableEntity, msgImageInUse)

		stored, err := f.posts.GetByID(context.Background(), mine.ID)
		require.NoError(t, err)
		assert.Equal(t, "images/mine.png", stored.ImageURL)
	})

	t.Run("Missing post", func(t *testing.T) {
		f := newFixture(t, GraphQLPolicy(), nil)
		_, rc := f.seedUser(t, "owner@example.com")
		_, err := f.service.UpdatePost(context.Background(), rc, "nope", &model.UpdatePostDTO{Title: "Edited title", Content: "Edited content"})
		assertFault(t, err, http.StatusUnauthorized, gqlNotFoundMessage)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Run("Owner deletes post", func(t *testing.T) {
		f := newFixture(t, RESTPolicy(), nil)
		owner, rc := f.seedUser(t, "owner@example.com")
		kept := f.seedPost(t, rc, "Kept post", "images/kept.png")
		doomed := f.seedPost(t, rc, "Doomed post", "images/doomed.png")
		f.scheduler.On("ScheduleDeletion", "images/doomed.png").Once()

		require.NoError(t, f.service.DeletePost(context.Background(), rc, doomed.ID))

		_, err := f.posts.GetByID(context.Background(), doomed.ID)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
		stored, err := f.users.GetByID(context.Background(), owner.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{kept.ID}, stored.Posts)
	})

	tests := []struct {
		name        string
		policy      Policy
		anonymous   bool
		missing     bool
		wantStatus  int
		wantMessage string
	}{
		{name: "REST non-owner", policy: RESTPolicy(), wantStatus: http.StatusForbidden, wantMessage: restOwnershipMessage},
		{name: "GraphQL non-owner", policy: GraphQLPolicy(), wantStatus: http.StatusUnauthorized, wantMessage: gqlOwnershipMessage},
		{name: "Anonymous", policy: RESTPolicy(), anonymous: true, wantStatus: http.StatusUnauthorized, wantMessage: msgPleaseLogin},
		{name: "Missing post", policy: RESTPolicy(), missing: true, wantStatus: http.StatusNotFound, wantMessage: restNotFoundMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.policy, nil)
			owner, ownerRC := f.seedUser(t, "owner@example.com")
			_, strangerRC := f.seedUser(t, "stranger@example.com")
			post := f.seedPost(t, ownerRC, "Owned post", "images/a.png")

			rc := strangerRC
			if tt.anonymous {
				rc = model.Anonymous()
			}
			id := post.ID
			if tt.missing {
				rc = ownerRC
				id = "does-not-exist"
			}

			err := f.service.DeletePost(context.Background(), rc, id)
			assertFault(t, err, tt.wantStatus, tt.wantMessage)

			_, getErr := f.posts.GetByID(context.Background(), post.ID)
			assert.NoError(t, getErr)
			stored, getErr := f.users.GetByID(context.Background(), owner.ID)
			require.NoError(t, getErr)
			assert.Equal(t, []string{post.ID}, stored.Posts)
		})
	}
}

func TestPostService_UserPosts(t *testing.T) {
	f := newFixture(t, GraphQLPolicy(), nil)
	owner, rc := f.seedUser(t, "owner@example.com")
	first := f.seedPost(t, rc, "First post", "images/1.png")
	second := f.seedPost(t, rc, "Second post", "images/2.png")

	owner, err := f.users.GetByID(context.Background(), owner.ID)
	require.NoError(t, err)

	got, err := f.service.UserPosts(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].Post.ID)
	assert.Equal(t, second.ID, got[1].Post.ID)
	assert.Equal(t, owner.Name, got[0].Creator.Name)

	empty, err := f.service.UserPosts(context.Background(), &model.User{ID: "x"})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostService_Cache(t *testing.T) {
	t.Run("hit skips the repository", func(t *testing.T) {
		postCache := cache_mock.NewPostCache(t)
		f := newFixture(t, RESTPolicy(), postCache)
		cached := &model.PostDetailed{Post: &model.Post{ID: "cached", Title: "From cache"}}
		postCache.On("GetPost", mock.Anything, "cached").Return(cached, nil).Once()

		got, err := f.service.GetPost(context.Background(), model.Anonymous(), "cached")
		require.NoError(t, err)
		assert.Equal(t, cached, got)
	})

	t.Run("miss reads through and fills the cache", func(t *testing.T) {
		postCache := cache_mock.NewPostCache(t)
		f := newFixture(t, RESTPolicy(), postCache)
		_, rc := f.seedUser(t, "owner@example.com")
		post := f.seedPost(t, rc, "Cached post", "images/a.png")
		postCache.On("GetPost", mock.Anything, post.ID).Return(nil, custom_errors.ErrCacheMiss).Once()
		postCache.On("SetPost", mock.Anything, mock.MatchedBy(func(p *model.PostDetailed) bool {
			return p.Post.ID == post.ID
		})).Return(nil).Once()

		got, err := f.service.GetPost(context.Background(), model.Anonymous(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.Post.ID)
	})

	t.Run("GraphQL checks identity before the cache", func(t *testing.T) {
		postCache := cache_mock.NewPostCache(t)
		f := newFixture(t, GraphQLPolicy(), postCache)

		_, err := f.service.GetPost(context.Background(), model.Anonymous(), "cached")
		assertFault(t, err, http.StatusUnauthorized, msgPleaseLogin)
	})

	t.Run("update and delete invalidate", func(t *testing.T) {
		postCache := cache_mock.NewPostCache(t)
		f := newFixture(t, RESTPolicy(), postCache)
		_, rc := f.seedUser(t, "owner@example.com")
		post := f.seedPost(t, rc, "Cached post", "images/a.png")
		postCache.On("DeletePost", mock.Anything, post.ID).Return(nil).Twice()
		f.scheduler.On("ScheduleDeletion", "images/a.png").Once()

		_, err := f.service.UpdatePost(context.Background(), rc, post.ID, &model.UpdatePostDTO{
			Title: "Edited title", Content: "Edited content", ImageURL: model.ImageUnchanged,
		})
		require.NoError(t, err)
		require.NoError(t, f.service.DeletePost(context.Background(), rc, post.ID))
	})
}

func TestPostService_TransactionFailures(t *testing.T) {
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()
	owner := &model.User{ID: "u1", Name: "Owner"}
	rc := model.Authenticated(model.Identity{UserID: owner.ID})
	dto := &model.CreatePostDTO{Title: "First post", Content: "Hello world", ImageURL: "images/a.png"}

	tests := []struct {
		name    string
		mocks   func(userRepo *user_repository_mock.Repository, postRepo *post_repository_mock.Repository, uow *uow_mock.UnitOfWork, tx *uow_mock.Transaction)
		wantErr error
	}{
		{
			name: "Begin fails",
			mocks: func(userRepo *user_repository_mock.Repository, postRepo *post_repository_mock.Repository, uow *uow_mock.UnitOfWork, tx *uow_mock.Transaction) {
				userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
				uow.On("Begin", mock.Anything).Return(nil, errors.New("pool exhausted"))
			},
			wantErr: custom_errors.ErrDatabaseQuery,
		},
		{
			name: "Append fails and rolls back",
			mocks: func(userRepo *user_repository_mock.Repository, postRepo *post_repository_mock.Repository, uow *uow_mock.UnitOfWork, tx *uow_mock.Transaction) {
				userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
				uow.On("Begin", mock.Anything).Return(tx, nil)
				tx.On("PostRepository").Return(postRepo)
				tx.On("UserRepository").Return(userRepo)
				postRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(&model.Post{ID: "p1", CreatorID: owner.ID}, nil)
				userRepo.On("AppendPost", mock.Anything, owner.ID, "p1").Return(custom_errors.ErrDatabaseQuery)
				tx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			wantErr: custom_errors.ErrDatabaseQuery,
		},
		{
			name: "Commit fails and rollback reports closed tx",
			mocks: func(userRepo *user_repository_mock.Repository, postRepo *post_repository_mock.Repository, uow *uow_mock.UnitOfWork, tx *uow_mock.Transaction) {
				userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
				uow.On("Begin", mock.Anything).Return(tx, nil)
				tx.On("PostRepository").Return(postRepo)
				tx.On("UserRepository").Return(userRepo)
				postRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(&model.Post{ID: "p1", CreatorID: owner.ID}, nil)
				userRepo.On("AppendPost", mock.Anything, owner.ID, "p1").Return(nil)
				tx.On("Commit", mock.Anything).Return(errors.New("commit unexpectedly resulted in rollback"))
				tx.On("Rollback", mock.Anything).Return(errors.New("tx is closed")).Once()
			},
			wantErr: custom_errors.ErrDatabaseQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := user_repository_mock.NewRepository(t)
			postRepo := post_repository_mock.NewRepository(t)
			uow := uow_mock.NewUnitOfWork(t)
			tx := uow_mock.NewTransaction(t)
			scheduler := artifact_mock.NewScheduler(t)
			images := artifact_mock.NewStore(t)
			images.On("Exists", mock.Anything, dto.ImageURL).Return(true, nil).Once()
			postRepo.On("ImageInUse", mock.Anything, dto.ImageURL, "").Return(false, nil).Once()
			tt.mocks(userRepo, postRepo, uow, tx)

			service := NewPostService(postRepo, userRepo, uow, scheduler, images, nil, RESTPolicy(), log, metrics)
			got, err := service.CreatePost(context.Background(), rc, dto)

			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
