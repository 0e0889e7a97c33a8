package post_service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/artifact"
	"feed-service/internal/domain/ports/output/cache"
	post_repository "feed-service/internal/domain/ports/output/post"
	user_repository "feed-service/internal/domain/ports/output/user"
)

type PostService struct {
	postRepo  post_repository.Repository
	userRepo  user_repository.Repository
	uow       ports.UnitOfWork
	artifacts artifact.Scheduler
	images    artifact.Locator
	postCache cache.PostCache
	policy    Policy
	log       ports.Logger
	metrics   ports.MetricsProvider
}

// NewPostService wires a post workflow for one transport surface. postCache
// may be nil, in which case reads always hit the repository.
func NewPostService(
	postRepo post_repository.Repository,
	userRepo user_repository.Repository,
	uow ports.UnitOfWork,
	artifacts artifact.Scheduler,
	images artifact.Locator,
	postCache cache.PostCache,
	policy Policy,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		uow:       uow,
		artifacts: artifacts,
		images:    images,
		postCache: postCache,
		policy:    policy,
		log:       log,
		metrics:   metrics,
	}
}

func (s *PostService) CreatePost(ctx context.Context, rc model.RequestContext, post *model.CreatePostDTO) (result *model.PostDetailed, err error) {
	defer func() { s.metrics.IncrementPostOperations("create", err == nil) }()

	if !rc.IsAuthenticated() {
		return nil, custom_errors.New(msgPleaseLogin, http.StatusUnauthorized)
	}
	if err := validatePost(post.Title, post.Content); err != nil {
		return nil, err
	}
	if s.policy.RequireImageOnCreate && strings.TrimSpace(post.ImageURL) == "" {
		return nil, custom_errors.New(msgNoImageProvided, http.StatusUnprocessableEntity)
	}

	owner, err := s.userRepo.GetByID(ctx, rc.UserID())
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Post owner not found", slog.String("user_id", rc.UserID()))
			return nil, custom_errors.New(msgPleaseLogin, http.StatusUnauthorized)
		}
		s.log.Error("Failed to get post owner", slog.String("user_id", rc.UserID()), slog.String("error", err.Error()))
		return nil, err
	}

	if strings.TrimSpace(post.ImageURL) != "" {
		if err := s.checkImage(ctx, post.ImageURL, ""); err != nil {
			return nil, err
		}
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	var txCommitted bool
	defer s.rollbackUnlessCommitted(ctx, tx, &txCommitted)

	created, err := tx.PostRepository().Create(ctx, &model.Post{
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		CreatorID: owner.ID,
	})
	if err != nil {
		s.log.Error("Failed to create post", slog.String("error", err.Error()))
		return nil, err
	}

	if err := tx.UserRepository().AppendPost(ctx, owner.ID, created.ID); err != nil {
		s.log.Error("Failed to append post to owner",
			slog.String("user_id", owner.ID),
			slog.String("post_id", created.ID),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.log.Info("Post created", slog.String("post_id", created.ID), slog.String("user_id", owner.ID))
	return &model.PostDetailed{Post: created, Creator: model.NewCreator(owner)}, nil
}

func (s *PostService) GetPost(ctx context.Context, rc model.RequestContext, id string) (*model.PostDetailed, error) {
	if s.policy.RequireIdentityForReads && !rc.IsAuthenticated() {
		return nil, custom_errors.New(msgPleaseLogin, http.StatusUnauthorized)
	}

	if cached := s.cachedPost(ctx, id); cached != nil {
		return cached, nil
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	detailed := &model.PostDetailed{Post: post, Creator: s.creatorOf(ctx, post.CreatorID)}
	s.storeInCache(ctx, detailed)
	return detailed, nil
}

func (s *PostService) ListPosts(ctx context.Context, rc model.RequestContext, page int) (*model.PostPage, error) {
	if s.policy.RequireIdentityForReads && !rc.IsAuthenticated() {
		return nil, custom_errors.New(msgPleaseLogin, http.StatusUnauthorized)
	}
	if page < 1 {
		page = 1
	}

	limit := PageSize
	offset := (page - 1) * PageSize
	posts, total, err := s.postRepo.List(ctx, model.PostFilters{
		Limit:       &limit,
		Offset:      &offset,
		NewestFirst: s.policy.NewestFirst,
	})
	if err != nil {
		s.log.Error("Failed to list posts", slog.Int("page", page), slog.String("error", err.Error()))
		return nil, err
	}

	creators := make(map[string]*model.Creator)
	result := make([]*model.PostDetailed, 0, len(posts))
	for _, p := range posts {
		creator, ok := creators[p.CreatorID]
		if !ok {
			creator = s.creatorOf(ctx, p.CreatorID)
			creators[p.CreatorID] = creator
		}
		result = append(result, &model.PostDetailed{Post: p, Creator: creator})
	}

	return &model.PostPage{Posts: result, TotalItems: total}, nil
}

func (s *PostService) UpdatePost(ctx context.Context, rc model.RequestContext, id string, update *model.UpdatePostDTO) (result *model.PostDetailed, err error) {
	defer func() { s.metrics.IncrementPostOperations("update", err == nil) }()

	if !rc.IsAuthenticated() {
		return nil, custom_errors.New(msgPleaseLogin, http.StatusUnauthorized)
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != rc.UserID() {
		s.log.Warn("Post update by non-owner", slog.String("post_id", id), slog.String("user_id", rc.UserID()))
		return nil, custom_errors.New(s.policy.OwnershipMessage, s.policy.OwnershipStatus)
	}
	if err := validatePost(update.Title, update.Content); err != nil {
		return nil, err
	}

	image := strings.TrimSpace(update.ImageURL)
	switch image {
	case model.ImageUnchanged:
		image = post.ImageURL
	case "":
		return nil, custom_errors.New(msgNoFileAdded, http.StatusUnprocessableEntity)
	}
	if image != post.ImageURL {
		if err := s.checkImage(ctx, image, post.ID); err != nil {
			return nil, err
		}
	}

	previousImage := post.ImageURL
	post.Title = update.Title
	post.Content = update.Content
	post.ImageURL = image

	updated, err := s.postRepo.Update(ctx, post)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			return nil, custom_errors.New(s.policy.NotFoundMessage, s.policy.NotFoundStatus)
		}
		s.log.Error("Failed to update post", slog.String("post_id", id), slog.String("error", err.Error()))
		return nil, err
	}

	if previousImage != updated.ImageURL {
		s.artifacts.ScheduleDeletion(previousImage)
	}
	s.invalidateCache(ctx, id)

	return &model.PostDetailed{Post: updated, Creator: s.creatorOf(ctx, updated.CreatorID)}, nil
}

func (s *PostService) DeletePost(ctx context.Context, rc model.RequestContext, id string) (err error) {
	defer func() { s.metrics.IncrementPostOperations("delete", err == nil) }()

	if !rc.IsAuthenticated() {
		return custom_errors.New(msgPleaseLogin, http.StatusUnauthorized)
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}
	if post.CreatorID != rc.UserID() {
		s.log.Warn("Post delete by non-owner", slog.String("post_id", id), slog.String("user_id", rc.UserID()))
		return custom_errors.New(s.policy.OwnershipMessage, s.policy.OwnershipStatus)
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	var txCommitted bool
	defer s.rollbackUnlessCommitted(ctx, tx, &txCommitted)

	if err := tx.PostRepository().Delete(ctx, id); err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			return custom_errors.New(s.policy.NotFoundMessage, s.policy.NotFoundStatus)
		}
		s.log.Error("Failed to delete post", slog.String("post_id", id), slog.String("error", err.Error()))
		return err
	}

	if err := tx.UserRepository().RemovePost(ctx, post.CreatorID, id); err != nil {
		s.log.Error("Failed to remove post from owner",
			slog.String("user_id", post.CreatorID),
			slog.String("post_id", id),
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.artifacts.ScheduleDeletion(post.ImageURL)
	s.invalidateCache(ctx, id)

	s.log.Info("Post deleted", slog.String("post_id", id), slog.String("user_id", post.CreatorID))
	return nil
}

// UserPosts resolves the user's post references in collection order.
func (s *PostService) UserPosts(ctx context.Context, user *model.User) ([]*model.PostDetailed, error) {
	if user == nil || len(user.Posts) == 0 {
		return []*model.PostDetailed{}, nil
	}

	posts, err := s.postRepo.GetByIDs(ctx, user.Posts)
	if err != nil {
		s.log.Error("Failed to get user posts", slog.String("user_id", user.ID), slog.String("error", err.Error()))
		return nil, err
	}

	creator := model.NewCreator(user)
	result := make([]*model.PostDetailed, 0, len(posts))
	for _, p := range posts {
		result = append(result, &model.PostDetailed{Post: p, Creator: creator})
	}
	return result, nil
}

// checkImage accepts ref only when it names a stored file that no post other
// than exceptID already references.
func (s *PostService) checkImage(ctx context.Context, ref string, exceptID string) error {
	exists, err := s.images.Exists(ctx, ref)
	if err != nil {
		s.log.Error("Failed to look up image", slog.String("image", ref), slog.String("error", err.Error()))
		return err
	}
	if !exists {
		s.log.Debug("Image reference without a file", slog.String("image", ref))
		return custom_errors.New(msgImageNotFound, http.StatusUnprocessableEntity)
	}

	inUse, err := s.postRepo.ImageInUse(ctx, ref, exceptID)
	if err != nil {
		s.log.Error("Failed to check image usage", slog.String("image", ref), slog.String("error", err.Error()))
		return err
	}
	if inUse {
		s.log.Debug("Image already referenced by another post", slog.String("image", ref))
		return custom_errors.New(msgImageInUse, http.StatusUnprocessableEntity)
	}
	return nil
}

func (s *PostService) findPost(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrPostNotFound):
			s.log.Debug("Post not found", slog.String("post_id", id))
			return nil, custom_errors.New(s.policy.NotFoundMessage, s.policy.NotFoundStatus)
		default:
			s.log.Error("Failed to get post by id", slog.String("post_id", id), slog.String("error", err.Error()))
			return nil, err
		}
	}
	return post, nil
}

// creatorOf returns nil when the owner cannot be loaded; a missing owner
// does not fail a read.
func (s *PostService) creatorOf(ctx context.Context, userID string) *model.Creator {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Warn("Failed to populate post creator", slog.String("user_id", userID), slog.String("error", err.Error()))
		}
		return nil
	}
	return model.NewCreator(user)
}

func (s *PostService) cachedPost(ctx context.Context, id string) *model.PostDetailed {
	if s.postCache == nil {
		return nil
	}

	start := time.Now()
	post, err := s.postCache.GetPost(ctx, id)
	s.metrics.RecordCacheOperationDuration("post_get", time.Since(start))
	if err != nil {
		if !errors.Is(err, custom_errors.ErrCacheMiss) {
			s.log.Warn("Failed to read post from cache", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		s.metrics.IncrementCacheMisses()
		return nil
	}

	s.metrics.IncrementCacheHits()
	return post
}

func (s *PostService) storeInCache(ctx context.Context, post *model.PostDetailed) {
	if s.postCache == nil {
		return
	}

	start := time.Now()
	if err := s.postCache.SetPost(ctx, post); err != nil {
		s.log.Warn("Failed to cache post", slog.String("post_id", post.Post.ID), slog.String("error", err.Error()))
	}
	s.metrics.RecordCacheOperationDuration("post_set", time.Since(start))
}

func (s *PostService) invalidateCache(ctx context.Context, id string) {
	if s.postCache == nil {
		return
	}

	start := time.Now()
	if err := s.postCache.DeletePost(ctx, id); err != nil {
		s.log.Warn("Failed to invalidate post cache", slog.String("post_id", id), slog.String("error", err.Error()))
	}
	s.metrics.RecordCacheOperationDuration("post_delete", time.Since(start))
}

func (s *PostService) rollbackUnlessCommitted(ctx context.Context, tx ports.Transaction, committed *bool) {
	if *committed || tx == nil {
		return
	}
	if err := tx.Rollback(ctx); err != nil {
		if !strings.Contains(err.Error(), "tx is closed") && !strings.Contains(err.Error(), "commit unexpectedly resulted in rollback") {
			s.log.Error("Failed to rollback transaction", slog.String("error", err.Error()))
		} else {
			s.log.Debug("Transaction already closed during rollback", slog.String("error", err.Error()))
		}
	}
}

func validatePost(title, content string) error {
	return custom_errors.Validate(
		custom_errors.When(utf8.RuneCountInString(title) < minTitleLength, msgTitleTooShort),
		custom_errors.When(utf8.RuneCountInString(content) < minContentLength, msgContentTooShort),
	)
}
