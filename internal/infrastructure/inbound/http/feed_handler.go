package delivery_http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"feed-service/internal/application/identity"
	model "feed-service/internal/domain/models"
	post_service "feed-service/internal/domain/ports/input/post"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/artifact"
)

type FeedHandler struct {
	posts     post_service.Service
	uploads   *uploader
	artifacts artifact.Scheduler
	log       ports.Logger
}

func NewFeedHandler(posts post_service.Service, store artifact.Store, artifacts artifact.Scheduler, maxUploadBytes int64, log ports.Logger) *FeedHandler {
	return &FeedHandler{
		posts:     posts,
		uploads:   &uploader{store: store, maxBytes: maxUploadBytes, log: log},
		artifacts: artifacts,
		log:       log,
	}
}

type listPostsRequest struct {
	Page int `query:"page" validate:"gte=0"`
}

type postIDRequest struct {
	PostID string `param:"postId" validate:"required"`
}

type createPostRequest struct {
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	ImageURL string `json:"imageUrl" form:"imageUrl"`
}

type updatePostRequest struct {
	PostID  string `param:"postId" json:"-" validate:"required"`
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
	Image   string `json:"image" form:"image"`
}

type listPostsResponse struct {
	Posts      []*model.Post `json:"posts"`
	TotalItems int           `json:"totalItems"`
}

type postResponse struct {
	Post *model.Post `json:"post"`
}

func (h *FeedHandler) ListPosts(c echo.Context) error {
	var req listPostsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	page, err := h.posts.ListPosts(ctx, identity.FromContext(ctx), req.Page)
	if err != nil {
		return err
	}

	posts := make([]*model.Post, 0, len(page.Posts))
	for _, p := range page.Posts {
		posts = append(posts, p.Post)
	}
	return c.JSON(http.StatusOK, listPostsResponse{Posts: posts, TotalItems: page.TotalItems})
}

func (h *FeedHandler) GetPost(c echo.Context) error {
	var req postIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.posts.GetPost(ctx, identity.FromContext(ctx), req.PostID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{Post: post.Post})
}

// CreatePost accepts JSON or a multipart form. An uploaded image takes
// precedence over imageUrl and is retired again if the post is rejected.
func (h *FeedHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	uploaded, err := h.uploads.save(c)
	if err != nil {
		return err
	}
	imageURL := req.ImageURL
	if uploaded != "" {
		imageURL = uploaded
	}

	ctx := c.Request().Context()
	created, err := h.posts.CreatePost(ctx, identity.FromContext(ctx), &model.CreatePostDTO{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: imageURL,
	})
	if err != nil {
		h.discardUpload(uploaded)
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *FeedHandler) UpdatePost(c echo.Context) error {
	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	uploaded, err := h.uploads.save(c)
	if err != nil {
		return err
	}
	image := req.Image
	if uploaded != "" {
		image = uploaded
	}

	ctx := c.Request().Context()
	updated, err := h.posts.UpdatePost(ctx, identity.FromContext(ctx), req.PostID, &model.UpdatePostDTO{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: image,
	})
	if err != nil {
		h.discardUpload(uploaded)
		return err
	}
	return c.JSON(http.StatusOK, postResponse{Post: updated.Post})
}

func (h *FeedHandler) DeletePost(c echo.Context) error {
	var req postIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.posts.DeletePost(ctx, identity.FromContext(ctx), req.PostID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Post deleted"})
}

func (h *FeedHandler) discardUpload(ref string) {
	if ref == "" {
		return
	}
	h.log.Debug("Retiring upload of rejected request", slog.String("path", ref))
	h.artifacts.ScheduleDeletion(ref)
}
