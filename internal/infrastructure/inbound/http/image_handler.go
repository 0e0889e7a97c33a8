package delivery_http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"feed-service/internal/application/identity"
	"feed-service/internal/custom_errors"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/artifact"
)

type ImageHandler struct {
	uploads   *uploader
	artifacts artifact.Scheduler
	log       ports.Logger
}

func NewImageHandler(store artifact.Store, artifacts artifact.Scheduler, maxUploadBytes int64, log ports.Logger) *ImageHandler {
	return &ImageHandler{
		uploads:   &uploader{store: store, maxBytes: maxUploadBytes, log: log},
		artifacts: artifacts,
		log:       log,
	}
}

type imageResponse struct {
	ImagePath string `json:"imagePath"`
}

// UploadImage stores a new image ahead of a GraphQL create or update and
// retires oldPath once the new file is safely written.
func (h *ImageHandler) UploadImage(c echo.Context) error {
	if !identity.FromContext(c.Request().Context()).IsAuthenticated() {
		return custom_errors.New("Please login", http.StatusUnauthorized)
	}

	ref, err := h.uploads.save(c)
	if err != nil {
		return err
	}
	if ref == "" {
		return c.JSON(http.StatusOK, messageResponse{Msg: "No image added"})
	}

	if oldPath := c.FormValue("oldPath"); oldPath != "" {
		h.artifacts.ScheduleDeletion(oldPath)
	}
	return c.JSON(http.StatusCreated, imageResponse{ImagePath: ref})
}
