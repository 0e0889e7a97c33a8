package delivery_http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"feed-service/internal/custom_errors"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/artifact"
)

const imageField = "image"

var acceptedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpg":  {},
	"image/jpeg": {},
}

type uploader struct {
	store    artifact.Store
	maxBytes int64
	log      ports.Logger
}

// save stores the multipart "image" file, if any, and returns its reference.
// A missing file or one with an unaccepted content type yields "" and no
// error; the caller decides whether that is a fault.
func (u *uploader) save(c echo.Context) (string, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			u.log.Debug("Failed to read uploaded image", slog.String("error", err.Error()))
		}
		return "", nil
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if _, ok := acceptedImageTypes[contentType]; !ok {
		u.log.Debug("Rejected image upload", slog.String("filename", fh.Filename), slog.String("content_type", contentType))
		return "", nil
	}
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return "", custom_errors.New("Image is too large", http.StatusRequestEntityTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		u.log.Error("Failed to open uploaded image", slog.String("error", err.Error()))
		return "", custom_errors.ErrArtifactWrite
	}
	defer src.Close()

	ref, err := u.store.Save(c.Request().Context(), fh.Filename, src)
	if err != nil {
		u.log.Error("Failed to store uploaded image", slog.String("filename", fh.Filename), slog.String("error", err.Error()))
		return "", err
	}
	return ref, nil
}
