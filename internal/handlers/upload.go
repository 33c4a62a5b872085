package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/storage"
)

// ImageUploader stores an uploaded picture and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, prefix string, r io.Reader) (string, error)
}

// receiveImage reads the "image" form file and uploads it. It writes the
// error response itself and returns ok=false on failure.
func receiveImage(c *gin.Context, images ImageUploader, log *zap.Logger, prefix string) (string, bool) {
	if images == nil {
		httperr.Unavailable(c, "storage_disabled", "Image uploads are not configured.")
		return "", false
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_field", "Missing image file.")
		return "", false
	}
	if fh.Size > storage.MaxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Images are limited to 5MB.")
		return "", false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read the upload.")
		return "", false
	}
	defer f.Close()

	url, err := images.Upload(c.Request.Context(), prefix, f)
	switch {
	case err == nil:
		return url, true
	case errors.Is(err, storage.ErrInvalidMIME), errors.Is(err, storage.ErrUndecodable):
		httperr.BadRequest(c, "invalid_image", "Only jpeg, png or webp images are accepted.")
	case errors.Is(err, storage.ErrFileTooLarge):
		httperr.BadRequest(c, "file_too_large", "Images are limited to 5MB.")
	default:
		log.Error("image upload failed", zap.String("prefix", prefix), zap.Error(err))
		httperr.Unavailable(c, "storage_unavailable", "Could not store the image, try again.")
	}
	return "", false
}
