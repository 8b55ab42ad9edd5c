package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
	"github.com/BruksfildServices01/salon-onboarding/internal/media"
	"github.com/BruksfildServices01/salon-onboarding/internal/metrics"
)

type ImageStore interface {
	Upload(ctx context.Context, userID uuid.UUID, hairstyleID uint, r io.Reader) (*media.Stored, error)
}

type UploadHandler struct {
	responder
	store   ImageStore
	audit   audit.Sink
	metrics *metrics.Metrics
}

// NewUploadHandler accepts a nil store; uploads then answer 503.
func NewUploadHandler(store ImageStore, sink audit.Sink, m *metrics.Metrics, reporter diagnostics.Reporter) *UploadHandler {
	if sink == nil {
		sink = audit.Discard{}
	}
	return &UploadHandler{
		responder: newResponder(reporter),
		store:     store,
		audit:     sink,
		metrics:   m,
	}
}

// Upload takes multipart fields user_id, hairstyle_id and the file in
// image. The stored URL is what the client later submits in
// portfolio_images or profile_image_url.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.store == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "uploads_disabled", "Image storage is not configured.")
		return
	}

	// multipart framing on top of the image itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+1<<20)

	// parse up front so an oversized body is not mistaken for missing fields
	if _, err := c.MultipartForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.FromError(c, onboarding.NewValidationError("image", "too_large"))
			return
		}
		invalidBody(c, err)
		return
	}

	userID, ok := ownerID(c, c.PostForm("user_id"))
	if !ok {
		return
	}

	// zero or absent means a profile image
	var hairstyleID uint
	if raw := c.PostForm("hairstyle_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httperr.FromError(c, onboarding.NewValidationError("hairstyle_id", "invalid"))
			return
		}
		hairstyleID = uint(n)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.FromError(c, onboarding.NewValidationError("image", "required"))
		return
	}
	if fh.Size > media.MaxUploadBytes {
		httperr.FromError(c, onboarding.NewValidationError("image", "too_large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, "upload_image", err)
		return
	}
	defer f.Close()

	stored, err := h.store.Upload(c.Request.Context(), userID, hairstyleID, f)
	h.metrics.ObserveUpload(err)
	if err != nil {
		h.fail(c, "upload_image", err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionUploadImage,
		Entity:   "image",
		EntityID: stored.Key,
	})

	c.JSON(http.StatusCreated, dto.ImageUploadResponse{URL: stored.URL, Key: stored.Key})
}
