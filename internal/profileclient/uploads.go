package profileclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
)

// UploadPortfolioImage sends one image as multipart form data. The server
// re-encodes it and answers with the stored reference.
func (c *Client) UploadPortfolioImage(
	ctx context.Context,
	token string,
	userID uuid.UUID,
	hairstyleID uint,
	filename string,
	image io.Reader,
) (*dto.ImageUploadResponse, error) {

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("user_id", userID.String()); err != nil {
		return nil, err
	}
	if err := w.WriteField("hairstyle_id", strconv.FormatUint(uint64(hairstyleID), 10)); err != nil {
		return nil, err
	}
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/portfolio-images", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(headerAuthorization, "Bearer "+token)
	req.Header.Set(headerContentType, w.FormDataContentType())

	var out dto.ImageUploadResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
