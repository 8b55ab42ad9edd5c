package profileclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

// ======================================================
// Profile reads
// ======================================================

func (c *Client) FetchProfile(ctx context.Context, token string, userID uuid.UUID) (*dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	q := url.Values{"user_id": {userID.String()}}
	if err := c.get(ctx, "/api/users/profile", token, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Catalog(ctx context.Context, token string) ([]models.Hairstyle, error) {
	var out dto.CatalogResponse
	if err := c.get(ctx, "/api/hairstyles", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Hairstyles, nil
}

// ======================================================
// Registration steps
// ======================================================

func (c *Client) RegisterUser(ctx context.Context, token string, role onboarding.UserType, req dto.RegisterUserRequest) (*models.User, error) {
	path := "/api/users/register-client"
	if role == onboarding.UserTypeHairdresser {
		path = "/api/users/register-hairdresser"
	}
	var out models.User
	if err := c.post(ctx, path, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AcceptTerms(ctx context.Context, token string, role onboarding.UserType, req dto.AcceptTermsRequest) error {
	path := "/api/users/client-accept-terms"
	if role == onboarding.UserTypeHairdresser {
		path = "/api/users/hairdresser-accept-terms"
	}
	return c.post(ctx, path, token, req, nil)
}

func (c *Client) ReplaceHairstyles(ctx context.Context, token string, req dto.HairstylesRequest) ([]models.HairdresserHairstyle, error) {
	var out []models.HairdresserHairstyle
	if err := c.post(ctx, "/api/users/hairdresser-hairstyles", token, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RecordPayment(ctx context.Context, token string, req dto.PaymentRequest) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.post(ctx, "/api/users/hairdresser-payment", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordLogin(ctx context.Context, token string, userID uuid.UUID) error {
	return c.post(ctx, "/api/users/record-login", token, dto.UserRequest{UserID: userID.String()}, nil)
}

// ======================================================
// Admin
// ======================================================

func (c *Client) ListUsers(ctx context.Context, token string, typ onboarding.UserType, approved *bool) ([]models.User, error) {
	q := url.Values{}
	if typ != "" {
		q.Set("type", string(typ))
	}
	if approved != nil {
		q.Set("approved", strconv.FormatBool(*approved))
	}
	var out dto.UserListResponse
	if err := c.get(ctx, "/api/admin/users", token, q, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) ApproveHairdresser(ctx context.Context, token string, userID uuid.UUID) (*models.User, error) {
	var out models.User
	if err := c.post(ctx, "/api/admin/hairdressers/approve", token, dto.UserRequest{UserID: userID.String()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTransactions(ctx context.Context, token string, typ onboarding.TransactionType, page, limit int) (*dto.TransactionListResponse, error) {
	q := url.Values{}
	if typ != "" {
		q.Set("type", string(typ))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out dto.TransactionListResponse
	if err := c.get(ctx, "/api/admin/transactions", token, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordAppointmentPayment(ctx context.Context, token string, req dto.AppointmentPaymentRequest) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.post(ctx, "/api/admin/transactions/appointment", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
