package onboarding

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	domain "github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type ApproveHairdresser struct {
	Deps
}

func NewApproveHairdresser(d Deps) *ApproveHairdresser {
	return &ApproveHairdresser{Deps: d.withDefaults()}
}

func (uc *ApproveHairdresser) Execute(ctx context.Context, adminID, hairdresserID uuid.UUID) (*models.User, error) {
	user, err := uc.Repo.ApproveHairdresser(ctx, hairdresserID)
	uc.Metrics.ObserveWrite("approve_hairdresser", err)
	if err != nil {
		return nil, err
	}

	uc.Audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   audit.ActionApproveHairdresser,
		Entity:   "user",
		EntityID: hairdresserID.String(),
	})
	return user, nil
}

type ListUsers struct {
	Deps
}

func NewListUsers(d Deps) *ListUsers {
	return &ListUsers{Deps: d.withDefaults()}
}

func (uc *ListUsers) Execute(ctx context.Context, f domain.UserFilter) ([]models.User, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, domain.NewValidationError("type", "invalid")
	}
	return uc.Repo.ListUsers(ctx, f)
}

type ListTransactionsInput struct {
	Filter domain.TransactionFilter
	Page   int
	Limit  int
}

type ListTransactionsOutput struct {
	Page         int
	Limit        int
	Total        int64
	Transactions []models.Transaction
}

type ListTransactions struct {
	Deps
}

func NewListTransactions(d Deps) *ListTransactions {
	return &ListTransactions{Deps: d.withDefaults()}
}

func (uc *ListTransactions) Execute(ctx context.Context, in ListTransactionsInput) (*ListTransactionsOutput, error) {
	f := in.Filter
	if f.Type != "" && f.Type != domain.TransactionRegistration && f.Type != domain.TransactionAppointment {
		return nil, domain.NewValidationError("type", "invalid")
	}

	page := in.Page
	if page <= 0 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	list, total, err := uc.Repo.ListTransactions(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListTransactionsOutput{Page: page, Limit: limit, Total: total, Transactions: list}, nil
}
