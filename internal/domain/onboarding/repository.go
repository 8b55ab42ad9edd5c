package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

// Repository is the ProfileStore contract. Every write is scoped to one
// owning user id and is atomic at the storage boundary.
type Repository interface {
	// -------- Read --------
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfileState(ctx context.Context, id uuid.UUID) (*ProfileState, error)
	ListCatalog(ctx context.Context) ([]models.Hairstyle, error)
	ListHairdresserHairstyles(ctx context.Context, hairdresserID uuid.UUID) ([]models.HairdresserHairstyle, error)

	// -------- Personal info --------
	UpsertUser(ctx context.Context, in RegisterUserInput) (*models.User, error)

	// -------- Terms --------
	UpsertClientTerms(ctx context.Context, userID uuid.UUID, accepted bool) (*models.ClientProfile, error)
	UpsertHairdresserTerms(ctx context.Context, userID uuid.UUID, accepted bool) (*models.HairdresserProfile, error)

	// -------- Hairstyles (wholesale replace) --------
	ReplaceHairdresserHairstyles(ctx context.Context, hairdresserID uuid.UUID, sel []HairstyleSelection) ([]models.HairdresserHairstyle, error)

	// -------- Payments --------
	RecordRegistrationPayment(ctx context.Context, p RegistrationPayment, now time.Time) (*models.Transaction, error)
	RecordAppointmentPayment(ctx context.Context, p AppointmentPayment, now time.Time) (*models.Transaction, error)

	// -------- Session side effects --------
	RecordLogin(ctx context.Context, userID uuid.UUID, at time.Time) error

	// -------- Admin --------
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
	ApproveHairdresser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
}

type UserFilter struct {
	Type     UserType
	Approved *bool
}

type TransactionFilter struct {
	Type   TransactionType
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
