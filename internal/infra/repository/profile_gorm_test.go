package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-onboarding/internal/db"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

func newTestRepo(t *testing.T) (*ProfileGormRepository, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	_, err = db.SeedCatalog(gdb)
	require.NoError(t, err)

	return NewProfileGormRepository(gdb), gdb
}

func register(t *testing.T, r *ProfileGormRepository, typ onboarding.UserType) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := r.UpsertUser(context.Background(), onboarding.RegisterUserInput{
		UserID: id,
		Email:  id.String() + "@example.com",
		Type:   typ,
		Info: onboarding.PersonalInfo{
			FirstName:   "Test",
			LastName:    "User",
			PhoneNumber: "+237650000000",
		},
	})
	require.NoError(t, err)
	return id
}

func TestUpsertUser_ClientApprovedAndUpdatable(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	id := uuid.New()

	in := onboarding.RegisterUserInput{
		UserID: id,
		Email:  "marie@example.com",
		Type:   onboarding.UserTypeClient,
		Info:   onboarding.PersonalInfo{FirstName: "Marie", LastName: "Ngo", PhoneNumber: "+237699000000"},
	}
	user, err := r.UpsertUser(ctx, in)
	require.NoError(t, err)
	assert.True(t, user.IsApproved)
	assert.Equal(t, "client", user.UserType)

	in.Info.FirstName = "Marie-Claire"
	user, err = r.UpsertUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Marie-Claire", user.FirstName)

	var count int64
	r.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertUser_TypeIsImmutable(t *testing.T) {
	r, _ := newTestRepo(t)
	id := register(t, r, onboarding.UserTypeClient)

	_, err := r.UpsertUser(context.Background(), onboarding.RegisterUserInput{
		UserID: id,
		Email:  id.String() + "@example.com",
		Type:   onboarding.UserTypeHairdresser,
		Info:   onboarding.PersonalInfo{FirstName: "A", LastName: "B", PhoneNumber: "+237650000000"},
	})
	assert.True(t, httperr.IsBusiness(err, onboarding.CodeUserTypeConflict))
}

func TestUpsertUser_EmailTakenByAnotherUser(t *testing.T) {
	r, _ := newTestRepo(t)
	first := register(t, r, onboarding.UserTypeClient)

	_, err := r.UpsertUser(context.Background(), onboarding.RegisterUserInput{
		UserID: uuid.New(),
		Email:  first.String() + "@example.com",
		Type:   onboarding.UserTypeClient,
		Info:   onboarding.PersonalInfo{FirstName: "A", LastName: "B", PhoneNumber: "+237650000000"},
	})
	assert.True(t, httperr.IsBusiness(err, onboarding.CodeEmailTaken))
}

func TestUpsertUser_ConcurrentFirstSubmitConverges(t *testing.T) {
	r, gdb := newTestRepo(t)
	ctx := context.Background()
	id := uuid.New()
	email := "marie@example.com"

	// the other submit commits its insert between our read and our insert
	raced := false
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:race_user", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "users" {
			return
		}
		raced = true
		now := time.Now()
		_ = tx.Session(&gorm.Session{NewDB: true}).Exec(
			`INSERT INTO users (id, email, first_name, last_name, user_type, is_approved, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, email, "Marie", "Ngo", "client", true, now, now,
		).Error
	}))
	t.Cleanup(func() { _ = gdb.Callback().Create().Remove("test:race_user") })

	user, err := r.UpsertUser(ctx, onboarding.RegisterUserInput{
		UserID: id,
		Email:  email,
		Type:   onboarding.UserTypeClient,
		Info:   onboarding.PersonalInfo{FirstName: "Marie-Claire", LastName: "Ngo", PhoneNumber: "+237699000000"},
	})
	require.NoError(t, err)
	require.True(t, raced)
	assert.Equal(t, "Marie-Claire", user.FirstName)
	assert.True(t, user.IsApproved)

	var count int64
	gdb.Model(&models.User{}).Where("id = ?", id).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertUser_HairdresserUnapprovedWithProfileRow(t *testing.T) {
	r, gdb := newTestRepo(t)
	id := register(t, r, onboarding.UserTypeHairdresser)

	user, err := r.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, user.IsApproved)

	var profile models.HairdresserProfile
	require.NoError(t, gdb.Where("user_id = ?", id).First(&profile).Error)
	assert.False(t, profile.HasPaidRegistration)
	assert.False(t, profile.HasAcceptedTerms)

	// approval survives a repeated personal-info submission
	_, err = r.ApproveHairdresser(context.Background(), id)
	require.NoError(t, err)
	register2 := onboarding.RegisterUserInput{
		UserID: id,
		Email:  id.String() + "@example.com",
		Type:   onboarding.UserTypeHairdresser,
		Info:   onboarding.PersonalInfo{FirstName: "New", LastName: "Name", PhoneNumber: "+237650000001"},
	}
	user, err = r.UpsertUser(context.Background(), register2)
	require.NoError(t, err)
	assert.True(t, user.IsApproved)
}

func TestTerms_UpsertTwiceKeepsOneRow(t *testing.T) {
	r, gdb := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeClient)

	p, err := r.UpsertClientTerms(ctx, id, true)
	require.NoError(t, err)
	assert.True(t, p.HasAcceptedTerms)

	_, err = r.UpsertClientTerms(ctx, id, true)
	require.NoError(t, err)

	var count int64
	gdb.Model(&models.ClientProfile{}).Where("user_id = ?", id).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTerms_WrongTypeAndMissingUser(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	client := register(t, r, onboarding.UserTypeClient)

	_, err := r.UpsertHairdresserTerms(ctx, client, true)
	assert.True(t, httperr.IsBusiness(err, onboarding.CodeWrongUserType))

	_, err = r.UpsertClientTerms(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, onboarding.ErrNotFound)
}

func TestReplaceHairstyles_Wholesale(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeHairdresser)

	_, err := r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{
		{HairstyleID: 1, Price: 10000},
		{HairstyleID: 2, Price: 5000},
	})
	require.NoError(t, err)

	_, err = r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{
		{HairstyleID: 3, Price: 16000, PortfolioImages: []string{"a.webp", "b.webp"}},
	})
	require.NoError(t, err)

	list, err := r.ListHairdresserHairstyles(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(3), list[0].HairstyleID)
	assert.Equal(t, int64(16000), list[0].Price)
	assert.Equal(t, []string{"a.webp", "b.webp"}, list[0].PortfolioImages)
}

func TestReplaceHairstyles_UnknownCatalogEntry(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeHairdresser)

	_, err := r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{{HairstyleID: 1, Price: 10000}})
	require.NoError(t, err)

	_, err = r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{{HairstyleID: 999, Price: 10000}})
	assert.True(t, httperr.IsBusiness(err, onboarding.CodeUnknownHairstyle))

	list, err := r.ListHairdresserHairstyles(ctx, id)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReplaceHairstyles_InsertFailureLeavesPreviousSet(t *testing.T) {
	r, gdb := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeHairdresser)

	_, err := r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{
		{HairstyleID: 1, Price: 10000},
		{HairstyleID: 2, Price: 5000},
	})
	require.NoError(t, err)

	boom := errors.New("insert failed")
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:fail_hairstyles", func(tx *gorm.DB) {
		if tx.Statement.Table == "hairdresser_hairstyles" {
			_ = tx.AddError(boom)
		}
	}))

	_, err = r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{{HairstyleID: 4, Price: 20000}})
	require.Error(t, err)
	assert.ErrorIs(t, err, onboarding.ErrPersistence)

	require.NoError(t, gdb.Callback().Create().Remove("test:fail_hairstyles"))

	list, err := r.ListHairdresserHairstyles(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(1), list[0].HairstyleID)
	assert.Equal(t, uint(2), list[1].HairstyleID)
}

func TestReplaceHairstyles_ForeignKeyRaceIsUnknownHairstyle(t *testing.T) {
	r, gdb := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeHairdresser)

	_, err := r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{{HairstyleID: 1, Price: 10000}})
	require.NoError(t, err)

	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:fk_hairstyles", func(tx *gorm.DB) {
		if tx.Statement.Table == "hairdresser_hairstyles" {
			_ = tx.AddError(&pgconn.PgError{Code: "23503"})
		}
	}))
	t.Cleanup(func() { _ = gdb.Callback().Create().Remove("test:fk_hairstyles") })

	_, err = r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{{HairstyleID: 2, Price: 5000}})
	assert.True(t, httperr.IsBusiness(err, onboarding.CodeUnknownHairstyle))

	list, err := r.ListHairdresserHairstyles(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(1), list[0].HairstyleID)
}

func TestRegistrationPayment_RecordsProfileAndTransactionTogether(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeHairdresser)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tr, err := r.RecordRegistrationPayment(ctx, onboarding.RegistrationPayment{
		UserID:    id,
		Method:    onboarding.PaymentOrangeMoney,
		Reference: "TR-1",
		Amount:    1500,
	}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), tr.Amount)
	assert.Equal(t, int64(1500), tr.PlatformFee)
	assert.Equal(t, "registration", tr.TransactionType)

	state, err := r.GetProfileState(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, state.Hairdresser)
	assert.True(t, state.Hairdresser.HasPaidRegistration)
	require.NotNil(t, state.Hairdresser.PaymentReference)
	assert.Equal(t, "TR-1", *state.Hairdresser.PaymentReference)
}

func TestRegistrationPayment_ReplayAndConflict(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeHairdresser)
	pay := onboarding.RegistrationPayment{UserID: id, Method: onboarding.PaymentMTNMoney, Reference: "TR-9", Amount: 1500}

	first, err := r.RecordRegistrationPayment(ctx, pay, time.Now())
	require.NoError(t, err)

	again, err := r.RecordRegistrationPayment(ctx, pay, time.Now())
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	pay.Reference = "TR-10"
	_, err = r.RecordRegistrationPayment(ctx, pay, time.Now())
	assert.True(t, httperr.IsBusiness(err, onboarding.CodeAlreadyPaid))

	_, total, err := r.ListTransactions(ctx, onboarding.TransactionFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRegistrationPayment_TransactionFailureLeavesProfileUnpaid(t *testing.T) {
	r, gdb := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeHairdresser)

	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:fail_transactions", func(tx *gorm.DB) {
		if tx.Statement.Table == "transactions" {
			_ = tx.AddError(errors.New("insert failed"))
		}
	}))

	_, err := r.RecordRegistrationPayment(ctx, onboarding.RegistrationPayment{
		UserID: id, Method: onboarding.PaymentOrangeMoney, Reference: "TR-1", Amount: 1500,
	}, time.Now())
	require.Error(t, err)
	require.NoError(t, gdb.Callback().Create().Remove("test:fail_transactions"))

	state, err := r.GetProfileState(ctx, id)
	require.NoError(t, err)
	assert.False(t, state.Hairdresser.HasPaidRegistration)
	assert.Nil(t, state.Hairdresser.PaymentReference)
}

func TestAppointmentPayment_FeeComputedByWritePath(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	client := register(t, r, onboarding.UserTypeClient)

	tr, err := r.RecordAppointmentPayment(ctx, onboarding.AppointmentPayment{
		UserID:        client,
		AppointmentID: 42,
		Amount:        10001,
		Method:        onboarding.PaymentMTNMoney,
		Reference:     "AP-1",
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(4000), tr.PlatformFee)
	require.NotNil(t, tr.AppointmentID)
	assert.Equal(t, uint(42), *tr.AppointmentID)

	_, err = r.RecordAppointmentPayment(ctx, onboarding.AppointmentPayment{
		UserID: uuid.New(), AppointmentID: 1, Amount: 100, Method: onboarding.PaymentMTNMoney,
	}, time.Now())
	assert.ErrorIs(t, err, onboarding.ErrNotFound)
}

func TestProfileState_CompletenessFollowsSteps(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeHairdresser)

	state, err := r.GetProfileState(ctx, id)
	require.NoError(t, err)
	assert.False(t, state.RegistrationComplete())

	_, err = r.UpsertHairdresserTerms(ctx, id, true)
	require.NoError(t, err)
	_, err = r.ReplaceHairdresserHairstyles(ctx, id, []onboarding.HairstyleSelection{{HairstyleID: 1, Price: 10000}})
	require.NoError(t, err)

	state, err = r.GetProfileState(ctx, id)
	require.NoError(t, err)
	assert.False(t, state.RegistrationComplete())

	_, err = r.RecordRegistrationPayment(ctx, onboarding.RegistrationPayment{
		UserID: id, Method: onboarding.PaymentOrangeMoney, Reference: "TR-1", Amount: 1500,
	}, time.Now())
	require.NoError(t, err)

	state, err = r.GetProfileState(ctx, id)
	require.NoError(t, err)
	assert.True(t, state.RegistrationComplete())
	assert.EqualValues(t, 1, state.HairstyleCount)
}

func TestRecordLogin(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	id := register(t, r, onboarding.UserTypeClient)
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, r.RecordLogin(ctx, id, at))
	user, err := r.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginAt)
	assert.True(t, user.LastLoginAt.Equal(at))

	assert.ErrorIs(t, r.RecordLogin(ctx, uuid.New(), at), onboarding.ErrNotFound)
}

func TestListUsersAndApprove(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	register(t, r, onboarding.UserTypeClient)
	hd := register(t, r, onboarding.UserTypeHairdresser)

	pending := false
	users, err := r.ListUsers(ctx, onboarding.UserFilter{Type: onboarding.UserTypeHairdresser, Approved: &pending})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, hd, users[0].ID)

	user, err := r.ApproveHairdresser(ctx, hd)
	require.NoError(t, err)
	assert.True(t, user.IsApproved)

	users, err = r.ListUsers(ctx, onboarding.UserFilter{Type: onboarding.UserTypeHairdresser, Approved: &pending})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestListTransactions_Paginates(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	client := register(t, r, onboarding.UserTypeClient)

	for i := 1; i <= 3; i++ {
		_, err := r.RecordAppointmentPayment(ctx, onboarding.AppointmentPayment{
			UserID: client, AppointmentID: uint(i), Amount: 1000, Method: onboarding.PaymentOrangeMoney,
		}, time.Date(2026, 1, i, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}

	list, total, err := r.ListTransactions(ctx, onboarding.TransactionFilter{
		Type:  onboarding.TransactionAppointment,
		Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, uint(3), *list[0].AppointmentID)

	list, _, err = r.ListTransactions(ctx, onboarding.TransactionFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(1), *list[0].AppointmentID)
}
