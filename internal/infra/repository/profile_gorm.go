package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

var _ onboarding.Repository = (*ProfileGormRepository)(nil)

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *ProfileGormRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (r *ProfileGormRepository) GetProfileState(
	ctx context.Context,
	id uuid.UUID,
) (*onboarding.ProfileState, error) {

	db := r.db.WithContext(ctx)

	user, err := r.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	state := &onboarding.ProfileState{User: user}

	var client models.ClientProfile
	switch err := db.Where("user_id = ?", id).First(&client).Error; {
	case err == nil:
		state.Client = &client
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, wrap("get client profile", err)
	}

	var hd models.HairdresserProfile
	switch err := db.Where("user_id = ?", id).First(&hd).Error; {
	case err == nil:
		state.Hairdresser = &hd
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, wrap("get hairdresser profile", err)
	}

	if err := db.Model(&models.HairdresserHairstyle{}).
		Where("hairdresser_id = ?", id).
		Count(&state.HairstyleCount).Error; err != nil {
		return nil, wrap("count hairstyles", err)
	}

	return state, nil
}

func (r *ProfileGormRepository) ListCatalog(
	ctx context.Context,
) ([]models.Hairstyle, error) {

	var list []models.Hairstyle
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, wrap("list catalog", err)
	}
	return list, nil
}

func (r *ProfileGormRepository) ListHairdresserHairstyles(
	ctx context.Context,
	hairdresserID uuid.UUID,
) ([]models.HairdresserHairstyle, error) {

	var list []models.HairdresserHairstyle
	if err := r.db.WithContext(ctx).
		Where("hairdresser_id = ?", hairdresserID).
		Order("hairstyle_id ASC").
		Find(&list).Error; err != nil {
		return nil, wrap("list hairdresser hairstyles", err)
	}
	return list, nil
}

// --------------------------------------------------
// Personal info
// --------------------------------------------------

func (r *ProfileGormRepository) UpsertUser(
	ctx context.Context,
	in onboarding.RegisterUserInput,
) (*models.User, error) {

	var user models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).
			Where("email = ? AND id <> ?", in.Email, in.UserID).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return httperr.ErrBusiness(onboarding.CodeEmailTaken)
		}

		switch err := lockUser(tx, in.UserID, &user); {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, err := insertUser(tx, in)
			if err != nil {
				return err
			}
			if !created {
				// a concurrent first submit for the same id won the insert
				if err := lockUser(tx, in.UserID, &user); err != nil {
					return err
				}
				if err := updatePersonalInfo(tx, &user, in); err != nil {
					return err
				}
			}

		case err != nil:
			return err

		default:
			if err := updatePersonalInfo(tx, &user, in); err != nil {
				return err
			}
		}

		if in.Type == onboarding.UserTypeHairdresser {
			if err := ensureHairdresserProfile(tx, in.UserID); err != nil {
				return err
			}
		}

		return tx.First(&user, "id = ?", in.UserID).Error
	})
	if err != nil {
		return nil, wrap("upsert user", err)
	}
	return &user, nil
}

// --------------------------------------------------
// Terms
// --------------------------------------------------

func (r *ProfileGormRepository) UpsertClientTerms(
	ctx context.Context,
	userID uuid.UUID,
	accepted bool,
) (*models.ClientProfile, error) {

	var profile models.ClientProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUserType(tx, userID, onboarding.UserTypeClient); err != nil {
			return err
		}

		row := models.ClientProfile{UserID: userID, HasAcceptedTerms: accepted}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"has_accepted_terms", "updated_at"}),
		}).Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		return nil, wrap("upsert client terms", err)
	}
	return &profile, nil
}

func (r *ProfileGormRepository) UpsertHairdresserTerms(
	ctx context.Context,
	userID uuid.UUID,
	accepted bool,
) (*models.HairdresserProfile, error) {

	var profile models.HairdresserProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUserType(tx, userID, onboarding.UserTypeHairdresser); err != nil {
			return err
		}

		row := models.HairdresserProfile{UserID: userID, HasAcceptedTerms: accepted}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"has_accepted_terms", "updated_at"}),
		}).Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		return nil, wrap("upsert hairdresser terms", err)
	}
	return &profile, nil
}

// --------------------------------------------------
// Hairstyles
// --------------------------------------------------

// ReplaceHairdresserHairstyles swaps the whole selection in one transaction.
// The profile row lock serializes concurrent replacements for the same
// hairdresser, so the unique index is never hit by a racing insert.
func (r *ProfileGormRepository) ReplaceHairdresserHairstyles(
	ctx context.Context,
	hairdresserID uuid.UUID,
	sel []onboarding.HairstyleSelection,
) ([]models.HairdresserHairstyle, error) {

	rows := make([]models.HairdresserHairstyle, 0, len(sel))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockHairdresserProfile(tx, hairdresserID); err != nil {
			return err
		}

		ids := make([]uint, 0, len(sel))
		for _, s := range sel {
			ids = append(ids, s.HairstyleID)
		}

		var known int64
		if err := tx.Model(&models.Hairstyle{}).
			Where("id IN ?", ids).
			Count(&known).Error; err != nil {
			return err
		}
		if known != int64(len(ids)) {
			return httperr.ErrBusiness(onboarding.CodeUnknownHairstyle)
		}

		if err := tx.
			Where("hairdresser_id = ?", hairdresserID).
			Delete(&models.HairdresserHairstyle{}).Error; err != nil {
			return err
		}

		for _, s := range sel {
			images := s.PortfolioImages
			if images == nil {
				images = []string{}
			}
			rows = append(rows, models.HairdresserHairstyle{
				HairdresserID:   hairdresserID,
				HairstyleID:     s.HairstyleID,
				Price:           s.Price,
				PortfolioImages: images,
			})
		}

		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			// a catalog entry removed after the check above
			if httperr.IsForeignKeyViolation(err) {
				return httperr.ErrBusiness(onboarding.CodeUnknownHairstyle)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, wrap("replace hairdresser hairstyles", err)
	}
	return rows, nil
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

// RecordRegistrationPayment marks the profile paid and inserts the
// registration transaction together. Replaying the same reference returns
// the already recorded transaction.
func (r *ProfileGormRepository) RecordRegistrationPayment(
	ctx context.Context,
	p onboarding.RegistrationPayment,
	now time.Time,
) (*models.Transaction, error) {

	var out *models.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := lockHairdresserProfile(tx, p.UserID)
		if err != nil {
			return err
		}

		if profile.HasPaidRegistration {
			if profile.PaymentReference == nil || *profile.PaymentReference != p.Reference {
				return httperr.ErrBusiness(onboarding.CodeAlreadyPaid)
			}
			var existing models.Transaction
			if err := tx.
				Where("user_id = ? AND transaction_type = ?", p.UserID, onboarding.TransactionRegistration).
				Order("id ASC").
				First(&existing).Error; err != nil {
				return err
			}
			out = &existing
			return nil
		}

		t, err := onboarding.NewTransaction(onboarding.TransactionInput{
			Type:             onboarding.TransactionRegistration,
			UserID:           p.UserID,
			Amount:           p.Amount,
			PaymentMethod:    p.Method,
			PaymentReference: p.Reference,
			CreatedAt:        now,
		})
		if err != nil {
			return err
		}

		method := string(p.Method)
		ref := p.Reference
		if err := tx.Model(profile).Updates(map[string]any{
			"has_paid_registration": true,
			"payment_date":          now,
			"payment_method":        method,
			"payment_reference":     ref,
		}).Error; err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, wrap("record registration payment", err)
	}
	return out, nil
}

func (r *ProfileGormRepository) RecordAppointmentPayment(
	ctx context.Context,
	p onboarding.AppointmentPayment,
	now time.Time,
) (*models.Transaction, error) {

	appointmentID := p.AppointmentID
	t, err := onboarding.NewTransaction(onboarding.TransactionInput{
		Type:             onboarding.TransactionAppointment,
		UserID:           p.UserID,
		Amount:           p.Amount,
		AppointmentID:    &appointmentID,
		PaymentMethod:    p.Method,
		PaymentReference: p.Reference,
		CreatedAt:        now,
	})
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", p.UserID).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(t).Error
	})
	if err != nil {
		return nil, wrap("record appointment payment", err)
	}
	return t, nil
}

// --------------------------------------------------
// Session side effects
// --------------------------------------------------

func (r *ProfileGormRepository) RecordLogin(
	ctx context.Context,
	userID uuid.UUID,
	at time.Time,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at)
	if res.Error != nil {
		return wrap("record login", res.Error)
	}
	if res.RowsAffected == 0 {
		return onboarding.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (r *ProfileGormRepository) ListUsers(
	ctx context.Context,
	filter onboarding.UserFilter,
) ([]models.User, error) {

	q := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Type != "" {
		q = q.Where("user_type = ?", string(filter.Type))
	}
	if filter.Approved != nil {
		q = q.Where("is_approved = ?", *filter.Approved)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, wrap("list users", err)
	}
	return users, nil
}

func (r *ProfileGormRepository) ApproveHairdresser(
	ctx context.Context,
	userID uuid.UUID,
) (*models.User, error) {

	var user models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if user.UserType != string(onboarding.UserTypeHairdresser) {
			return httperr.ErrBusiness(onboarding.CodeWrongUserType)
		}
		if user.IsApproved {
			return nil
		}
		user.IsApproved = true
		return tx.Model(&user).Update("is_approved", true).Error
	})
	if err != nil {
		return nil, wrap("approve hairdresser", err)
	}
	return &user, nil
}

func (r *ProfileGormRepository) ListTransactions(
	ctx context.Context,
	filter onboarding.TransactionFilter,
) ([]models.Transaction, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.Type != "" {
		q = q.Where("transaction_type = ?", string(filter.Type))
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrap("count transactions", err)
	}

	var list []models.Transaction
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&list).Error; err != nil {
		return nil, 0, wrap("list transactions", err)
	}

	return list, total, nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func lockUser(tx *gorm.DB, id uuid.UUID, user *models.User) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(user, "id = ?", id).Error
}

// insertUser creates the row unless one with the same id already exists.
// A unique violation left after that can only come from the email index.
func insertUser(tx *gorm.DB, in onboarding.RegisterUserInput) (bool, error) {
	user := models.User{
		ID:              in.UserID,
		Email:           in.Email,
		FirstName:       in.Info.FirstName,
		LastName:        in.Info.LastName,
		PhoneNumber:     optional(in.Info.PhoneNumber),
		UserType:        string(in.Type),
		ProfileImageURL: optional(in.Info.ProfileImageURL),
		IsApproved:      in.Type == onboarding.UserTypeClient,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&user)
	if res.Error != nil {
		if httperr.IsUniqueViolation(res.Error) {
			return false, httperr.ErrBusiness(onboarding.CodeEmailTaken)
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func updatePersonalInfo(tx *gorm.DB, user *models.User, in onboarding.RegisterUserInput) error {
	if !onboarding.CanChangeUserType(user.UserType, in.Type) {
		return httperr.ErrBusiness(onboarding.CodeUserTypeConflict)
	}

	updates := map[string]any{
		"email":        in.Email,
		"first_name":   in.Info.FirstName,
		"last_name":    in.Info.LastName,
		"phone_number": optional(in.Info.PhoneNumber),
		"user_type":    string(in.Type),
	}
	if in.Info.ProfileImageURL != "" {
		updates["profile_image_url"] = in.Info.ProfileImageURL
	}
	// approval is granted by an admin and never revoked by re-registering
	if in.Type == onboarding.UserTypeClient {
		updates["is_approved"] = true
	}
	return tx.Model(user).Updates(updates).Error
}

func requireUserType(tx *gorm.DB, id uuid.UUID, want onboarding.UserType) error {
	var user models.User
	if err := tx.Select("id", "user_type").First(&user, "id = ?", id).Error; err != nil {
		return err
	}
	if user.UserType != string(want) {
		return httperr.ErrBusiness(onboarding.CodeWrongUserType)
	}
	return nil
}

func ensureHairdresserProfile(tx *gorm.DB, id uuid.UUID) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&models.HairdresserProfile{UserID: id}).Error
}

// lockHairdresserProfile takes the row lock every hairdresser write path
// serializes on, creating the row first when registration skipped it.
func lockHairdresserProfile(tx *gorm.DB, id uuid.UUID) (*models.HairdresserProfile, error) {
	if err := requireUserType(tx, id, onboarding.UserTypeHairdresser); err != nil {
		return nil, err
	}
	if err := ensureHairdresserProfile(tx, id); err != nil {
		return nil, err
	}

	var profile models.HairdresserProfile
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", id).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// wrap keeps domain errors intact and turns everything else into a
// PersistenceError.
func wrap(op string, err error) error {
	var be httperr.BusinessError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return onboarding.ErrNotFound
	case errors.As(err, &be), onboarding.IsValidation(err),
		errors.Is(err, onboarding.ErrNotFound), errors.Is(err, onboarding.ErrPersistence):
		return err
	}
	return onboarding.NewPersistenceError(op, err)
}
