package db

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-onboarding/internal/config"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

func NewDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	n, err := SeedCatalog(db)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		logger.Info("seeded hairstyle catalog", "inserted", n)
	}

	promoted, err := PromoteAdmins(db, cfg.AdminEmails)
	if err != nil {
		return nil, err
	}
	if promoted > 0 {
		logger.Info("promoted admin users", "count", promoted)
	}
	for _, email := range missingAdmins(db, cfg.AdminEmails) {
		logger.Warn("admin email has no registered user yet", "email", email)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.ClientProfile{},
		&models.HairdresserProfile{},
		&models.Hairstyle{},
		&models.HairdresserHairstyle{},
		&models.Transaction{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DefaultCatalog is the hairstyle catalog a fresh database starts with.
var DefaultCatalog = []models.Hairstyle{
	{Name: "Braids", Description: "Classic braided style", Price: 10000},
	{Name: "Fade Cut", Description: "Short fade haircut", Price: 5000},
	{Name: "Box Braids", Description: "Square-parted box braids", Price: 15000},
	{Name: "Dreadlocks", Description: "Locs installation or retwist", Price: 20000},
	{Name: "Twists", Description: "Two-strand twists", Price: 12000},
	{Name: "Cornrows", Description: "Braids close to the scalp", Price: 8000},
}

// SeedCatalog inserts missing catalog entries by name and reports how many
// were added. Existing prices are left alone.
func SeedCatalog(db *gorm.DB) (int, error) {
	inserted := 0
	for _, h := range DefaultCatalog {
		row := h
		res := db.Where("name = ?", h.Name).FirstOrCreate(&row)
		if res.Error != nil {
			return inserted, fmt.Errorf("seed %s: %w", h.Name, res.Error)
		}
		inserted += int(res.RowsAffected)
	}
	return inserted, nil
}

// PromoteAdmins turns the registered users with the given emails into
// approved admins. Emails match case-insensitively. Users that have not
// registered yet are left for a later start.
func PromoteAdmins(db *gorm.DB, emails []string) (int, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	res := db.Model(&models.User{}).
		Where("LOWER(email) IN ? AND user_type <> ?", lowered(emails), "admin").
		Updates(map[string]any{"user_type": "admin", "is_approved": true})
	if res.Error != nil {
		return 0, fmt.Errorf("promote admins: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func missingAdmins(db *gorm.DB, emails []string) []string {
	if len(emails) == 0 {
		return nil
	}
	var found []string
	if err := db.Model(&models.User{}).
		Where("LOWER(email) IN ?", lowered(emails)).
		Pluck("LOWER(email)", &found).Error; err != nil {
		return nil
	}
	var missing []string
	for _, e := range lowered(emails) {
		if !slices.Contains(found, e) {
			missing = append(missing, e)
		}
	}
	return missing
}

func lowered(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		out = append(out, strings.ToLower(strings.TrimSpace(e)))
	}
	return out
}
