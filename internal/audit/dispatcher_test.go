package audit

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

func TestDispatcher_WritesQueuedEvents(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	d := NewDispatcher(New(db), nil)
	uid := uuid.New()
	d.Dispatch(Event{
		UserID:   &uid,
		Action:   ActionAcceptTerms,
		Entity:   "client_profile",
		EntityID: uid.String(),
		Metadata: map[string]any{"accepted": true},
	})
	d.Close()

	var rows []models.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, ActionAcceptTerms, rows[0].Action)
	assert.JSONEq(t, `{"accepted":true}`, rows[0].Metadata)
	require.NotNil(t, rows[0].UserID)
	assert.Equal(t, uid, *rows[0].UserID)
}
