package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	"github.com/BruksfildServices01/salon-onboarding/internal/authz"
	"github.com/BruksfildServices01/salon-onboarding/internal/config"
	"github.com/BruksfildServices01/salon-onboarding/internal/db"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/identity"
	"github.com/BruksfildServices01/salon-onboarding/internal/metrics"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
	"github.com/BruksfildServices01/salon-onboarding/internal/profileclient"
	"github.com/BruksfildServices01/salon-onboarding/internal/registration"
	"github.com/BruksfildServices01/salon-onboarding/internal/session"
)

const testSecret = "routes-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	audit  *audit.Dispatcher
}

func newEnv(t *testing.T) *testEnv {
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

	dispatcher := audit.NewDispatcher(audit.New(gdb), nil)
	t.Cleanup(dispatcher.Close)

	cfg := &config.Config{
		JWTSecret:       testSecret,
		RegistrationFee: onboarding.DefaultRegistrationFee,
		CatalogCacheTTL: time.Minute,
	}
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:      gdb,
		Config:  cfg,
		Audit:   dispatcher,
		Metrics: metrics.New(),
	})

	return &testEnv{router: r, db: gdb, audit: dispatcher}
}

func signToken(t *testing.T, id uuid.UUID, email string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.String(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createAdmin(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	require.NoError(t, e.db.Create(&models.User{
		ID: id, Email: "admin@example.com", FirstName: "Ada", LastName: "Admin",
		UserType: string(onboarding.UserTypeAdmin), IsApproved: true,
	}).Error)
	return id, signToken(t, id, "admin@example.com")
}

// signIn wires the client side against srv the way cmd/onboard does.
func signIn(t *testing.T, srv *httptest.Server, id uuid.UUID, email string) (*session.Manager, *profileclient.Client) {
	t.Helper()

	client := profileclient.New(srv.URL)
	provider := identity.NewTokenProvider()
	mgr := session.NewManager(session.Deps{
		Provider: provider,
		Profiles: client,
		Logins:   client,
	})
	t.Cleanup(mgr.Close)

	ctx := context.Background()
	require.NoError(t, mgr.Initialize(ctx))
	require.NoError(t, provider.Establish(signToken(t, id, email)))
	require.NotNil(t, mgr.Session())
	return mgr, client
}

// ======================================================
// End to end
// ======================================================

func TestClientRegistration_EndToEnd(t *testing.T) {
	env := newEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	id := uuid.New()
	mgr, client := signIn(t, srv, id, "marie@example.com")
	assert.Nil(t, mgr.Profile())

	ctx := context.Background()
	wf, err := registration.New(onboarding.UserTypeClient, client, mgr, registration.Options{})
	require.NoError(t, err)

	require.NoError(t, wf.SubmitPersonalInfo(ctx, onboarding.PersonalInfo{
		FirstName: "Marie", LastName: "Ngo", PhoneNumber: "+237699000000",
	}))
	require.NoError(t, wf.SubmitTerms(ctx, true))

	home, err := wf.Finish()
	require.NoError(t, err)
	assert.Equal(t, authz.ClientHome, home)

	profile := mgr.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, onboarding.UserTypeClient, profile.UserType())
	require.NotNil(t, profile.ClientProfile)
	assert.True(t, profile.ClientProfile.HasAcceptedTerms)
	assert.True(t, profile.Capabilities.RegistrationComplete)
	assert.True(t, profile.Capabilities.CanBook)

	var cp models.ClientProfile
	require.NoError(t, env.db.Where("user_id = ?", id).First(&cp).Error)
	assert.True(t, cp.HasAcceptedTerms)

	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", id).Error)
	assert.Equal(t, "marie@example.com", user.Email)
	assert.True(t, user.IsApproved)
}

func TestHairdresserRegistration_EndToEnd(t *testing.T) {
	env := newEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	id := uuid.New()
	mgr, client := signIn(t, srv, id, "awa@example.com")

	ctx := context.Background()
	wf, err := registration.New(onboarding.UserTypeHairdresser, client, mgr, registration.Options{})
	require.NoError(t, err)

	require.NoError(t, wf.SubmitPersonalInfo(ctx, onboarding.PersonalInfo{
		FirstName: "Awa", LastName: "Bello", PhoneNumber: "+237677000000",
	}))
	require.NoError(t, wf.SubmitTerms(ctx, true))
	require.NoError(t, wf.SubmitHairstyles(ctx, []onboarding.HairstyleSelection{{HairstyleID: 1, Price: 10000}}))
	require.NoError(t, wf.SubmitPayment(ctx, onboarding.PaymentOrangeMoney, "TR-1"))
	assert.Equal(t, registration.StepSuccess, wf.CurrentStep())

	var rows []models.HairdresserHairstyle
	require.NoError(t, env.db.Where("hairdresser_id = ?", id).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].HairstyleID)
	assert.Equal(t, int64(10000), rows[0].Price)

	var hp models.HairdresserProfile
	require.NoError(t, env.db.Where("user_id = ?", id).First(&hp).Error)
	assert.True(t, hp.HasPaidRegistration)
	assert.True(t, hp.HasAcceptedTerms)
	require.NotNil(t, hp.PaymentMethod)
	assert.Equal(t, "orange-money", *hp.PaymentMethod)

	var txs []models.Transaction
	require.NoError(t, env.db.Where("user_id = ?", id).Find(&txs).Error)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(1500), txs[0].Amount)
	assert.Equal(t, int64(1500), txs[0].PlatformFee)
	assert.Equal(t, "registration", txs[0].TransactionType)

	profile := mgr.Profile()
	require.NotNil(t, profile)
	assert.True(t, profile.Capabilities.RegistrationComplete)
	assert.False(t, profile.Capabilities.CanAcceptAppointments)
	assert.Len(t, profile.Hairstyles, 1)

	// admin approval is observed on the next refresh
	_, adminToken := env.createAdmin(t)
	w := env.do(t, http.MethodPost, "/api/admin/hairdressers/approve", adminToken, dto.UserRequest{UserID: id.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, mgr.RefreshProfile(ctx))
	assert.True(t, mgr.Approved())

	env.audit.Close()
	var actions []string
	require.NoError(t, env.db.Model(&models.AuditLog{}).Order("id").Pluck("action", &actions).Error)
	assert.Equal(t, []string{
		audit.ActionRegisterUser,
		audit.ActionAcceptTerms,
		audit.ActionReplaceHairstyles,
		audit.ActionRegistrationPayment,
		audit.ActionApproveHairdresser,
	}, actions)
}

// ======================================================
// HTTP contract
// ======================================================

func TestRoutes_AuthAndOwnership(t *testing.T) {
	env := newEnv(t)
	id := uuid.New()
	tok := signToken(t, id, "marie@example.com")
	body := dto.RegisterUserRequest{UserID: id.String(), FirstName: "Marie", LastName: "Ngo", PhoneNumber: "+237699000000"}

	w := env.do(t, http.MethodPost, "/api/users/register-client", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := body
	other.UserID = uuid.NewString()
	w = env.do(t, http.MethodPost, "/api/users/register-client", tok, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "user_id_mismatch")

	bad := body
	bad.UserID = "not-a-uuid"
	w = env.do(t, http.MethodPost, "/api/users/register-client", tok, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"user_id"`)

	w = env.do(t, http.MethodGet, "/api/users/register-client", tok, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestRoutes_ProfileAndTypeConflict(t *testing.T) {
	env := newEnv(t)
	id := uuid.New()
	tok := signToken(t, id, "marie@example.com")

	w := env.do(t, http.MethodGet, "/api/users/profile", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := dto.RegisterUserRequest{UserID: id.String(), FirstName: "Marie", LastName: "Ngo", PhoneNumber: "+237699000000"}
	w = env.do(t, http.MethodPost, "/api/users/register-client", tok, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/users/register-hairdresser", tok, body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), onboarding.CodeUserTypeConflict)

	w = env.do(t, http.MethodPost, "/api/users/hairdresser-accept-terms", tok, map[string]any{
		"user_id": id.String(), "has_accepted_terms": true,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), onboarding.CodeWrongUserType)

	w = env.do(t, http.MethodGet, "/api/users/profile?user_id="+id.String(), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "client", resp.User.UserType)
	assert.False(t, resp.Capabilities.RegistrationComplete)

	stranger := signToken(t, uuid.New(), "x@example.com")
	w = env.do(t, http.MethodGet, "/api/users/profile?user_id="+id.String(), stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoutes_CatalogAndReplace(t *testing.T) {
	env := newEnv(t)
	id := uuid.New()
	tok := signToken(t, id, "awa@example.com")

	w := env.do(t, http.MethodGet, "/api/hairstyles", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var catalog dto.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	assert.Len(t, catalog.Hairstyles, len(db.DefaultCatalog))

	w = env.do(t, http.MethodPost, "/api/users/register-hairdresser", tok, dto.RegisterUserRequest{
		UserID: id.String(), FirstName: "Awa", LastName: "Bello", PhoneNumber: "+237677000000",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, set := range [][]dto.HairstyleItem{
		{{HairstyleID: 1, Price: 10000}, {HairstyleID: 2, Price: 5000}},
		{{HairstyleID: 3, Price: 15000}},
	} {
		w = env.do(t, http.MethodPost, "/api/users/hairdresser-hairstyles", tok, dto.HairstylesRequest{
			UserID: id.String(), Hairstyles: set,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var ids []uint
	require.NoError(t, env.db.Model(&models.HairdresserHairstyle{}).
		Where("hairdresser_id = ?", id).Pluck("hairstyle_id", &ids).Error)
	assert.Equal(t, []uint{3}, ids)

	w = env.do(t, http.MethodPost, "/api/users/hairdresser-hairstyles", tok, dto.HairstylesRequest{
		UserID: id.String(), Hairstyles: []dto.HairstyleItem{{HairstyleID: 999, Price: 100}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), onboarding.CodeUnknownHairstyle)
}

func TestRoutes_AdminOnly(t *testing.T) {
	env := newEnv(t)
	clientTok := signToken(t, uuid.New(), "c@example.com")

	w := env.do(t, http.MethodGet, "/api/admin/transactions", clientTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	hairdresser := uuid.New()
	require.NoError(t, env.db.Create(&models.User{
		ID: hairdresser, Email: "h@example.com", FirstName: "H", LastName: "D",
		UserType: string(onboarding.UserTypeHairdresser),
	}).Error)

	_, adminTok := env.createAdmin(t)
	w = env.do(t, http.MethodPost, "/api/admin/transactions/appointment", adminTok, dto.AppointmentPaymentRequest{
		UserID: hairdresser.String(), AppointmentID: 42, Amount: 10001,
		PaymentMethod: "mtn-money", PaymentReference: "MTN-42",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tx models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tx))
	assert.Equal(t, int64(4000), tx.PlatformFee)

	w = env.do(t, http.MethodGet, "/api/admin/transactions?type=appointment&limit=500", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.TransactionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, 50, list.Limit)

	w = env.do(t, http.MethodGet, "/api/admin/transactions?from=2026-13-01", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/users?type=hairdresser&approved=false", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users dto.UserListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users.Users, 1)
	assert.Equal(t, hairdresser, users.Users[0].ID)
}

func TestRoutes_UploadsDisabledWithoutStore(t *testing.T) {
	env := newEnv(t)
	id := uuid.New()
	w := env.do(t, http.MethodPost, "/api/users/portfolio-images", signToken(t, id, "a@example.com"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
