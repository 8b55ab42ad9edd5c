package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFromError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		status     int
		code       string
		unexpected bool
	}{
		{"validation", onboarding.NewValidationError("first_name", "required"), http.StatusBadRequest, "validation_error", false},
		{"business", ErrBusiness(onboarding.CodeAlreadyPaid), http.StatusConflict, "already_paid", false},
		{"wrong user type", ErrBusiness(onboarding.CodeWrongUserType), http.StatusForbidden, "wrong_user_type", false},
		{"unknown hairstyle", fmt.Errorf("replace: %w", ErrBusiness(onboarding.CodeUnknownHairstyle)), http.StatusUnprocessableEntity, "unknown_hairstyle", false},
		{"authn", fmt.Errorf("verify: %w", onboarding.ErrAuthentication), http.StatusUnauthorized, "unauthenticated", false},
		{"authz", onboarding.ErrAuthorization, http.StatusForbidden, "forbidden", false},
		{"not found", onboarding.ErrNotFound, http.StatusNotFound, "profile_not_found", false},
		{"persistence", onboarding.NewPersistenceError("op", errors.New("db down")), http.StatusInternalServerError, "internal_error", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			assert.Equal(t, tc.unexpected, FromError(c, tc.err))
			assert.Equal(t, tc.status, w.Code)

			var body HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestFromError_ValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	verr := onboarding.NewValidationError("phone_number", "invalid_format")
	FromError(c, verr)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "phone_number", body.Fields[0].Field)
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrBusiness("x"))
	assert.True(t, IsBusiness(err, "x"))
	assert.False(t, IsBusiness(err, "y"))
}

func TestBusinessCode(t *testing.T) {
	code, ok := BusinessCode(fmt.Errorf("replace: %w", ErrBusiness(onboarding.CodeUnknownHairstyle)))
	assert.True(t, ok)
	assert.Equal(t, onboarding.CodeUnknownHairstyle, code)

	_, ok = BusinessCode(errors.New("plain"))
	assert.False(t, ok)
}
