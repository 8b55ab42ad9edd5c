package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/authz"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
	"github.com/BruksfildServices01/salon-onboarding/internal/session"
)

const ContextUserType = "userType"

type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireRole loads the caller's stored user type and applies the same
// gate the client uses. A denied request gets 403 instead of a redirect.
func RequireRole(users UserLookup, required ...onboarding.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := UserID(c)

		var role onboarding.UserType
		user, err := users.GetUser(c.Request.Context(), id)
		switch {
		case err == nil:
			role = onboarding.UserType(user.UserType)
		case !errors.Is(err, onboarding.ErrNotFound):
			httperr.FromError(c, err)
			c.Abort()
			return
		}

		d := authz.Decide(&session.Session{UserID: id}, role, required...)
		if !d.Allowed {
			httperr.Forbidden(c, "forbidden", "Your role cannot use this endpoint.")
			c.Abort()
			return
		}

		c.Set(ContextUserType, role)
		c.Next()
	}
}

// CallerType is set by RequireRole.
func CallerType(c *gin.Context) onboarding.UserType {
	v, _ := c.Get(ContextUserType)
	t, _ := v.(onboarding.UserType)
	return t
}
