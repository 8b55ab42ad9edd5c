package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
	"github.com/BruksfildServices01/salon-onboarding/internal/middleware"
	"github.com/BruksfildServices01/salon-onboarding/internal/timezone"
)

// responder writes error responses and forwards unexpected failures to
// diagnostics. Every handler embeds one.
type responder struct {
	reporter diagnostics.Reporter
}

func newResponder(r diagnostics.Reporter) responder {
	if r == nil {
		r = diagnostics.Nop{}
	}
	return responder{reporter: r}
}

func (r responder) fail(c *gin.Context, op string, err error) {
	if httperr.FromError(c, err) {
		r.reporter.Capture("api", err, map[string]any{
			"operation": op,
			"path":      c.FullPath(),
		})
	}
}

func invalidBody(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", err.Error())
}

// ownerID resolves the user a write acts for. The body must name the token
// subject; anything else is rejected before business logic runs.
func ownerID(c *gin.Context, raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		httperr.FromError(c, onboarding.NewValidationError("user_id", "required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httperr.FromError(c, onboarding.NewValidationError("user_id", "invalid"))
		return uuid.Nil, false
	}
	if id != middleware.UserID(c) {
		httperr.Forbidden(c, "user_id_mismatch", "user_id does not match the authenticated user.")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID reads an optional uuid query parameter.
func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httperr.FromError(c, onboarding.NewValidationError(name, "invalid"))
		return nil, false
	}
	return &id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		httperr.FromError(c, onboarding.NewValidationError(name, "invalid"))
		return nil, false
	}
	return &b, true
}

// queryDateRange reads from/to as local days; to is inclusive.
func queryDateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	verr := &onboarding.ValidationError{}

	if s := c.Query("from"); s != "" {
		if d, err := timezone.ParseDate(s); err == nil {
			from = &d
		} else {
			verr.Add("from", "invalid_date")
		}
	}
	if s := c.Query("to"); s != "" {
		if d, err := timezone.ParseDate(s); err == nil {
			end := d.Add(24*time.Hour - time.Nanosecond)
			to = &end
		} else {
			verr.Add("to", "invalid_date")
		}
	}

	if err := verr.OrNil(); err != nil {
		httperr.FromError(c, err)
		return nil, nil, false
	}
	return from, to, true
}
