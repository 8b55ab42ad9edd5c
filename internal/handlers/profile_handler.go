package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/middleware"
	ucOnboarding "github.com/BruksfildServices01/salon-onboarding/internal/usecase/onboarding"
)

type ProfileHandler struct {
	responder
	getProfile  *ucOnboarding.GetProfile
	recordLogin *ucOnboarding.RecordLogin
}

func NewProfileHandler(
	getProfile *ucOnboarding.GetProfile,
	recordLogin *ucOnboarding.RecordLogin,
	reporter diagnostics.Reporter,
) *ProfileHandler {
	return &ProfileHandler{
		responder:   newResponder(reporter),
		getProfile:  getProfile,
		recordLogin: recordLogin,
	}
}

// Get returns the profile named by ?user_id, defaulting to the caller.
func (h *ProfileHandler) Get(c *gin.Context) {
	caller := middleware.UserID(c)

	target, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}
	if target == nil {
		target = &caller
	}

	resp, err := h.getProfile.Execute(c.Request.Context(), caller, *target)
	if err != nil {
		h.fail(c, "get_profile", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) RecordLogin(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	userID, ok := ownerID(c, req.UserID)
	if !ok {
		return
	}

	if err := h.recordLogin.Execute(c.Request.Context(), userID); err != nil {
		h.fail(c, "record_login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
