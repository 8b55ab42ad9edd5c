package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/middleware"
	ucOnboarding "github.com/BruksfildServices01/salon-onboarding/internal/usecase/onboarding"
)

// ======================================================
// HANDLER
// ======================================================

type RegistrationHandler struct {
	responder
	register    *ucOnboarding.RegisterUser
	acceptTerms *ucOnboarding.AcceptTerms
	payment     *ucOnboarding.RecordRegistrationPayment
}

func NewRegistrationHandler(
	register *ucOnboarding.RegisterUser,
	acceptTerms *ucOnboarding.AcceptTerms,
	payment *ucOnboarding.RecordRegistrationPayment,
	reporter diagnostics.Reporter,
) *RegistrationHandler {
	return &RegistrationHandler{
		responder:   newResponder(reporter),
		register:    register,
		acceptTerms: acceptTerms,
		payment:     payment,
	}
}

// ======================================================
// PERSONAL INFO
// ======================================================

func (h *RegistrationHandler) RegisterClient(c *gin.Context) {
	h.registerAs(c, onboarding.UserTypeClient)
}

func (h *RegistrationHandler) RegisterHairdresser(c *gin.Context) {
	h.registerAs(c, onboarding.UserTypeHairdresser)
}

func (h *RegistrationHandler) registerAs(c *gin.Context, role onboarding.UserType) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	userID, ok := ownerID(c, req.UserID)
	if !ok {
		return
	}

	user, err := h.register.Execute(c.Request.Context(), ucOnboarding.RegisterUserInput{
		UserID: userID,
		// email comes from the verified token, never the body
		Email: middleware.Email(c),
		Type:  role,
		Info: onboarding.PersonalInfo{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			PhoneNumber:     req.PhoneNumber,
			ProfileImageURL: req.ProfileImageURL,
		},
	})
	if err != nil {
		h.fail(c, "register_"+string(role), err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ======================================================
// TERMS
// ======================================================

func (h *RegistrationHandler) ClientAcceptTerms(c *gin.Context) {
	h.acceptTermsAs(c, onboarding.UserTypeClient)
}

func (h *RegistrationHandler) HairdresserAcceptTerms(c *gin.Context) {
	h.acceptTermsAs(c, onboarding.UserTypeHairdresser)
}

func (h *RegistrationHandler) acceptTermsAs(c *gin.Context, role onboarding.UserType) {
	var req dto.AcceptTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	userID, ok := ownerID(c, req.UserID)
	if !ok {
		return
	}

	profile, err := h.acceptTerms.Execute(c.Request.Context(), userID, role, req.HasAcceptedTerms)
	if err != nil {
		h.fail(c, "accept_terms_"+string(role), err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ======================================================
// PAYMENT
// ======================================================

func (h *RegistrationHandler) HairdresserPayment(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	userID, ok := ownerID(c, req.UserID)
	if !ok {
		return
	}

	tx, err := h.payment.Execute(c.Request.Context(), onboarding.RegistrationPayment{
		UserID:    userID,
		Method:    onboarding.PaymentMethod(req.PaymentMethod),
		Reference: req.PaymentReference,
		Amount:    req.Amount,
	})
	if err != nil {
		h.fail(c, "registration_payment", err)
		return
	}

	c.JSON(http.StatusOK, tx)
}
