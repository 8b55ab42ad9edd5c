package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
	"github.com/BruksfildServices01/salon-onboarding/internal/middleware"
	ucOnboarding "github.com/BruksfildServices01/salon-onboarding/internal/usecase/onboarding"
)

// ======================================================
// HANDLER
// ======================================================

// AdminHandler is mounted behind RequireRole(admin).
type AdminHandler struct {
	responder
	listUsers        *ucOnboarding.ListUsers
	approve          *ucOnboarding.ApproveHairdresser
	listTransactions *ucOnboarding.ListTransactions
	appointment      *ucOnboarding.RecordAppointmentPayment
}

func NewAdminHandler(
	listUsers *ucOnboarding.ListUsers,
	approve *ucOnboarding.ApproveHairdresser,
	listTransactions *ucOnboarding.ListTransactions,
	appointment *ucOnboarding.RecordAppointmentPayment,
	reporter diagnostics.Reporter,
) *AdminHandler {
	return &AdminHandler{
		responder:        newResponder(reporter),
		listUsers:        listUsers,
		approve:          approve,
		listTransactions: listTransactions,
		appointment:      appointment,
	}
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) Users(c *gin.Context) {
	approved, ok := queryBool(c, "approved")
	if !ok {
		return
	}

	users, err := h.listUsers.Execute(c.Request.Context(), onboarding.UserFilter{
		Type:     onboarding.UserType(c.Query("type")),
		Approved: approved,
	})
	if err != nil {
		h.fail(c, "list_users", err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{Users: users})
}

func (h *AdminHandler) Approve(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	target, err := uuid.Parse(req.UserID)
	if err != nil {
		httperr.FromError(c, onboarding.NewValidationError("user_id", "invalid"))
		return
	}

	user, err := h.approve.Execute(c.Request.Context(), middleware.UserID(c), target)
	if err != nil {
		h.fail(c, "approve_hairdresser", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ======================================================
// TRANSACTIONS
// ======================================================

func (h *AdminHandler) Transactions(c *gin.Context) {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}
	from, to, ok := queryDateRange(c)
	if !ok {
		return
	}

	out, err := h.listTransactions.Execute(c.Request.Context(), ucOnboarding.ListTransactionsInput{
		Filter: onboarding.TransactionFilter{
			Type:   onboarding.TransactionType(c.Query("type")),
			UserID: userID,
			From:   from,
			To:     to,
		},
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", ucOnboarding.DefaultPageSize),
	})
	if err != nil {
		h.fail(c, "list_transactions", err)
		return
	}

	c.JSON(http.StatusOK, dto.TransactionListResponse{
		Page:         out.Page,
		Limit:        out.Limit,
		Total:        out.Total,
		Transactions: out.Transactions,
	})
}

// AppointmentPayment records a settled appointment for the hairdresser in
// user_id. The platform fee is derived, never read from the body.
func (h *AdminHandler) AppointmentPayment(c *gin.Context) {
	var req dto.AppointmentPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	target, err := uuid.Parse(req.UserID)
	if err != nil {
		httperr.FromError(c, onboarding.NewValidationError("user_id", "invalid"))
		return
	}

	tx, err := h.appointment.Execute(c.Request.Context(), onboarding.AppointmentPayment{
		UserID:        target,
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Method:        onboarding.PaymentMethod(req.PaymentMethod),
		Reference:     req.PaymentReference,
	})
	if err != nil {
		h.fail(c, "appointment_payment", err)
		return
	}

	c.JSON(http.StatusOK, tx)
}
