package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
)

type HTTPError struct {
	Code    string                  `json:"error_code"`
	Message string                  `json:"message"`
	Fields  []onboarding.FieldError `json:"fields,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func MethodNotAllowed(c *gin.Context) {
	Write(c, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed.")
}

// businessStatus overrides the default 409 for business codes that are not
// state conflicts.
var businessStatus = map[string]int{
	onboarding.CodeWrongUserType:    http.StatusForbidden,
	onboarding.CodeUnknownHairstyle: http.StatusUnprocessableEntity,
}

// BusinessStatus is the HTTP status a business code is answered with.
func BusinessStatus(code string) int {
	if status, ok := businessStatus[code]; ok {
		return status
	}
	return http.StatusConflict
}

// FromError maps the onboarding error taxonomy onto a response. It reports
// whether the error was unexpected, so callers know to send it to
// diagnostics.
func FromError(c *gin.Context, err error) (unexpected bool) {
	var verr *onboarding.ValidationError
	code, business := BusinessCode(err)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    "validation_error",
			Message: "Invalid input.",
			Fields:  verr.Fields,
		})
	case business:
		Write(c, BusinessStatus(code), code, code)
	case errors.Is(err, onboarding.ErrAuthentication):
		Unauthorized(c, "unauthenticated", "Authentication required.")
	case errors.Is(err, onboarding.ErrAuthorization):
		Forbidden(c, "forbidden", "Not allowed.")
	case errors.Is(err, onboarding.ErrNotFound):
		NotFound(c, "profile_not_found", "User profile not found.")
	default:
		Internal(c, "internal_error", "Something went wrong. Please try again.")
		return true
	}
	return false
}
