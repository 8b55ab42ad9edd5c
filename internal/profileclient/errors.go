package profileclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
)

// Error is a non-2xx response that does not map to a more specific
// onboarding error.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func parseError(status int, body []byte) error {
	var payload httperr.HTTPError
	_ = json.Unmarshal(body, &payload)

	apiErr := &Error{StatusCode: status, Code: payload.Code, Message: payload.Message}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	switch {
	case status == http.StatusBadRequest && len(payload.Fields) > 0:
		return &onboarding.ValidationError{Fields: payload.Fields}
	case payload.Code != "" && status == httperr.BusinessStatus(payload.Code):
		return httperr.ErrBusiness(payload.Code)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", onboarding.ErrAuthentication, apiErr.Message)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", onboarding.ErrAuthorization, apiErr.Message)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", onboarding.ErrNotFound, apiErr.Message)
	case status >= http.StatusInternalServerError:
		return onboarding.NewPersistenceError("api", apiErr)
	}
	return apiErr
}
