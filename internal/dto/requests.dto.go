package dto

// Every write body names the user it acts for; the server checks it
// against the bearer token subject.

type RegisterUserRequest struct {
	UserID          string `json:"user_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

type AcceptTermsRequest struct {
	UserID           string `json:"user_id"`
	HasAcceptedTerms *bool  `json:"has_accepted_terms"`
}

type HairstyleItem struct {
	HairstyleID     uint     `json:"hairstyle_id"`
	Price           int64    `json:"price"`
	PortfolioImages []string `json:"portfolio_images,omitempty"`
}

type HairstylesRequest struct {
	UserID     string          `json:"user_id"`
	Hairstyles []HairstyleItem `json:"hairstyles"`
}

type PaymentRequest struct {
	UserID           string `json:"user_id"`
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference"`
	Amount           int64  `json:"amount"`
}

type UserRequest struct {
	UserID string `json:"user_id"`
}

type AppointmentPaymentRequest struct {
	UserID           string `json:"user_id"`
	AppointmentID    uint   `json:"appointment_id"`
	Amount           int64  `json:"amount"`
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference"`
}
