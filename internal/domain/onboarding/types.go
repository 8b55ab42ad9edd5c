package onboarding

// ===============================
// User types
// ===============================

type UserType string

const (
	UserTypeClient      UserType = "client"
	UserTypeHairdresser UserType = "hairdresser"
	UserTypeAdmin       UserType = "admin"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeClient, UserTypeHairdresser, UserTypeAdmin:
		return true
	}
	return false
}

// ===============================
// Payments
// ===============================

type TransactionType string

const (
	TransactionRegistration TransactionType = "registration"
	TransactionAppointment  TransactionType = "appointment"
)

type PaymentMethod string

const (
	PaymentOrangeMoney PaymentMethod = "orange-money"
	PaymentMTNMoney    PaymentMethod = "mtn-money"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentOrangeMoney || m == PaymentMTNMoney
}

// DefaultRegistrationFee is the one-time hairdresser fee in FCFA.
const DefaultRegistrationFee int64 = 1500
