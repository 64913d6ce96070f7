package assessment

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Assessment is a player's registration record for a club tryout.
// Price is in minor currency units (cents).
type Assessment struct {
	ID            uint
	ClubID        uint
	PlayerName    string
	PayerPhone    string
	PayerEmail    string
	Price         int64
	PaymentStatus PaymentStatus

	// Checkout session id at the hosted provider, set when a
	// hosted-checkout payment attempt is opened. Latest wins.
	ProviderSessionRef string

	// Session id or manual reference recorded when the payment settles.
	PaidSessionRef string

	CreatedAt time.Time
	UpdatedAt time.Time
}
