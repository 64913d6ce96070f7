package payment

import (
	"time"
)

type Method string

const (
	MethodHostedCheckout Method = "HOSTED_CHECKOUT"
	MethodWalletTransfer Method = "WALLET_TRANSFER"
	MethodEWallet        Method = "E_WALLET"
	MethodBankTransfer   Method = "BANK_TRANSFER"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// SessionTTL is the fixed usable window of every payment session.
const SessionTTL = 24 * time.Hour

// Session is one time-boxed attempt to pay for an assessment via one method.
//
// Exactly one of RedirectURL (hosted checkout) or Reference+Instructions
// (manual methods) is populated. Status only ever moves forward; COMPLETED
// and FAILED are terminal.
type Session struct {
	ID           string    `json:"id"`
	Method       Method    `json:"method"`
	AssessmentID uint      `json:"assessment_id"`
	Amount       int64     `json:"amount"`
	Status       Status    `json:"status"`
	Reference    string    `json:"reference,omitempty"`
	RedirectURL  string    `json:"redirect_url,omitempty"`
	Instructions []string  `json:"instructions,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	// Checkout session id at the hosted provider. Internal, used to
	// poll payment status; never surfaced to the payer.
	ProviderSessionID string `json:"-"`
}

// Expired reports whether the session is past its usable window. Expiry is
// a derived predicate, not a stored status: the record stays PENDING for
// audit but is permanently inert for completion.
func (s *Session) Expired(now time.Time) bool {
	return s.Status == StatusPending && now.After(s.ExpiresAt)
}

// Terminal reports whether the session reached a final status.
func (s *Session) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// MethodInfo describes one selectable payment method.
type MethodInfo struct {
	ID          Method `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SessionConfig carries the validated inputs a strategy needs to open
// a payment session. The orchestrator fills every field before delegating.
type SessionConfig struct {
	SessionID    string
	AssessmentID uint
	ClubName     string
	PlayerName   string
	PayerPhone   string
	PayerEmail   string
	Amount       int64
	Method       Method
}
