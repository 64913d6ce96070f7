package payment

import (
	"errors"
	"fmt"
)

var (
	// -- Validation & Input --
	ErrInvalidMethod = errors.New("unsupported payment method")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrMissingPayer  = errors.New("missing payer details")

	// -- Resource State --
	ErrSessionNotFound = errors.New("payment session not found")
	ErrSessionExpired  = errors.New("payment session expired")
	ErrAlreadyPaid     = errors.New("assessment already paid")
)

// ProviderError wraps a failure of the external hosted-checkout provider:
// network, auth, or a business-rule rejection. Local state is always left
// unchanged when one is returned; the caller may retry.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("checkout provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(op string, err error) error {
	return &ProviderError{Op: op, Err: err}
}
