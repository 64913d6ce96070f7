package payment

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"tryout-be/internal/assessment"
	"tryout-be/internal/logger"

	"go.uber.org/zap"
)

// Strategy is the per-method behaviour behind the orchestrator: how to
// open a session, how to find out whether it was paid, and what an
// explicit confirmation settles it as. Strategies never touch the store
// or the assessment's payment status; the orchestrator owns both.
type Strategy interface {
	CreateSession(ctx context.Context, cfg SessionConfig) (*Session, error)

	// Verify reports the status the session should have now. Idempotent;
	// for methods with no independent source of truth it simply returns
	// the current status.
	Verify(ctx context.Context, sess *Session) (Status, error)

	// Complete reports the terminal status an explicit confirmation
	// settles the session as.
	Complete(ctx context.Context, sess *Session) (Status, error)
}

func newBaseSession(cfg SessionConfig) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           cfg.SessionID,
		Method:       cfg.Method,
		AssessmentID: cfg.AssessmentID,
		Amount:       cfg.Amount,
		Status:       StatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(SessionTTL),
	}
}

// ----------------- Hosted checkout -----------------

type hostedStrategy struct {
	provider    CheckoutProvider
	assessments assessment.Store
	successURL  string
	cancelURL   string
	currency    string
}

func NewHostedStrategy(provider CheckoutProvider, assessments assessment.Store, successURL, cancelURL, currency string) Strategy {
	return &hostedStrategy{
		provider:    provider,
		assessments: assessments,
		successURL:  successURL,
		cancelURL:   cancelURL,
		currency:    currency,
	}
}

func (h *hostedStrategy) CreateSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	checkout, err := h.provider.CreateCheckoutSession(ctx, CheckoutParams{
		Amount:        cfg.Amount,
		Currency:      h.currency,
		Description:   fmt.Sprintf("Assessment fee - %s (%s)", cfg.ClubName, cfg.PlayerName),
		CustomerEmail: cfg.PayerEmail,
		SuccessURL:    callbackURL(h.successURL, cfg.AssessmentID),
		CancelURL:     callbackURL(h.cancelURL, cfg.AssessmentID),
		Metadata: map[string]string{
			"assessment_id": fmt.Sprintf("%d", cfg.AssessmentID),
			"session_id":    cfg.SessionID,
		},
	})
	if err != nil {
		return nil, err
	}

	// Persist the provider's session id on the assessment for later
	// verification. Latest wins, safe to repeat.
	if err := h.assessments.SetProviderSessionRef(ctx, cfg.AssessmentID, checkout.ProviderSessionID); err != nil {
		logger.FromCtx(ctx).Error("failed to store provider session ref",
			zap.Uint("assessment_id", cfg.AssessmentID),
			zap.Error(err),
		)
		return nil, err
	}

	sess := newBaseSession(cfg)
	sess.RedirectURL = checkout.HostedURL
	sess.ProviderSessionID = checkout.ProviderSessionID
	return sess, nil
}

func (h *hostedStrategy) Verify(ctx context.Context, sess *Session) (Status, error) {
	status, err := h.provider.RetrieveCheckoutSession(ctx, sess.ProviderSessionID)
	if err != nil {
		// Fail closed: status unchanged, caller may retry.
		return sess.Status, err
	}

	if status == CheckoutPaid {
		return StatusCompleted, nil
	}
	return sess.Status, nil
}

func (h *hostedStrategy) Complete(_ context.Context, _ *Session) (Status, error) {
	return StatusCompleted, nil
}

func callbackURL(base string, assessmentID uint) string {
	sep := "?"
	if u, err := url.Parse(base); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return fmt.Sprintf("%s%sassessment_id=%d", base, sep, assessmentID)
}

// ----------------- Manual reference -----------------

// manualStrategy covers every out-of-band transfer method. The methods
// differ only in instruction template and reference shape; settlement is
// always an explicit confirmation by authorized staff, never polling.
type manualStrategy struct{}

func NewManualStrategy() Strategy {
	return &manualStrategy{}
}

func (m *manualStrategy) CreateSession(_ context.Context, cfg SessionConfig) (*Session, error) {
	ref := NewReference(cfg.Method)

	steps := InjectVariables(getInstructions(cfg.Method), InstructionVars{
		"amount":      FormatAmount(cfg.Amount),
		"reference":   ref,
		"payer_phone": cfg.PayerPhone,
	})

	sess := newBaseSession(cfg)
	sess.Reference = ref
	sess.Instructions = steps
	return sess, nil
}

func (m *manualStrategy) Verify(_ context.Context, sess *Session) (Status, error) {
	// No source of truth to poll; settlement happens out of band.
	return sess.Status, nil
}

func (m *manualStrategy) Complete(_ context.Context, _ *Session) (Status, error) {
	return StatusCompleted, nil
}
