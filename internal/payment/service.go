package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tryout-be/internal/assessment"
	"tryout-be/internal/club"
	"tryout-be/internal/logger"
	"tryout-be/internal/metrics"

	"go.uber.org/zap"
)

// idAttempts bounds regeneration when a fresh session id collides with a
// stored one. With uuid-backed ids one attempt is effectively always
// enough; the loop exists so a collision is retried, never overwritten.
const idAttempts = 5

type CreateSessionInput struct {
	AssessmentID uint
	Method       Method
}

// Service is the payment orchestrator: the only entry point the outer
// layers use to open, inspect, verify and settle payment sessions.
type Service interface {
	CreatePaymentSession(ctx context.Context, input CreateSessionInput) (*Session, error)
	GetPaymentSession(ctx context.Context, id string) (*Session, error)
	VerifyPaymentSession(ctx context.Context, id string) (*Session, error)
	CompletePaymentSession(ctx context.Context, id string) error
	RejectPaymentSession(ctx context.Context, id string) error
	ListPaymentMethods() []MethodInfo
	Stats() Stats
}

// Stats is a point-in-time snapshot of the orchestrator counters.
type Stats struct {
	SessionsCreated   uint64 `json:"sessions_created"`
	SessionsCompleted uint64 `json:"sessions_completed"`
	SessionsFailed    uint64 `json:"sessions_failed"`
	ProviderErrors    uint64 `json:"provider_errors"`
}

type service struct {
	store       Store
	assessments assessment.Store
	clubs       club.Directory
	strategies  map[Method]Strategy
	sync        *StatusSync

	createdCounter   metrics.Counter
	completedCounter metrics.Counter
	failedCounter    metrics.Counter
	providerCounter  metrics.Counter
}

func NewService(
	store Store,
	assessments assessment.Store,
	clubs club.Directory,
	strategies map[Method]Strategy,
	statusSync *StatusSync,
) Service {
	return &service{
		store:       store,
		assessments: assessments,
		clubs:       clubs,
		strategies:  strategies,
		sync:        statusSync,
	}
}

// DefaultStrategies wires the standard method set: hosted checkout plus
// the three manual-reference methods, which share one strategy.
func DefaultStrategies(provider CheckoutProvider, assessments assessment.Store, successURL, cancelURL, currency string) map[Method]Strategy {
	manual := NewManualStrategy()
	return map[Method]Strategy{
		MethodHostedCheckout: NewHostedStrategy(provider, assessments, successURL, cancelURL, currency),
		MethodWalletTransfer: manual,
		MethodEWallet:        manual,
		MethodBankTransfer:   manual,
	}
}

func (s *service) CreatePaymentSession(ctx context.Context, input CreateSessionInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("assessment_id", input.AssessmentID),
		zap.String("method", string(input.Method)),
	)

	strat, ok := s.strategies[input.Method]
	if !ok {
		return nil, ErrInvalidMethod
	}

	a, err := s.assessments.Get(ctx, input.AssessmentID)
	if err != nil {
		return nil, err
	}

	// Conflict guard: never open a new attempt for a paid assessment.
	if a.PaymentStatus == assessment.PaymentCompleted {
		return nil, ErrAlreadyPaid
	}

	if a.Price <= 0 {
		return nil, ErrInvalidAmount
	}
	if a.PlayerName == "" || a.PayerPhone == "" {
		return nil, ErrMissingPayer
	}

	c, err := s.clubs.Get(ctx, a.ClubID)
	if err != nil {
		return nil, err
	}

	cfg := SessionConfig{
		AssessmentID: a.ID,
		ClubName:     c.Name,
		PlayerName:   a.PlayerName,
		PayerPhone:   a.PayerPhone,
		PayerEmail:   a.PayerEmail,
		Amount:       a.Price,
		Method:       input.Method,
	}

	cfg.SessionID, err = s.freshSessionID(ctx, input.Method)
	if err != nil {
		return nil, err
	}

	timer := metrics.StartTimer()
	sess, err := strat.CreateSession(ctx, cfg)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			s.providerCounter.Inc()
		}
		log.Error("failed to create payment session",
			zap.Int64("elapsed_ms", timer.Milliseconds()),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	s.createdCounter.Inc()
	log.Info("payment session created",
		zap.String("session_id", sess.ID),
		zap.Int64("amount", sess.Amount),
		zap.Int64("elapsed_ms", timer.Milliseconds()),
	)
	return sess, nil
}

// freshSessionID generates an id and proves it unused before handing it
// to a strategy. Collisions are retried rather than overwritten.
func (s *service) freshSessionID(ctx context.Context, m Method) (string, error) {
	for i := 0; i < idAttempts; i++ {
		id := NewSessionID(m)
		_, err := s.store.Get(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a unique session id")
}

func (s *service) GetPaymentSession(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

func (s *service) VerifyPaymentSession(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Expired-pending sessions are inert: return as-is, no provider call.
	if sess.Expired(time.Now()) {
		return sess, nil
	}
	if sess.Terminal() {
		if err := s.resync(ctx, sess); err != nil {
			return nil, err
		}
		return sess, nil
	}

	strat, ok := s.strategies[sess.Method]
	if !ok {
		return nil, ErrInvalidMethod
	}

	status, err := strat.Verify(ctx, sess)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			s.providerCounter.Inc()
		}
		return nil, err
	}

	switch status {
	case StatusCompleted:
		return s.settle(ctx, sess, StatusCompleted)
	case StatusFailed:
		return s.settle(ctx, sess, StatusFailed)
	default:
		return sess, nil
	}
}

func (s *service) CompletePaymentSession(ctx context.Context, id string) error {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if sess.Expired(time.Now()) {
		return ErrSessionExpired
	}
	if sess.Terminal() {
		return s.resync(ctx, sess)
	}

	strat, ok := s.strategies[sess.Method]
	if !ok {
		return ErrInvalidMethod
	}

	status, err := strat.Complete(ctx, sess)
	if err != nil {
		return err
	}

	_, err = s.settle(ctx, sess, status)
	return err
}

func (s *service) RejectPaymentSession(ctx context.Context, id string) error {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if sess.Expired(time.Now()) {
		return ErrSessionExpired
	}
	if sess.Terminal() {
		return s.resync(ctx, sess)
	}

	_, err = s.settle(ctx, sess, StatusFailed)
	return err
}

// resync re-delivers a terminal session's outcome to the assessment. The
// session transition and the assessment write are not one atomic step, so
// a settling call can win the compare-and-set and then fail the write;
// the sync is check-then-set, so re-firing it on an already-terminal
// session repairs that case and is a plain read everywhere else.
func (s *service) resync(ctx context.Context, sess *Session) error {
	switch sess.Status {
	case StatusCompleted:
		return s.sync.OnSessionCompleted(ctx, sess)
	case StatusFailed:
		return s.sync.OnSessionFailed(ctx, sess)
	}
	return nil
}

// settle performs the terminal transition and, when this call is the one
// that won the compare-and-set, propagates the outcome to the assessment.
/// Losing the race is not an error: the session comes back already
// terminal and the winner carried out the side effect.
func (s *service) settle(ctx context.Context, sess *Session, to Status) (*Session, error) {
	updated, swapped, err := s.store.Transition(ctx, sess.ID, StatusPending, to)
	if err != nil {
		return nil, err
	}

	if !swapped {
		return updated, nil
	}

	switch to {
	case StatusCompleted:
		s.completedCounter.Inc()
		if err := s.sync.OnSessionCompleted(ctx, updated); err != nil {
			return nil, err
		}
	case StatusFailed:
		s.failedCounter.Inc()
		if err := s.sync.OnSessionFailed(ctx, updated); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// ListPaymentMethods is static and ordered: the method usable without
// any provider configuration comes first.
func (s *service) ListPaymentMethods() []MethodInfo {
	return []MethodInfo{
		{
			ID:          MethodWalletTransfer,
			Name:        "Mobile Wallet Transfer",
			Description: "Send the fee from your mobile wallet and quote the reference code",
		},
		{
			ID:          MethodHostedCheckout,
			Name:        "Card Payment",
			Description: "Pay by card on a secure hosted checkout page",
		},
		{
			ID:          MethodEWallet,
			Name:        "E-Wallet",
			Description: "Pay from your e-wallet balance using the reference code",
		},
		{
			ID:          MethodBankTransfer,
			Name:        "Bank Transfer",
			Description: "Transfer the fee from your bank account with the reference as description",
		},
	}
}

func (s *service) Stats() Stats {
	return Stats{
		SessionsCreated:   s.createdCounter.Load(),
		SessionsCompleted: s.completedCounter.Load(),
		SessionsFailed:    s.failedCounter.Load(),
		ProviderErrors:    s.providerCounter.Load(),
	}
}
