package payment

import (
	"context"

	"tryout-be/internal/assessment"
	"tryout-be/internal/logger"

	"go.uber.org/zap"
)

// StatusSync is the single writer of the assessment's durable payment
// status. Both entry points tolerate at-least-once delivery: a provider
// verification and a manual confirmation can race on the same session,
// so every write is a check-then-set against the current status.
type StatusSync struct {
	assessments assessment.Store
}

func NewStatusSync(assessments assessment.Store) *StatusSync {
	return &StatusSync{assessments: assessments}
}

func (s *StatusSync) OnSessionCompleted(ctx context.Context, sess *Session) error {
	a, err := s.assessments.Get(ctx, sess.AssessmentID)
	if err != nil {
		return err
	}

	if a.PaymentStatus == assessment.PaymentCompleted {
		return nil
	}

	if err := s.assessments.SetPaymentStatus(ctx, sess.AssessmentID, assessment.PaymentCompleted, auditRef(sess)); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("assessment marked paid",
		zap.Uint("assessment_id", sess.AssessmentID),
		zap.String("session_id", sess.ID),
		zap.String("method", string(sess.Method)),
	)
	return nil
}

func (s *StatusSync) OnSessionFailed(ctx context.Context, sess *Session) error {
	a, err := s.assessments.Get(ctx, sess.AssessmentID)
	if err != nil {
		return err
	}

	// Never regress from COMPLETED.
	if a.PaymentStatus != assessment.PaymentPending {
		return nil
	}

	if err := s.assessments.SetPaymentStatus(ctx, sess.AssessmentID, assessment.PaymentFailed, auditRef(sess)); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("assessment marked failed",
		zap.Uint("assessment_id", sess.AssessmentID),
		zap.String("session_id", sess.ID),
	)
	return nil
}

// auditRef is what lands on the assessment record: the manual reference
// when one exists, otherwise the session id.
func auditRef(sess *Session) string {
	if sess.Reference != "" {
		return sess.Reference
	}
	return sess.ID
}
