package assessment

import (
	"context"
	"database/sql"
	"errors"

	"tryout-be/internal/logger"

	"go.uber.org/zap"
)

// Store is the narrow surface the payment core depends on.
type Store interface {
	Get(ctx context.Context, id uint) (*Assessment, error)
	SetPaymentStatus(ctx context.Context, id uint, status PaymentStatus, sessionRef string) error
	SetProviderSessionRef(ctx context.Context, id uint, ref string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Store {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id uint) (*Assessment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, club_id, player_name, payer_phone, payer_email,
		       price, payment_status,
		       COALESCE(provider_session_ref, ''),
		       COALESCE(paid_session_ref, ''),
		       created_at, updated_at
		FROM assessments WHERE id = $1
	`, id)

	var a Assessment
	err := row.Scan(
		&a.ID, &a.ClubID, &a.PlayerName, &a.PayerPhone, &a.PayerEmail,
		&a.Price, &a.PaymentStatus,
		&a.ProviderSessionRef, &a.PaidSessionRef,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get assessment",
			zap.Uint("assessment_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	return &a, nil
}

func (r *repository) SetPaymentStatus(ctx context.Context, id uint, status PaymentStatus, sessionRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE assessments
		SET payment_status = $1, paid_session_ref = $2, updated_at = NOW()
		WHERE id = $3
	`, status, sessionRef, id)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to update payment status",
			zap.Uint("assessment_id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetProviderSessionRef(ctx context.Context, id uint, ref string) error {
	// Latest wins, safe to repeat.
	res, err := r.db.ExecContext(ctx, `
		UPDATE assessments
		SET provider_session_ref = $1, updated_at = NOW()
		WHERE id = $2
	`, ref, id)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to store provider session ref",
			zap.Uint("assessment_id", id),
			zap.Error(err),
		)
		return err
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
