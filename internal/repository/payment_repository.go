package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nasiyahub/ledger-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, debt_id, amount, date, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.DebtID,
		payment.Amount,
		payment.Date,
		payment.Type,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) TotalPaidTx(ctx context.Context, tx *sqlx.Tx, debtID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE debt_id = $1`
	if err := tx.GetContext(ctx, &total, query, debtID); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (r *paymentRepository) ListByDebt(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, debt_id, amount, date, type, created_at
		FROM payments
		WHERE debt_id = $1
		ORDER BY date, created_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, debtID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListByDebtAndType(ctx context.Context, debtID uuid.UUID, paymentType string) ([]*domain.Payment, error) {
	query := `
		SELECT id, debt_id, amount, date, type, created_at
		FROM payments
		WHERE debt_id = $1 AND type = $2
		ORDER BY date, created_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, debtID, paymentType); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListByDebtBetween(ctx context.Context, debtID uuid.UUID, from, to time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT id, debt_id, amount, date, type, created_at
		FROM payments
		WHERE debt_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, created_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, debtID, from, to); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) TotalPaid(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE debt_id = $1`
	if err := r.db.GetContext(ctx, &total, query, debtID); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (r *paymentRepository) ListByStoreBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT p.id, p.debt_id, p.amount, p.date, p.type, p.created_at
		FROM payments p
		JOIN debts d ON d.id = p.debt_id
		JOIN debtors dr ON dr.id = d.debtor_id
		WHERE dr.store_id = $1 AND p.date BETWEEN $2 AND $3
		ORDER BY p.date
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, storeID, from, to); err != nil {
		return nil, err
	}

	return payments, nil
}
