package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nasiyahub/ledger-engine/internal/domain"
)

type debtRepository struct {
	db *sqlx.DB
}

func NewDebtRepository(db *sqlx.DB) DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	query := `
		INSERT INTO debts (id, debtor_id, debt_date, debt_period, debt_sum, month_sum, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.DebtorID,
		debt.DebtDate,
		debt.DebtPeriod,
		debt.DebtSum,
		debt.MonthSum,
		debt.Description,
		debt.CreatedAt,
		debt.UpdatedAt,
	)

	return err
}

func (r *debtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error) {
	query := `
		SELECT id, debtor_id, debt_date, debt_period, debt_sum, month_sum, description, created_at, updated_at
		FROM debts
		WHERE id = $1
	`

	var debt domain.Debt
	if err := r.db.GetContext(ctx, &debt, query, id); err != nil {
		return nil, err
	}

	return &debt, nil
}

func (r *debtRepository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Debt, error) {
	query := `
		SELECT id, debtor_id, debt_date, debt_period, debt_sum, month_sum, description, created_at, updated_at
		FROM debts
		WHERE id = $1
		FOR UPDATE
	`

	var debt domain.Debt
	if err := tx.GetContext(ctx, &debt, query, id); err != nil {
		return nil, err
	}

	return &debt, nil
}

func (r *debtRepository) List(ctx context.Context, offset, limit int) ([]*domain.Debt, error) {
	query := `
		SELECT id, debtor_id, debt_date, debt_period, debt_sum, month_sum, description, created_at, updated_at
		FROM debts
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	var debts []*domain.Debt
	if err := r.db.SelectContext(ctx, &debts, query, offset, limit); err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *debtRepository) Update(ctx context.Context, debt *domain.Debt) error {
	query := `
		UPDATE debts
		SET debt_date = $2, debt_period = $3, debt_sum = $4, month_sum = $5, description = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.DebtDate,
		debt.DebtPeriod,
		debt.DebtSum,
		debt.MonthSum,
		debt.Description,
		time.Now(),
	)

	return err
}

func (r *debtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *debtRepository) ListByDebtor(ctx context.Context, debtorID uuid.UUID) ([]*domain.Debt, error) {
	query := `
		SELECT id, debtor_id, debt_date, debt_period, debt_sum, month_sum, description, created_at, updated_at
		FROM debts
		WHERE debtor_id = $1
		ORDER BY debt_date
	`

	var debts []*domain.Debt
	if err := r.db.SelectContext(ctx, &debts, query, debtorID); err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *debtRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Debt, error) {
	query := `
		SELECT d.id, d.debtor_id, d.debt_date, d.debt_period, d.debt_sum, d.month_sum, d.description, d.created_at, d.updated_at
		FROM debts d
		JOIN debtors dr ON dr.id = d.debtor_id
		WHERE dr.store_id = $1
		ORDER BY d.debt_date
	`

	var debts []*domain.Debt
	if err := r.db.SelectContext(ctx, &debts, query, storeID); err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *debtRepository) ListByStoreBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*domain.Debt, error) {
	query := `
		SELECT d.id, d.debtor_id, d.debt_date, d.debt_period, d.debt_sum, d.month_sum, d.description, d.created_at, d.updated_at
		FROM debts d
		JOIN debtors dr ON dr.id = d.debtor_id
		WHERE dr.store_id = $1 AND d.debt_date BETWEEN $2 AND $3
		ORDER BY d.debt_date
	`

	var debts []*domain.Debt
	if err := r.db.SelectContext(ctx, &debts, query, storeID, from, to); err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *debtRepository) SumByStore(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(d.debt_sum), 0)
		FROM debts d
		JOIN debtors dr ON dr.id = d.debtor_id
		WHERE dr.store_id = $1
	`

	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, storeID); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (r *debtRepository) SumAll(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(debt_sum), 0) FROM debts`); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
