package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nasiyahub/ledger-engine/internal/domain"
)

type storeRepository struct {
	db *sqlx.DB
}

func NewStoreRepository(db *sqlx.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	query := `
		SELECT id, login, hashed_password, email, wallet, image, is_active, created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	var store domain.Store
	if err := r.db.GetContext(ctx, &store, query, id); err != nil {
		return nil, err
	}

	return &store, nil
}

func (r *storeRepository) GetByLogin(ctx context.Context, login string) (*domain.Store, error) {
	query := `
		SELECT id, login, hashed_password, email, wallet, image, is_active, created_at, updated_at
		FROM stores
		WHERE login = $1
	`

	var store domain.Store
	if err := r.db.GetContext(ctx, &store, query, login); err != nil {
		return nil, err
	}

	return &store, nil
}

func (r *storeRepository) ListActive(ctx context.Context) ([]*domain.Store, error) {
	query := `
		SELECT id, login, hashed_password, email, wallet, image, is_active, created_at, updated_at
		FROM stores
		WHERE is_active = true
		ORDER BY login
	`

	var stores []*domain.Store
	if err := r.db.SelectContext(ctx, &stores, query); err != nil {
		return nil, err
	}

	return stores, nil
}

func (r *storeRepository) UpdateWallet(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `UPDATE stores SET wallet = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, amount, time.Now())
	return err
}
