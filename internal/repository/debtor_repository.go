package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nasiyahub/ledger-engine/internal/domain"
)

type debtorRepository struct {
	db *sqlx.DB
}

func NewDebtorRepository(db *sqlx.DB) DebtorRepository {
	return &debtorRepository{db: db}
}

func (r *debtorRepository) Create(ctx context.Context, debtor *domain.Debtor) error {
	query := `
		INSERT INTO debtors (id, store_id, full_name, phone_number, address, note, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		debtor.ID,
		debtor.StoreID,
		debtor.FullName,
		debtor.PhoneNumber,
		debtor.Address,
		debtor.Note,
		debtor.Image,
		debtor.CreatedAt,
		debtor.UpdatedAt,
	)

	return err
}

func (r *debtorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debtor, error) {
	query := `
		SELECT id, store_id, full_name, phone_number, address, note, image, created_at, updated_at
		FROM debtors
		WHERE id = $1
	`

	var debtor domain.Debtor
	if err := r.db.GetContext(ctx, &debtor, query, id); err != nil {
		return nil, err
	}

	return &debtor, nil
}

func (r *debtorRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Debtor, error) {
	query := `
		SELECT id, store_id, full_name, phone_number, address, note, image, created_at, updated_at
		FROM debtors
		WHERE store_id = $1
		ORDER BY full_name
	`

	var debtors []*domain.Debtor
	if err := r.db.SelectContext(ctx, &debtors, query, storeID); err != nil {
		return nil, err
	}

	return debtors, nil
}

func (r *debtorRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM debtors WHERE store_id = $1`
	if err := r.db.GetContext(ctx, &count, query, storeID); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *debtorRepository) AddPhoneTx(ctx context.Context, tx *sqlx.Tx, phone *domain.DebtorPhone) error {
	query := `
		INSERT INTO debtor_phones (id, debtor_id, phone_number, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.ExecContext(ctx, query,
		phone.ID,
		phone.DebtorID,
		phone.PhoneNumber,
		phone.CreatedAt,
	)

	return err
}
