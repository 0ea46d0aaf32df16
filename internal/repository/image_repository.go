package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nasiyahub/ledger-engine/internal/domain"
)

type debtImageRepository struct {
	db *sqlx.DB
}

func NewDebtImageRepository(db *sqlx.DB) DebtImageRepository {
	return &debtImageRepository{db: db}
}

func (r *debtImageRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, image *domain.DebtImage) error {
	query := `
		INSERT INTO debt_images (id, debt_id, object_key, url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.ExecContext(ctx, query,
		image.ID,
		image.DebtID,
		image.ObjectKey,
		image.URL,
		image.CreatedAt,
	)

	return err
}

func (r *debtImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebtImage, error) {
	query := `
		SELECT id, debt_id, object_key, url, created_at
		FROM debt_images
		WHERE id = $1
	`

	var image domain.DebtImage
	if err := r.db.GetContext(ctx, &image, query, id); err != nil {
		return nil, err
	}

	return &image, nil
}

func (r *debtImageRepository) ListByDebt(ctx context.Context, debtID uuid.UUID) ([]*domain.DebtImage, error) {
	query := `
		SELECT id, debt_id, object_key, url, created_at
		FROM debt_images
		WHERE debt_id = $1
		ORDER BY created_at DESC
	`

	var images []*domain.DebtImage
	if err := r.db.SelectContext(ctx, &images, query, debtID); err != nil {
		return nil, err
	}

	return images, nil
}

func (r *debtImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debt_images WHERE id = $1`, id)
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
