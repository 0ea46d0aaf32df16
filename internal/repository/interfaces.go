package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nasiyahub/ledger-engine/internal/domain"
)

// DebtRepository defines the interface for debt data operations
type DebtRepository interface {
	// Create persists a new debt
	Create(ctx context.Context, debt *domain.Debt) error

	// GetByID retrieves a debt by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error)

	// GetForUpdateTx retrieves a debt inside an atomic unit, holding a row
	// lock until the unit ends
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Debt, error)

	// List retrieves debts with offset pagination, newest first
	List(ctx context.Context, offset, limit int) ([]*domain.Debt, error)

	// Update rewrites the mutable columns of a debt
	Update(ctx context.Context, debt *domain.Debt) error

	// Delete removes a debt and, via cascade, its payments and images
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByDebtor retrieves all debts of one debtor
	ListByDebtor(ctx context.Context, debtorID uuid.UUID) ([]*domain.Debt, error)

	// ListByStore retrieves all debts across a store's debtors
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Debt, error)

	// ListByStoreBetween retrieves a store's debts with debt_date in [from, to]
	ListByStoreBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*domain.Debt, error)

	// SumByStore returns the total debt_sum issued by a store
	SumByStore(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error)

	// SumAll returns the global total debt_sum
	SumAll(ctx context.Context) (decimal.Decimal, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// CreateTx persists a new payment record inside an atomic unit
	CreateTx(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error

	// ListByDebt retrieves all payments for a debt, oldest first
	ListByDebt(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error)

	// ListByDebtAndType retrieves a debt's payments of one type, oldest first
	ListByDebtAndType(ctx context.Context, debtID uuid.UUID, paymentType string) ([]*domain.Payment, error)

	// ListByDebtBetween retrieves a debt's payments with date in [from, to]
	ListByDebtBetween(ctx context.Context, debtID uuid.UUID, from, to time.Time) ([]*domain.Payment, error)

	// TotalPaid sums the payment amounts applied to a debt
	TotalPaid(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error)

	// TotalPaidTx sums the payment amounts applied to a debt inside an
	// atomic unit
	TotalPaidTx(ctx context.Context, tx *sqlx.Tx, debtID uuid.UUID) (decimal.Decimal, error)

	// ListByStoreBetween retrieves a store's payments with date in [from, to]
	ListByStoreBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*domain.Payment, error)
}

// DebtorRepository defines the interface for debtor data operations
type DebtorRepository interface {
	// Create persists a new debtor
	Create(ctx context.Context, debtor *domain.Debtor) error

	// GetByID retrieves a debtor by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Debtor, error)

	// ListByStore retrieves all debtors of a store
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Debtor, error)

	// CountByStore counts a store's debtors
	CountByStore(ctx context.Context, storeID uuid.UUID) (int, error)

	// AddPhoneTx inserts an additional phone number inside an atomic unit
	AddPhoneTx(ctx context.Context, tx *sqlx.Tx, phone *domain.DebtorPhone) error
}

// StoreRepository defines the interface for store data operations
type StoreRepository interface {
	// GetByID retrieves a store by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error)

	// GetByLogin retrieves a store by its login
	GetByLogin(ctx context.Context, login string) (*domain.Store, error)

	// ListActive retrieves all active stores
	ListActive(ctx context.Context) ([]*domain.Store, error)

	// UpdateWallet overwrites the store's wallet aggregate
	UpdateWallet(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

// DebtImageRepository defines the interface for debt image metadata
type DebtImageRepository interface {
	// CreateTx inserts an image row inside an atomic unit
	CreateTx(ctx context.Context, tx *sqlx.Tx, image *domain.DebtImage) error

	// GetByID retrieves an image row by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DebtImage, error)

	// ListByDebt retrieves all image rows for a debt, newest first
	ListByDebt(ctx context.Context, debtID uuid.UUID) ([]*domain.DebtImage, error)

	// Delete removes an image row
	Delete(ctx context.Context, id uuid.UUID) error
}

// AtomicRunner scopes a set of writes into one database transaction.
type AtomicRunner interface {
	// RunAtomic begins a transaction, runs fn, commits on success and rolls
	// back on any error. Resources are released on every exit path.
	RunAtomic(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}
