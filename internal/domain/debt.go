package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allowed installment periods, in months.
const (
	DebtPeriodOne    = 1
	DebtPeriodThree  = 3
	DebtPeriodSix    = 6
	DebtPeriodTwelve = 12
)

// Debt represents a single installment credit sale. DebtSum is the original
// sale amount and is never mutated by payments; the remaining balance is
// always derived from the payment history.
type Debt struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	DebtorID    uuid.UUID       `json:"debtor_id" db:"debtor_id"`
	DebtDate    time.Time       `json:"debt_date" db:"debt_date"`
	DebtPeriod  int             `json:"debt_period" db:"debt_period"`
	DebtSum     decimal.Decimal `json:"debt_sum" db:"debt_sum"`
	MonthSum    decimal.Decimal `json:"month_sum" db:"month_sum"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// DebtImage is the metadata row for a proof image stored in object storage.
type DebtImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DebtID    uuid.UUID `json:"debt_id" db:"debt_id"`
	ObjectKey string    `json:"object_key" db:"object_key"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateDebtRequest struct {
	DebtorID    string          `json:"debtor_id" validate:"required,uuid"`
	DebtDate    time.Time       `json:"debt_date" validate:"required"`
	DebtPeriod  int             `json:"debt_period" validate:"required,oneof=1 3 6 12"`
	DebtSum     decimal.Decimal `json:"debt_sum" validate:"required"`
	Description string          `json:"description" validate:"required"`
}

// UpdateDebtRequest carries PATCH semantics: only non-nil fields are
// applied. Changing DebtSum or DebtPeriod recomputes MonthSum.
type UpdateDebtRequest struct {
	DebtDate    *time.Time       `json:"debt_date,omitempty"`
	DebtPeriod  *int             `json:"debt_period,omitempty"`
	DebtSum     *decimal.Decimal `json:"debt_sum,omitempty"`
	Description *string          `json:"description,omitempty"`
}

type DebtWithBalance struct {
	Debt      *Debt           `json:"debt"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining"`
}
