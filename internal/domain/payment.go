package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentTypeCash     = "CASH"
	PaymentTypeCard     = "CARD"
	PaymentTypeTransfer = "BANK_TRANSFER"
)

// Payment is one amount applied against a debt on a given date.
type Payment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	DebtID    uuid.UUID       `json:"debt_id" db:"debt_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      time.Time       `json:"date" db:"date"`
	Type      string          `json:"type" db:"type"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type CreatePaymentRequest struct {
	DebtID string          `json:"debt_id" validate:"required,uuid"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   string          `json:"date" validate:"required"`
	Type   string          `json:"type" validate:"required,oneof=CASH CARD BANK_TRANSFER"`
}

type ApplyPaymentResponse struct {
	Payment   *Payment        `json:"payment"`
	Remaining decimal.Decimal `json:"remaining"`
}
