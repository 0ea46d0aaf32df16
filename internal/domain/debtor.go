package domain

import (
	"time"

	"github.com/google/uuid"
)

// Debtor is a buyer owing on zero or more debts, scoped to one store.
type Debtor struct {
	ID          uuid.UUID `json:"id" db:"id"`
	StoreID     uuid.UUID `json:"store_id" db:"store_id"`
	FullName    string    `json:"full_name" db:"full_name"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	Address     string    `json:"address" db:"address"`
	Note        string    `json:"note" db:"note"`
	Image       string    `json:"image" db:"image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DebtorPhone is an additional phone number attached to a debtor.
type DebtorPhone struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DebtorID    uuid.UUID `json:"debtor_id" db:"debtor_id"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreateDebtorRequest struct {
	StoreID     string `json:"store_id" validate:"required,uuid"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Note        string `json:"note"`
}

type AddDebtorPhoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}
