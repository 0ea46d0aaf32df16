package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the merchant entity owning debtors and issuing debts. Wallet is
// a denormalized aggregate refreshed from debtor statistics.
type Store struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Login          string          `json:"login" db:"login"`
	HashedPassword string          `json:"-" db:"hashed_password"`
	Email          string          `json:"email" db:"email"`
	Wallet         decimal.Decimal `json:"wallet" db:"wallet"`
	Image          string          `json:"image" db:"image"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

type SignInRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignInResponse struct {
	AccessToken string `json:"access_token"`
	StoreID     string `json:"store_id"`
}
