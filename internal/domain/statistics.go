package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReminderItem is one entry of the daily "payment due within 3 days" feed.
type ReminderItem struct {
	DebtorID    uuid.UUID       `json:"debtor_id"`
	DebtorName  string          `json:"debtor_name"`
	DebtID      uuid.UUID       `json:"debt_id"`
	DebtPeriod  int             `json:"debt_period"`
	MonthSum    decimal.Decimal `json:"month_sum"`
	PaymentDate time.Time       `json:"payment_date"`
}

// DailyBucket accumulates one day-of-month of a monthly breakdown.
type DailyBucket struct {
	Debts    decimal.Decimal `json:"debts"`
	Payments decimal.Decimal `json:"payments"`
}

type MonthlyBreakdown struct {
	Year               int                 `json:"year"`
	Month              int                 `json:"month"`
	TotalNewDebts      int                 `json:"total_new_debts"`
	TotalDebtAmount    decimal.Decimal     `json:"total_debt_amount"`
	TotalPayments      int                 `json:"total_payments"`
	TotalPaymentAmount decimal.Decimal     `json:"total_payment_amount"`
	NetMonthlyBalance  decimal.Decimal     `json:"net_monthly_balance"`
	DailyBreakdown     map[int]DailyBucket `json:"daily_breakdown"`
}

// DebtorStat is the per-debtor rollup inside DebtorStatistics.
type DebtorStat struct {
	DebtorID      uuid.UUID       `json:"debtor_id"`
	FullName      string          `json:"full_name"`
	PhoneNumber   string          `json:"phone_number"`
	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
	HasOverdue    bool            `json:"has_overdue"`
	IsActive      bool            `json:"is_active"`
}

type DebtorStatistics struct {
	TotalDebtors    int             `json:"total_debtors"`
	ActiveDebtors   int             `json:"active_debtors"`
	OverdueDebtors  int             `json:"overdue_debtors"`
	TotalDebtAmount decimal.Decimal `json:"total_debt_amount"`
	TotalPaidAmount decimal.Decimal `json:"total_paid_amount"`
	RemainingDebt   decimal.Decimal `json:"remaining_debt"`
	DebtorDetails   []*DebtorStat   `json:"debtor_details"`
}

type DashboardSummary struct {
	TotalDebtors    int             `json:"total_debtors"`
	TotalDebtAmount decimal.Decimal `json:"total_debt_amount"`
}

type LatePaymentsResponse struct {
	LateDebts int `json:"lateDebts"`
}
