package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/pkg/utils"
)

// Remaining derives the outstanding balance of a debt from its payment
// history. The stored debt_sum is never decremented.
func Remaining(debt *domain.Debt, payments []*domain.Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return debt.DebtSum.Sub(paid)
}

// LateUnits counts elapsed blockDays-day blocks since the sale date for a
// debt still carrying a positive remaining balance. Zero for settled debts
// and debts younger than one block.
func LateUnits(debt *domain.Debt, payments []*domain.Payment, now time.Time, blockDays int) int {
	if Remaining(debt, payments).LessThanOrEqual(decimal.Zero) {
		return 0
	}

	elapsed := utils.ElapsedBlocks(debt.DebtDate, now, blockDays)
	if elapsed <= 0 {
		return 0
	}

	return elapsed
}

// PeriodLateUnits is the period-accurate alternative to LateUnits: it
// counts how many of the debt's defined monthly periods have passed and
// subtracts the installments the payments fully cover. Not exposed over
// the API until product confirms the switch from the 30-day block count.
func PeriodLateUnits(debt *domain.Debt, payments []*domain.Payment, now time.Time) int {
	if Remaining(debt, payments).LessThanOrEqual(decimal.Zero) {
		return 0
	}

	elapsed := utils.ElapsedMonths(debt.DebtDate, now)
	if elapsed > debt.DebtPeriod {
		elapsed = debt.DebtPeriod
	}
	if elapsed <= 0 {
		return 0
	}

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	covered := 0
	if debt.MonthSum.IsPositive() {
		covered = int(paid.Div(debt.MonthSum).Floor().IntPart())
	}

	late := elapsed - covered
	if late < 0 {
		return 0
	}
	return late
}

// IsOverdue reports whether a debt is past its sale date with a positive
// remaining balance.
func IsOverdue(debt *domain.Debt, payments []*domain.Payment, today time.Time) bool {
	return debt.DebtDate.Before(utils.DayStart(today)) &&
		Remaining(debt, payments).GreaterThan(decimal.Zero)
}
