package service

import (
	"github.com/shopspring/decimal"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	customError "github.com/nasiyahub/ledger-engine/pkg/errors"
)

var allowedPeriods = map[int]struct{}{
	domain.DebtPeriodOne:    {},
	domain.DebtPeriodThree:  {},
	domain.DebtPeriodSix:    {},
	domain.DebtPeriodTwelve: {},
}

// PeriodAllowed reports whether the installment period is one of the
// enumerated month counts.
func PeriodAllowed(period int) bool {
	_, ok := allowedPeriods[period]
	return ok
}

// MonthlyInstallment derives the per-period installment amount at
// debt-creation time: floor(debtSum / debtPeriod). The result is stored on
// the debt and never recomputed automatically; edits to the sum or the
// period must call this again.
func MonthlyInstallment(debtSum decimal.Decimal, debtPeriod int) (decimal.Decimal, error) {
	if debtSum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, customError.WrapValidation("debt sum must be positive")
	}
	if !PeriodAllowed(debtPeriod) {
		return decimal.Zero, customError.WrapInvalidPeriod(debtPeriod)
	}

	return debtSum.Div(decimal.NewFromInt(int64(debtPeriod))).Floor(), nil
}
