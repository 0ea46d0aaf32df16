package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/internal/repository"
	customError "github.com/nasiyahub/ledger-engine/pkg/errors"
	"github.com/nasiyahub/ledger-engine/pkg/utils"
)

// StatisticsService derives the read-only reports over a store's debts and
// payments. It mutates nothing except the store wallet aggregate, and only
// through RefreshStoreWallet.
type StatisticsService struct {
	StoreRepo   repository.StoreRepository
	DebtorRepo  repository.DebtorRepository
	DebtRepo    repository.DebtRepository
	PaymentRepo repository.PaymentRepository
	cache       StatsCache
	log         *logrus.Logger

	lateBlockDays      int
	reminderWindowDays int
}

func NewStatisticsService(
	storeRepo repository.StoreRepository,
	debtorRepo repository.DebtorRepository,
	debtRepo repository.DebtRepository,
	paymentRepo repository.PaymentRepository,
	cache StatsCache,
	log *logrus.Logger,
	lateBlockDays int,
	reminderWindowDays int,
) *StatisticsService {
	return &StatisticsService{
		StoreRepo:          storeRepo,
		DebtorRepo:         debtorRepo,
		DebtRepo:           debtRepo,
		PaymentRepo:        paymentRepo,
		cache:              cache,
		log:                log,
		lateBlockDays:      lateBlockDays,
		reminderWindowDays: reminderWindowDays,
	}
}

// DailyReminders builds the "payment due within the next few days" feed for
// a store. For every debt the date of its first recorded payment anchors
// the monthly due day; a debt enters the feed when the query date falls
// inside the window before that day, within the debt's period span.
func (s *StatisticsService) DailyReminders(ctx context.Context, storeID uuid.UUID, date time.Time) ([]*domain.ReminderItem, error) {
	if err := s.storeExists(ctx, storeID); err != nil {
		return nil, err
	}

	debtors, err := s.DebtorRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	result := make([]*domain.ReminderItem, 0)
	for _, debtor := range debtors {
		debts, err := s.DebtRepo.ListByDebtor(ctx, debtor.ID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}

		for _, debt := range debts {
			payments, err := s.PaymentRepo.ListByDebt(ctx, debt.ID)
			if err != nil {
				return nil, customError.WrapDatabaseError(err)
			}
			if len(payments) == 0 {
				continue
			}

			firstPayment := payments[0].Date
			years, months, days := utils.CalendarDiff(date, firstPayment)

			if years < -1 || years > 1 {
				continue
			}
			if months < 0 || months > 12 || months > debt.DebtPeriod {
				continue
			}
			if days < -s.reminderWindowDays || days > 0 {
				continue
			}
			// same month but the due day already passed
			if months == 0 && days < 0 {
				continue
			}

			result = append(result, &domain.ReminderItem{
				DebtorID:    debtor.ID,
				DebtorName:  debtor.FullName,
				DebtID:      debt.ID,
				DebtPeriod:  debt.DebtPeriod,
				MonthSum:    debt.MonthSum,
				PaymentDate: firstPayment,
			})
		}
	}

	return result, nil
}

// MonthlyBreakdown partitions a store's debts and payments of one calendar
// month by day-of-month and totals both sides.
func (s *StatisticsService) MonthlyBreakdown(ctx context.Context, storeID uuid.UUID, year, month int) (*domain.MonthlyBreakdown, error) {
	if month < 1 || month > 12 {
		return nil, customError.WrapValidation("month must be between 1 and 12")
	}

	if err := s.storeExists(ctx, storeID); err != nil {
		return nil, err
	}

	start, end := utils.MonthWindow(year, month)

	debts, err := s.DebtRepo.ListByStoreBetween(ctx, storeID, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByStoreBetween(ctx, storeID, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	daily := make(map[int]domain.DailyBucket)
	totalDebt := decimal.Zero
	for _, debt := range debts {
		day := debt.DebtDate.Day()
		bucket := daily[day]
		bucket.Debts = bucket.Debts.Add(debt.DebtSum)
		daily[day] = bucket
		totalDebt = totalDebt.Add(debt.DebtSum)
	}

	totalPayments := decimal.Zero
	for _, payment := range payments {
		day := payment.Date.Day()
		bucket := daily[day]
		bucket.Payments = bucket.Payments.Add(payment.Amount)
		daily[day] = bucket
		totalPayments = totalPayments.Add(payment.Amount)
	}

	return &domain.MonthlyBreakdown{
		Year:               year,
		Month:              month,
		TotalNewDebts:      len(debts),
		TotalDebtAmount:    totalDebt,
		TotalPayments:      len(payments),
		TotalPaymentAmount: totalPayments,
		NetMonthlyBalance:  totalPayments.Sub(totalDebt),
		DailyBreakdown:     daily,
	}, nil
}

// DebtorStatistics rolls the store's debtors up into per-debtor and
// store-wide totals. Reads are cached; two calls with no intervening
// writes return identical output.
func (s *StatisticsService) DebtorStatistics(ctx context.Context, storeID uuid.UUID) (*domain.DebtorStatistics, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetDebtorStatistics(ctx, storeID); ok {
			return cached, nil
		}
	}

	stats, err := s.computeDebtorStatistics(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetDebtorStatistics(ctx, storeID, stats)
	}

	return stats, nil
}

func (s *StatisticsService) computeDebtorStatistics(ctx context.Context, storeID uuid.UUID) (*domain.DebtorStatistics, error) {
	if err := s.storeExists(ctx, storeID); err != nil {
		return nil, err
	}

	debtors, err := s.DebtorRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	stats := &domain.DebtorStatistics{
		TotalDebtors:    len(debtors),
		TotalDebtAmount: decimal.Zero,
		TotalPaidAmount: decimal.Zero,
		RemainingDebt:   decimal.Zero,
		DebtorDetails:   make([]*domain.DebtorStat, 0, len(debtors)),
	}

	for _, debtor := range debtors {
		debts, err := s.DebtRepo.ListByDebtor(ctx, debtor.ID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}

		totalDebt := decimal.Zero
		totalPaid := decimal.Zero
		hasOverdue := false

		for _, debt := range debts {
			payments, err := s.PaymentRepo.ListByDebt(ctx, debt.ID)
			if err != nil {
				return nil, customError.WrapDatabaseError(err)
			}

			totalDebt = totalDebt.Add(debt.DebtSum)
			for _, p := range payments {
				totalPaid = totalPaid.Add(p.Amount)
			}
			if !hasOverdue && IsOverdue(debt, payments, now) {
				hasOverdue = true
			}
		}

		isActive := totalDebt.GreaterThan(totalPaid)
		if isActive {
			stats.ActiveDebtors++
		}
		if hasOverdue {
			stats.OverdueDebtors++
		}
		stats.TotalDebtAmount = stats.TotalDebtAmount.Add(totalDebt)
		stats.TotalPaidAmount = stats.TotalPaidAmount.Add(totalPaid)

		stats.DebtorDetails = append(stats.DebtorDetails, &domain.DebtorStat{
			DebtorID:      debtor.ID,
			FullName:      debtor.FullName,
			PhoneNumber:   debtor.PhoneNumber,
			TotalDebt:     totalDebt,
			TotalPaid:     totalPaid,
			RemainingDebt: totalDebt.Sub(totalPaid),
			HasOverdue:    hasOverdue,
			IsActive:      isActive,
		})
	}

	stats.RemainingDebt = stats.TotalDebtAmount.Sub(stats.TotalPaidAmount)

	return stats, nil
}

// DashboardSummary is the store dashboard header: debtor count plus total
// issued debt, each a single aggregate query.
func (s *StatisticsService) DashboardSummary(ctx context.Context, storeID uuid.UUID) (*domain.DashboardSummary, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetDashboard(ctx, storeID); ok {
			return cached, nil
		}
	}

	if err := s.storeExists(ctx, storeID); err != nil {
		return nil, err
	}

	count, err := s.DebtorRepo.CountByStore(ctx, storeID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	total, err := s.DebtRepo.SumByStore(ctx, storeID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	summary := &domain.DashboardSummary{
		TotalDebtors:    count,
		TotalDebtAmount: total,
	}

	if s.cache != nil {
		s.cache.SetDashboard(ctx, storeID, summary)
	}

	return summary, nil
}

// TotalDebtAmount returns the global sum of issued debt across all stores.
func (s *StatisticsService) TotalDebtAmount(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.DebtRepo.SumAll(ctx)
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	return total, nil
}

// LateUnitsForStore sums elapsed late blocks across all of a store's debts
// that still carry a balance. Every elapsed block counts, not one per debt.
func (s *StatisticsService) LateUnitsForStore(ctx context.Context, storeID uuid.UUID) (int, error) {
	if err := s.storeExists(ctx, storeID); err != nil {
		return 0, err
	}

	debts, err := s.DebtRepo.ListByStore(ctx, storeID)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	total := 0
	for _, debt := range debts {
		payments, err := s.PaymentRepo.ListByDebt(ctx, debt.ID)
		if err != nil {
			return 0, customError.WrapDatabaseError(err)
		}
		total += LateUnits(debt, payments, now, s.lateBlockDays)
	}

	return total, nil
}

// RefreshStoreWallet recomputes the store's debtor statistics and writes
// the total issued amount into the wallet column. The wallet column has
// carried this meaning since the first release; see DESIGN.md before
// changing it.
func (s *StatisticsService) RefreshStoreWallet(ctx context.Context, storeID uuid.UUID) error {
	stats, err := s.computeDebtorStatistics(ctx, storeID)
	if err != nil {
		return err
	}

	if err := s.StoreRepo.UpdateWallet(ctx, storeID, stats.TotalDebtAmount); err != nil {
		return customError.WrapDatabaseError(err)
	}

	if s.cache != nil {
		s.cache.SetDebtorStatistics(ctx, storeID, stats)
	}

	return nil
}

func (s *StatisticsService) storeExists(ctx context.Context, storeID uuid.UUID) error {
	if _, err := s.StoreRepo.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapStoreNotFound(storeID.String())
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}
