package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/internal/repository"
	"github.com/nasiyahub/ledger-engine/internal/storage"
	customError "github.com/nasiyahub/ledger-engine/pkg/errors"
)

var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
}

// LedgerService owns the write path of the ledger: debt lifecycle, payment
// application and the atomic debt-image unit.
type LedgerService struct {
	DebtRepo    repository.DebtRepository
	DebtorRepo  repository.DebtorRepository
	PaymentRepo repository.PaymentRepository
	ImageRepo   repository.DebtImageRepository
	StoreRepo   repository.StoreRepository
	atomic      repository.AtomicRunner
	images      storage.ImageStore
	cache       StatsCache
	log         *logrus.Logger
}

func NewLedgerService(
	debtRepo repository.DebtRepository,
	debtorRepo repository.DebtorRepository,
	paymentRepo repository.PaymentRepository,
	imageRepo repository.DebtImageRepository,
	storeRepo repository.StoreRepository,
	atomic repository.AtomicRunner,
	images storage.ImageStore,
	cache StatsCache,
	log *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		DebtRepo:    debtRepo,
		DebtorRepo:  debtorRepo,
		PaymentRepo: paymentRepo,
		ImageRepo:   imageRepo,
		StoreRepo:   storeRepo,
		atomic:      atomic,
		images:      images,
		cache:       cache,
		log:         log,
	}
}

// CreateDebt establishes the installment schedule for a credit sale and
// persists the debt. The monthly installment is derived once, here.
func (s *LedgerService) CreateDebt(ctx context.Context, request *domain.CreateDebtRequest) (*domain.Debt, error) {
	debtorID, err := uuid.Parse(request.DebtorID)
	if err != nil {
		return nil, customError.WrapValidation("debtor_id must be a valid UUID")
	}

	debtor, err := s.DebtorRepo.GetByID(ctx, debtorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtorNotFound(request.DebtorID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	monthSum, err := MonthlyInstallment(request.DebtSum, request.DebtPeriod)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	debt := &domain.Debt{
		ID:          uuid.New(),
		DebtorID:    debtorID,
		DebtDate:    request.DebtDate,
		DebtPeriod:  request.DebtPeriod,
		DebtSum:     request.DebtSum,
		MonthSum:    monthSum,
		Description: request.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.DebtRepo.Create(ctx, debt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateStats(ctx, debtor.StoreID)

	return debt, nil
}

// GetDebt returns a debt together with its derived balance.
func (s *LedgerService) GetDebt(ctx context.Context, id uuid.UUID) (*domain.DebtWithBalance, error) {
	debt, err := s.DebtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	totalPaid, err := s.PaymentRepo.TotalPaid(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.DebtWithBalance{
		Debt:      debt,
		TotalPaid: totalPaid,
		Remaining: debt.DebtSum.Sub(totalPaid),
	}, nil
}

// ListDebts returns one page of debts, newest first.
func (s *LedgerService) ListDebts(ctx context.Context, page, limit int) ([]*domain.Debt, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	debts, err := s.DebtRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return debts, nil
}

// UpdateDebt applies PATCH semantics to a debt. Any change to debt_sum or
// debt_period re-derives month_sum; a stale stored installment is the
// legacy bug this service exists to close.
func (s *LedgerService) UpdateDebt(ctx context.Context, id uuid.UUID, request *domain.UpdateDebtRequest) (*domain.Debt, error) {
	debt, err := s.DebtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	scheduleChanged := false
	if request.DebtDate != nil {
		debt.DebtDate = *request.DebtDate
	}
	if request.DebtPeriod != nil && *request.DebtPeriod != debt.DebtPeriod {
		debt.DebtPeriod = *request.DebtPeriod
		scheduleChanged = true
	}
	if request.DebtSum != nil && !request.DebtSum.Equal(debt.DebtSum) {
		debt.DebtSum = *request.DebtSum
		scheduleChanged = true
	}
	if request.Description != nil {
		debt.Description = *request.Description
	}

	if scheduleChanged {
		monthSum, err := MonthlyInstallment(debt.DebtSum, debt.DebtPeriod)
		if err != nil {
			return nil, err
		}
		debt.MonthSum = monthSum
	}

	debt.UpdatedAt = time.Now()
	if err := s.DebtRepo.Update(ctx, debt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateStatsForDebtor(ctx, debt.DebtorID)

	return debt, nil
}

// DeleteDebt removes a debt; cached aggregates for its store are dropped.
func (s *LedgerService) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	debt, err := s.DebtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapDebtNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}

	if err := s.DebtRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapDebtNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}

	s.invalidateStatsForDebtor(ctx, debt.DebtorID)

	return nil
}

// ApplyPayment validates a payment against the debt's derived balance and
// persists it. debt_sum is never touched; the check and the insert share
// one atomic unit holding the debt's row lock, so concurrent payments
// serialize and the derived remaining balance cannot go negative.
func (s *LedgerService) ApplyPayment(ctx context.Context, debtID uuid.UUID, amount decimal.Decimal, date time.Time, paymentType string) (*domain.ApplyPaymentResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidPaymentAmount(amount.String())
	}

	var result *domain.ApplyPaymentResponse
	var debtorID uuid.UUID

	err := s.atomic.RunAtomic(ctx, func(tx *sqlx.Tx) error {
		debt, err := s.DebtRepo.GetForUpdateTx(ctx, tx, debtID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapDebtNotFound(debtID.String())
			}
			return customError.WrapDatabaseError(err)
		}
		debtorID = debt.DebtorID

		totalPaid, err := s.PaymentRepo.TotalPaidTx(ctx, tx, debtID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		remaining := debt.DebtSum.Sub(totalPaid)
		if amount.GreaterThan(remaining) {
			return customError.WrapPaymentExceedsRemaining(amount.String(), remaining.String())
		}

		payment := &domain.Payment{
			ID:        uuid.New(),
			DebtID:    debtID,
			Amount:    amount,
			Date:      date,
			Type:      paymentType,
			CreatedAt: time.Now(),
		}

		if err := s.PaymentRepo.CreateTx(ctx, tx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		result = &domain.ApplyPaymentResponse{
			Payment:   payment,
			Remaining: remaining.Sub(amount),
		}
		return nil
	})
	if err != nil {
		var be *customError.BusinessError
		if errors.As(err, &be) {
			return nil, err
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateStatsForDebtor(ctx, debtorID)

	return result, nil
}

// ListPaymentsForDebt returns the payment history of a debt, oldest first.
func (s *LedgerService) ListPaymentsForDebt(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.DebtRepo.GetByID(ctx, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByDebt(ctx, debtID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// ListPaymentsByType filters a debt's payment history by payment type.
func (s *LedgerService) ListPaymentsByType(ctx context.Context, debtID uuid.UUID, paymentType string) ([]*domain.Payment, error) {
	switch paymentType {
	case domain.PaymentTypeCash, domain.PaymentTypeCard, domain.PaymentTypeTransfer:
	default:
		return nil, customError.WrapValidation("type must be CASH, CARD or BANK_TRANSFER")
	}

	if _, err := s.DebtRepo.GetByID(ctx, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByDebtAndType(ctx, debtID, paymentType)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// ListPaymentsBetween returns a debt's payments dated inside [from, to].
func (s *LedgerService) ListPaymentsBetween(ctx context.Context, debtID uuid.UUID, from, to time.Time) ([]*domain.Payment, error) {
	if to.Before(from) {
		return nil, customError.WrapValidation("from must not be after to")
	}

	if _, err := s.DebtRepo.GetByID(ctx, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByDebtBetween(ctx, debtID, from, to)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// AttachDebtImage uploads a proof image and records its metadata in one
// atomic unit: if the row insert fails, the uploaded object is removed and
// nothing stays behind.
func (s *LedgerService) AttachDebtImage(ctx context.Context, debtID uuid.UUID, filename, contentType string, file io.Reader, size int64) (*domain.DebtImage, error) {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, customError.WrapValidation("only JPG, PNG and GIF files are allowed")
	}

	if _, err := s.DebtRepo.GetByID(ctx, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	key := fmt.Sprintf("debts/%s%s", uuid.New(), filepath.Ext(filename))
	url, err := s.images.Upload(ctx, key, file, size, contentType)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	image := &domain.DebtImage{
		ID:        uuid.New(),
		DebtID:    debtID,
		ObjectKey: key,
		URL:       url,
		CreatedAt: time.Now(),
	}

	err = s.atomic.RunAtomic(ctx, func(tx *sqlx.Tx) error {
		return s.ImageRepo.CreateTx(ctx, tx, image)
	})
	if err != nil {
		if removeErr := s.images.Remove(ctx, key); removeErr != nil {
			s.log.WithError(removeErr).WithField("object_key", key).Error("orphaned image object after rollback")
		}
		return nil, customError.WrapAtomicUnitFailure(err)
	}

	return image, nil
}

// ListDebtImages returns the image metadata rows of a debt, newest first.
func (s *LedgerService) ListDebtImages(ctx context.Context, debtID uuid.UUID) ([]*domain.DebtImage, error) {
	if _, err := s.DebtRepo.GetByID(ctx, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	images, err := s.ImageRepo.ListByDebt(ctx, debtID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return images, nil
}

// DeleteDebtImage removes the stored object, then the metadata row.
func (s *LedgerService) DeleteDebtImage(ctx context.Context, imageID uuid.UUID) error {
	image, err := s.ImageRepo.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapImageNotFound(imageID.String())
		}
		return customError.WrapDatabaseError(err)
	}

	if err := s.images.Remove(ctx, image.ObjectKey); err != nil {
		return customError.WrapStorageError(err)
	}

	if err := s.ImageRepo.Delete(ctx, imageID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// CreateDebtor registers a new debtor under an existing store.
func (s *LedgerService) CreateDebtor(ctx context.Context, request *domain.CreateDebtorRequest) (*domain.Debtor, error) {
	storeID, err := uuid.Parse(request.StoreID)
	if err != nil {
		return nil, customError.WrapValidation("store_id must be a valid UUID")
	}

	if _, err := s.StoreRepo.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapStoreNotFound(request.StoreID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	debtor := &domain.Debtor{
		ID:          uuid.New(),
		StoreID:     storeID,
		FullName:    request.FullName,
		PhoneNumber: request.PhoneNumber,
		Address:     request.Address,
		Note:        request.Note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.DebtorRepo.Create(ctx, debtor); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return debtor, nil
}

// GetDebtor retrieves one debtor.
func (s *LedgerService) GetDebtor(ctx context.Context, id uuid.UUID) (*domain.Debtor, error) {
	debtor, err := s.DebtorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtorNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return debtor, nil
}

// AddDebtorPhone appends an additional phone number inside an atomic unit.
func (s *LedgerService) AddDebtorPhone(ctx context.Context, debtorID uuid.UUID, phoneNumber string) (*domain.DebtorPhone, error) {
	if _, err := s.DebtorRepo.GetByID(ctx, debtorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtorNotFound(debtorID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	phone := &domain.DebtorPhone{
		ID:          uuid.New(),
		DebtorID:    debtorID,
		PhoneNumber: phoneNumber,
		CreatedAt:   time.Now(),
	}

	err := s.atomic.RunAtomic(ctx, func(tx *sqlx.Tx) error {
		return s.DebtorRepo.AddPhoneTx(ctx, tx, phone)
	})
	if err != nil {
		return nil, customError.WrapAtomicUnitFailure(err)
	}

	return phone, nil
}

func (s *LedgerService) invalidateStats(ctx context.Context, storeID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, storeID)
	}
}

// invalidateStatsForDebtor resolves the owning store first; a failed lookup
// only costs cache freshness, not the write.
func (s *LedgerService) invalidateStatsForDebtor(ctx context.Context, debtorID uuid.UUID) {
	if s.cache == nil {
		return
	}

	debtor, err := s.DebtorRepo.GetByID(ctx, debtorID)
	if err != nil {
		s.log.WithError(err).WithField("debtor_id", debtorID).Warn("stats invalidation skipped")
		return
	}

	s.cache.Invalidate(ctx, debtor.StoreID)
}
