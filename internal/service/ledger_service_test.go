package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	customError "github.com/nasiyahub/ledger-engine/pkg/errors"
)

type ledgerMocks struct {
	debtRepo    *MockDebtRepository
	debtorRepo  *MockDebtorRepository
	paymentRepo *MockPaymentRepository
	imageRepo   *MockDebtImageRepository
	storeRepo   *MockStoreRepository
	atomic      *MockAtomicRunner
	images      *MockImageStore
}

func newLedgerService(t *testing.T) (*LedgerService, *ledgerMocks) {
	t.Helper()

	m := &ledgerMocks{
		debtRepo:    new(MockDebtRepository),
		debtorRepo:  new(MockDebtorRepository),
		paymentRepo: new(MockPaymentRepository),
		imageRepo:   new(MockDebtImageRepository),
		storeRepo:   new(MockStoreRepository),
		atomic:      new(MockAtomicRunner),
		images:      new(MockImageStore),
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := NewLedgerService(m.debtRepo, m.debtorRepo, m.paymentRepo, m.imageRepo, m.storeRepo,
		m.atomic, m.images, nil, log)

	return svc, m
}

func TestCreateDebt_DerivesInstallment(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debtor := &domain.Debtor{ID: uuid.New(), StoreID: uuid.New(), FullName: "Aziz Karimov"}
	m.debtorRepo.On("GetByID", ctx, debtor.ID).Return(debtor, nil)
	m.debtRepo.On("Create", ctx, mock.AnythingOfType("*domain.Debt")).Return(nil)

	request := &domain.CreateDebtRequest{
		DebtorID:    debtor.ID.String(),
		DebtDate:    time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		DebtPeriod:  3,
		DebtSum:     decimal.NewFromInt(300000),
		Description: "Refrigerator",
	}

	debt, err := svc.CreateDebt(ctx, request)

	assert.NoError(t, err)
	assert.Equal(t, debtor.ID, debt.DebtorID)
	assert.True(t, debt.DebtSum.Equal(decimal.NewFromInt(300000)))
	assert.True(t, debt.MonthSum.Equal(decimal.NewFromInt(100000)))
	m.debtRepo.AssertExpectations(t)
}

func TestCreateDebt_DebtorMissing(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debtorID := uuid.New()
	m.debtorRepo.On("GetByID", ctx, debtorID).Return(nil, sql.ErrNoRows)

	_, err := svc.CreateDebt(ctx, &domain.CreateDebtRequest{
		DebtorID:    debtorID.String(),
		DebtDate:    time.Now(),
		DebtPeriod:  6,
		DebtSum:     decimal.NewFromInt(50000),
		Description: "Phone",
	})

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeDebtorNotFound, customError.CodeOf(err))
	m.debtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDebt_DisallowedPeriod(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debtor := &domain.Debtor{ID: uuid.New(), StoreID: uuid.New()}
	m.debtorRepo.On("GetByID", ctx, debtor.ID).Return(debtor, nil)

	_, err := svc.CreateDebt(ctx, &domain.CreateDebtRequest{
		DebtorID:    debtor.ID.String(),
		DebtDate:    time.Now(),
		DebtPeriod:  5,
		DebtSum:     decimal.NewFromInt(100000),
		Description: "TV",
	})

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeInvalidPeriod, customError.CodeOf(err))
	m.debtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Creating a debt and reading it back must yield the same schedule and a
// balance derived purely from the payment history.
func TestCreateDebt_ThenGetRoundTrip(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debtor := &domain.Debtor{ID: uuid.New(), StoreID: uuid.New()}
	m.debtorRepo.On("GetByID", ctx, debtor.ID).Return(debtor, nil)

	var stored *domain.Debt
	m.debtRepo.On("Create", ctx, mock.AnythingOfType("*domain.Debt")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Debt)
		}).Return(nil)

	created, err := svc.CreateDebt(ctx, &domain.CreateDebtRequest{
		DebtorID:    debtor.ID.String(),
		DebtDate:    time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC),
		DebtPeriod:  12,
		DebtSum:     decimal.NewFromInt(1000),
		Description: "Washing machine",
	})
	assert.NoError(t, err)
	assert.True(t, created.MonthSum.Equal(decimal.NewFromInt(83)))

	m.debtRepo.On("GetByID", ctx, stored.ID).Return(stored, nil)
	m.paymentRepo.On("TotalPaid", ctx, stored.ID).Return(decimal.Zero, nil)

	fetched, err := svc.GetDebt(ctx, stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, fetched.Debt.ID)
	assert.True(t, fetched.Debt.MonthSum.Equal(created.MonthSum))
	assert.True(t, fetched.Remaining.Equal(created.DebtSum))
}

func TestUpdateDebt_RecomputesInstallment(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 300000, 3)
	m.debtRepo.On("GetByID", ctx, debt.ID).Return(debt, nil)
	m.debtRepo.On("Update", ctx, mock.AnythingOfType("*domain.Debt")).Return(nil)

	newPeriod := 6
	updated, err := svc.UpdateDebt(ctx, debt.ID, &domain.UpdateDebtRequest{DebtPeriod: &newPeriod})

	assert.NoError(t, err)
	assert.Equal(t, 6, updated.DebtPeriod)
	assert.True(t, updated.MonthSum.Equal(decimal.NewFromInt(50000)))
}

func TestUpdateDebt_DescriptionOnlyKeepsSchedule(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 300000, 3)
	originalMonthSum := debt.MonthSum
	m.debtRepo.On("GetByID", ctx, debt.ID).Return(debt, nil)
	m.debtRepo.On("Update", ctx, mock.AnythingOfType("*domain.Debt")).Return(nil)

	note := "updated note"
	updated, err := svc.UpdateDebt(ctx, debt.ID, &domain.UpdateDebtRequest{Description: &note})

	assert.NoError(t, err)
	assert.Equal(t, note, updated.Description)
	assert.True(t, updated.MonthSum.Equal(originalMonthSum))
}

func TestApplyPayment_NonPositiveAmount(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		_, err := svc.ApplyPayment(ctx, uuid.New(), amount, time.Now(), domain.PaymentTypeCash)
		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeInvalidPaymentAmount, customError.CodeOf(err))
	}
	m.atomic.AssertNotCalled(t, "RunAtomic", mock.Anything)
}

func TestApplyPayment_ExceedsRemaining(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Now().AddDate(0, -1, 0), 1000, 1)
	m.atomic.On("RunAtomic", ctx).Return(nil)
	m.debtRepo.On("GetForUpdateTx", ctx, mock.Anything, debt.ID).Return(debt, nil)
	m.paymentRepo.On("TotalPaidTx", ctx, mock.Anything, debt.ID).Return(decimal.NewFromInt(400), nil)

	_, err := svc.ApplyPayment(ctx, debt.ID, decimal.NewFromInt(700), time.Now(), domain.PaymentTypeCard)

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodePaymentExceedsRemaining, customError.CodeOf(err))
	m.paymentRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyPayment_DerivesRemaining(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Now().AddDate(0, -1, 0), 1000, 1)
	m.atomic.On("RunAtomic", ctx).Return(nil)
	m.debtRepo.On("GetForUpdateTx", ctx, mock.Anything, debt.ID).Return(debt, nil)
	m.paymentRepo.On("TotalPaidTx", ctx, mock.Anything, debt.ID).Return(decimal.NewFromInt(400), nil)
	m.paymentRepo.On("CreateTx", ctx, mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)

	result, err := svc.ApplyPayment(ctx, debt.ID, decimal.NewFromInt(300), time.Now(), domain.PaymentTypeCash)

	assert.NoError(t, err)
	assert.True(t, result.Remaining.Equal(decimal.NewFromInt(300)))
	// the stored amount never moves; only the payment row is written
	assert.True(t, debt.DebtSum.Equal(decimal.NewFromInt(1000)))
	m.paymentRepo.AssertExpectations(t)
}

func TestApplyPayment_ExactRemainingSettles(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Now().AddDate(0, -2, 0), 1000, 1)
	m.atomic.On("RunAtomic", ctx).Return(nil)
	m.debtRepo.On("GetForUpdateTx", ctx, mock.Anything, debt.ID).Return(debt, nil)
	m.paymentRepo.On("TotalPaidTx", ctx, mock.Anything, debt.ID).Return(decimal.NewFromInt(400), nil)
	m.paymentRepo.On("CreateTx", ctx, mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)

	result, err := svc.ApplyPayment(ctx, debt.ID, decimal.NewFromInt(600), time.Now(), domain.PaymentTypeTransfer)

	assert.NoError(t, err)
	assert.True(t, result.Remaining.Equal(decimal.Zero))
}

// The balance check and the insert must share one atomic unit on the locked
// debt row; no read or write may bypass it.
func TestApplyPayment_ChecksAndInsertsInOneUnit(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Now().AddDate(0, -1, 0), 1000, 1)
	m.atomic.On("RunAtomic", ctx).Return(nil)
	m.debtRepo.On("GetForUpdateTx", ctx, mock.Anything, debt.ID).Return(debt, nil)
	m.paymentRepo.On("TotalPaidTx", ctx, mock.Anything, debt.ID).Return(decimal.Zero, nil)
	m.paymentRepo.On("CreateTx", ctx, mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)

	_, err := svc.ApplyPayment(ctx, debt.ID, decimal.NewFromInt(500), time.Now(), domain.PaymentTypeCash)

	assert.NoError(t, err)
	m.atomic.AssertCalled(t, "RunAtomic", ctx)
	m.debtRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	m.paymentRepo.AssertNotCalled(t, "TotalPaid", mock.Anything, mock.Anything)
}

func TestApplyPayment_DebtMissing(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	id := uuid.New()
	m.atomic.On("RunAtomic", ctx).Return(nil)
	m.debtRepo.On("GetForUpdateTx", ctx, mock.Anything, id).Return(nil, sql.ErrNoRows)

	_, err := svc.ApplyPayment(ctx, id, decimal.NewFromInt(100), time.Now(), domain.PaymentTypeCash)

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeDebtNotFound, customError.CodeOf(err))
}

func TestListPaymentsByType_RejectsUnknownType(t *testing.T) {
	svc, m := newLedgerService(t)

	_, err := svc.ListPaymentsByType(context.Background(), uuid.New(), "CRYPTO")

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	m.paymentRepo.AssertNotCalled(t, "ListByDebtAndType", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPaymentsByType(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Now().AddDate(0, -1, 0), 100000, 3)
	m.debtRepo.On("GetByID", ctx, debt.ID).Return(debt, nil)
	m.paymentRepo.On("ListByDebtAndType", ctx, debt.ID, domain.PaymentTypeCard).
		Return([]*domain.Payment{paymentOf(20000, time.Now())}, nil)

	payments, err := svc.ListPaymentsByType(ctx, debt.ID, domain.PaymentTypeCard)

	assert.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestListPaymentsBetween_RejectsInvertedRange(t *testing.T) {
	svc, m := newLedgerService(t)

	from := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -5)
	_, err := svc.ListPaymentsBetween(context.Background(), uuid.New(), from, to)

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	m.paymentRepo.AssertNotCalled(t, "ListByDebtBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachDebtImage_RejectsContentType(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	_, err := svc.AttachDebtImage(ctx, uuid.New(), "contract.pdf", "application/pdf", strings.NewReader("x"), 1)

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	m.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachDebtImage_RollbackRemovesObject(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Now(), 100000, 3)
	m.debtRepo.On("GetByID", ctx, debt.ID).Return(debt, nil)
	m.images.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, int64(3), "image/png").
		Return("http://storage/debts/key.png", nil)
	m.atomic.On("RunAtomic", ctx).Return(errors.New("insert failed"))
	m.images.On("Remove", ctx, mock.AnythingOfType("string")).Return(nil)

	_, err := svc.AttachDebtImage(ctx, debt.ID, "proof.png", "image/png", strings.NewReader("png"), 3)

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeAtomicUnitFailure, customError.CodeOf(err))
	m.images.AssertCalled(t, "Remove", ctx, mock.AnythingOfType("string"))
}

func TestAttachDebtImage_Succeeds(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Now(), 100000, 3)
	m.debtRepo.On("GetByID", ctx, debt.ID).Return(debt, nil)
	m.images.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, int64(4), "image/jpeg").
		Return("http://storage/debts/key.jpg", nil)
	m.atomic.On("RunAtomic", ctx).Return(nil)
	m.imageRepo.On("CreateTx", ctx, mock.Anything, mock.AnythingOfType("*domain.DebtImage")).Return(nil)

	image, err := svc.AttachDebtImage(ctx, debt.ID, "proof.jpg", "image/jpeg", strings.NewReader("jpeg"), 4)

	assert.NoError(t, err)
	assert.Equal(t, debt.ID, image.DebtID)
	assert.Equal(t, "http://storage/debts/key.jpg", image.URL)
	m.images.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	m.imageRepo.AssertExpectations(t)
}

func TestListDebtImages_DebtMissing(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	id := uuid.New()
	m.debtRepo.On("GetByID", ctx, id).Return(nil, sql.ErrNoRows)

	_, err := svc.ListDebtImages(ctx, id)

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeDebtNotFound, customError.CodeOf(err))
	m.imageRepo.AssertNotCalled(t, "ListByDebt", mock.Anything, mock.Anything)
}

func TestListDebtImages(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debt := newTestDebt(time.Now(), 100000, 3)
	m.debtRepo.On("GetByID", ctx, debt.ID).Return(debt, nil)
	m.imageRepo.On("ListByDebt", ctx, debt.ID).Return([]*domain.DebtImage{
		{ID: uuid.New(), DebtID: debt.ID, ObjectKey: "debts/a.png", URL: "http://storage/debts/a.png"},
	}, nil)

	images, err := svc.ListDebtImages(ctx, debt.ID)

	assert.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestAddDebtorPhone_RunsAtomically(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	debtor := &domain.Debtor{ID: uuid.New(), StoreID: uuid.New()}
	m.debtorRepo.On("GetByID", ctx, debtor.ID).Return(debtor, nil)
	m.atomic.On("RunAtomic", ctx).Return(nil)
	m.debtorRepo.On("AddPhoneTx", ctx, mock.Anything, mock.AnythingOfType("*domain.DebtorPhone")).Return(nil)

	phone, err := svc.AddDebtorPhone(ctx, debtor.ID, "+998901234567")

	assert.NoError(t, err)
	assert.Equal(t, debtor.ID, phone.DebtorID)
	assert.Equal(t, "+998901234567", phone.PhoneNumber)
	m.debtorRepo.AssertExpectations(t)
}

func TestDeleteDebt_NotFound(t *testing.T) {
	svc, m := newLedgerService(t)
	ctx := context.Background()

	id := uuid.New()
	m.debtRepo.On("GetByID", ctx, id).Return(nil, sql.ErrNoRows)

	err := svc.DeleteDebt(ctx, id)

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeDebtNotFound, customError.CodeOf(err))
}
