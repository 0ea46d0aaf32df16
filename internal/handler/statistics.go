package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/internal/service"
	"github.com/nasiyahub/ledger-engine/pkg/response"
	"github.com/nasiyahub/ledger-engine/pkg/utils"
)

type StatisticsHandler struct {
	service *service.StatisticsService
	log     *logrus.Logger
}

func NewStatisticsHandler(service *service.StatisticsService, log *logrus.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		service: service,
		log:     log,
	}
}

// Daily handles GET /store-statistics/daily?date=
// The store is the bearer-token subject.
func (h *StatisticsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	storeID, ok := StoreIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing store identity")
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD format")
			return
		}
		date = parsed
	}

	reminders, err := h.service.DailyReminders(r.Context(), storeID, date)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Daily statistics fetched.", reminders)
}

// Monthly handles GET /store-statistics/{storeId}/monthly?year=&month=
func (h *StatisticsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathUUID(w, r, "storeId")
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "year must be an integer")
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "month must be an integer")
		return
	}

	breakdown, err := h.service.MonthlyBreakdown(r.Context(), storeID, year, month)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Monthly statistics fetched.", breakdown)
}

// Debtors handles GET /store-statistics/{storeId}/debtors
func (h *StatisticsHandler) Debtors(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathUUID(w, r, "storeId")
	if !ok {
		return
	}

	stats, err := h.service.DebtorStatistics(r.Context(), storeID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Debtor statistics fetched.", stats)
}

// UpdateStats handles GET /store-statistics/{storeId}/update-stats
func (h *StatisticsHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathUUID(w, r, "storeId")
	if !ok {
		return
	}

	if err := h.service.RefreshStoreWallet(r.Context(), storeID); err != nil {
		writeError(w, h.log, err)
		return
	}

	stats, err := h.service.DebtorStatistics(r.Context(), storeID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Store statistics refreshed.", stats)
}

// Dashboard handles GET /store-statistics/{storeId}/dashboard
func (h *StatisticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathUUID(w, r, "storeId")
	if !ok {
		return
	}

	summary, err := h.service.DashboardSummary(r.Context(), storeID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Dashboard summary fetched.", summary)
}

// LatePayments handles GET /store-statistics/late-payments
// The store is the bearer-token subject.
func (h *StatisticsHandler) LatePayments(w http.ResponseWriter, r *http.Request) {
	storeID, ok := StoreIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing store identity")
		return
	}

	lateUnits, err := h.service.LateUnitsForStore(r.Context(), storeID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Success", domain.LatePaymentsResponse{LateDebts: lateUnits})
}

// TotalDebt handles GET /statistics/totalDept
func (h *StatisticsHandler) TotalDebt(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalDebtAmount(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Total debt fetched.", total)
}
