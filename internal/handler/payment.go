package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/internal/service"
	"github.com/nasiyahub/ledger-engine/pkg/response"
	"github.com/nasiyahub/ledger-engine/pkg/utils"
)

type PaymentHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
	log       *logrus.Logger
}

func NewPaymentHandler(service *service.LedgerService, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: validator.New(),
		log:       log,
	}
}

// Create handles POST /payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	debtID, err := uuid.Parse(request.DebtID)
	if err != nil {
		response.BadRequest(w, "debt_id must be a valid UUID")
		return
	}

	date, err := utils.ParseDate(request.Date)
	if err != nil {
		response.BadRequest(w, "date must be in YYYY-MM-DD format")
		return
	}

	result, err := h.service.ApplyPayment(r.Context(), debtID, request.Amount, date, request.Type)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Created(w, "Payment recorded successfully.", result)
}

// ListByDebt handles GET /payments/debt/{debtId}?type=&from=&to=
// With no filters it returns the full history, oldest first.
func (h *PaymentHandler) ListByDebt(w http.ResponseWriter, r *http.Request) {
	debtID, ok := pathUUID(w, r, "debtId")
	if !ok {
		return
	}

	query := r.URL.Query()

	var payments []*domain.Payment
	var err error
	switch {
	case query.Get("type") != "":
		payments, err = h.service.ListPaymentsByType(r.Context(), debtID, query.Get("type"))
	case query.Get("from") != "" && query.Get("to") != "":
		var from, to time.Time
		from, err = utils.ParseDate(query.Get("from"))
		if err == nil {
			to, err = utils.ParseDate(query.Get("to"))
		}
		if err != nil {
			response.BadRequest(w, "from and to must be in YYYY-MM-DD format")
			return
		}
		payments, err = h.service.ListPaymentsBetween(r.Context(), debtID, from, to)
	default:
		payments, err = h.service.ListPaymentsForDebt(r.Context(), debtID)
	}
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Payments fetched.", payments)
}
