package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/internal/service"
	"github.com/nasiyahub/ledger-engine/pkg/response"
)

type DebtorHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
	log       *logrus.Logger
}

func NewDebtorHandler(service *service.LedgerService, log *logrus.Logger) *DebtorHandler {
	return &DebtorHandler{
		service:   service,
		validator: validator.New(),
		log:       log,
	}
}

// Create handles POST /debtor
func (h *DebtorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateDebtorRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	debtor, err := h.service.CreateDebtor(r.Context(), &request)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Created(w, "Debtor created successfully.", debtor)
}

// Get handles GET /debtor/{id}
func (h *DebtorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	debtor, err := h.service.GetDebtor(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Debtor found.", debtor)
}

// AddPhone handles POST /debtor/{id}/phones
func (h *DebtorHandler) AddPhone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var request domain.AddDebtorPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	phone, err := h.service.AddDebtorPhone(r.Context(), id, request.PhoneNumber)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Created(w, "Phone number added successfully.", phone)
}
