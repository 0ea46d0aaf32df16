package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/internal/service"
	"github.com/nasiyahub/ledger-engine/pkg/response"
)

const maxImageUploadBytes = 10 << 20

type DebtHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
	log       *logrus.Logger
}

func NewDebtHandler(service *service.LedgerService, log *logrus.Logger) *DebtHandler {
	return &DebtHandler{
		service:   service,
		validator: validator.New(),
		log:       log,
	}
}

// Create handles POST /debt
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	debt, err := h.service.CreateDebt(r.Context(), &request)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Created(w, "Debt created successfully.", debt)
}

// FindPagination handles GET /debt/find-pagination?page=&limit=
func (h *DebtHandler) FindPagination(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	debts, err := h.service.ListDebts(r.Context(), page, limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Debts fetched.", debts)
}

// Get handles GET /debt/{id}
func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	debt, err := h.service.GetDebt(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Debt found.", debt)
}

// Update handles PATCH /debt/{id}
func (h *DebtHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var request domain.UpdateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	debt, err := h.service.UpdateDebt(r.Context(), id, &request)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Debt updated successfully.", debt)
}

// Delete handles DELETE /debt/{id}
func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteDebt(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Debt deleted successfully.", nil)
}

// AttachImage handles POST /debt/image/{id} (multipart "file")
func (h *DebtHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	image, err := h.service.AttachDebtImage(
		r.Context(),
		id,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Created(w, "Debt image successfully created.", image)
}

// ListImages handles GET /debt/images/{id}
func (h *DebtHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	images, err := h.service.ListDebtImages(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Debt images retrieved successfully.", images)
}

// DeleteImage handles DELETE /debt/image/{id}
func (h *DebtHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteDebtImage(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Image deleted successfully.", nil)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
