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

type AuthHandler struct {
	service   *service.AuthService
	validator *validator.Validate
	log       *logrus.Logger
}

func NewAuthHandler(service *service.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator.New(),
		log:       log,
	}
}

// SignIn handles POST /auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var request domain.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.SignIn(r.Context(), &request)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.Success(w, "Signed in successfully.", result)
}
