package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	customError "github.com/nasiyahub/ledger-engine/pkg/errors"
	"github.com/nasiyahub/ledger-engine/pkg/response"
)

// writeError maps the business error taxonomy onto HTTP statuses. Internal
// detail goes to the log; clients only see the classified message.
func writeError(w http.ResponseWriter, log *logrus.Logger, err error) {
	code := customError.CodeOf(err)
	message := customError.MessageOf(err)

	switch code {
	case customError.ErrCodeDebtNotFound,
		customError.ErrCodeDebtorNotFound,
		customError.ErrCodeStoreNotFound,
		customError.ErrCodeImageNotFound:
		response.NotFound(w, message)
	case customError.ErrCodeValidation,
		customError.ErrCodeInvalidPeriod,
		customError.ErrCodeInvalidPaymentAmount,
		customError.ErrCodePaymentExceedsRemaining:
		response.BadRequest(w, message)
	case customError.ErrCodeUnauthorized:
		response.Unauthorized(w, message)
	default:
		log.WithError(err).Error("request failed")
		response.InternalServerError(w, "internal server error")
	}
}
