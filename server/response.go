package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/log"
)

const (
	defaultErrorCode   = 1
	defaultSuccessCode = 0
)

// CommonResponse wraps every body the server writes.
type CommonResponse struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

var (
	errBadRequest   = errors.New("bad request")
	errUnauthorized = errors.New("missing or invalid operator token")
	errNoStorage    = errors.New("event storage is not configured")
)

func writeJSON(w http.ResponseWriter, status int, resp CommonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Warnf("failed to encode response: %v", err)
	}
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, CommonResponse{Code: defaultSuccessCode, Msg: "success", Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), CommonResponse{Code: defaultErrorCode, Msg: err.Error()})
}

// statusOf maps ledger errors to HTTP statuses. Anything unknown is a 500.
func statusOf(err error) int {
	var (
		unauthorized   *gerror.UnauthorizedAccessError
		notWhitelisted *gerror.NotWhitelistedError
	)
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errNoStorage):
		return http.StatusServiceUnavailable
	case errors.As(err, &unauthorized):
		return http.StatusForbidden
	case errors.Is(err, gerror.ErrActionOutOfPhase),
		errors.Is(err, gerror.ErrPaused),
		errors.Is(err, gerror.ErrNotPaused),
		errors.Is(err, gerror.ErrDuplicateExternalRef):
		return http.StatusConflict
	case errors.As(err, &notWhitelisted),
		errors.Is(err, gerror.ErrZeroAmountArgument),
		errors.Is(err, gerror.ErrZeroAddressArgument),
		errors.Is(err, gerror.ErrDepositBelowMinimum),
		errors.Is(err, gerror.ErrConversionOverflow),
		errors.Is(err, gerror.ErrTransferExceedsBalance),
		errors.Is(err, gerror.ErrInsufficientAllowance),
		errors.Is(err, gerror.ErrAllowanceOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
