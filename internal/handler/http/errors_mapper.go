// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"net/http"

	"github.com/askdb/askdb/internal/dispatch"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/pool"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/store"
	"github.com/askdb/askdb/internal/utils"
	"github.com/askdb/askdb/models"
)

// Machine-readable error codes carried in the "code" field of every error
// response body.
const (
	codeAuthRequired        = "AUTH_REQUIRED"
	codeAuthFailed          = "AUTH_FAILED"
	codeForbidden           = "FORBIDDEN"
	codeValidationFailed    = "VALIDATION_FAILED"
	codeNotFound            = "NOT_FOUND"
	codeDuplicate           = "DUPLICATE"
	codePoolExhausted       = "POOL_EXHAUSTED"
	codeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	codeInternal            = "INTERNAL"
)

// writeError maps a service-layer error onto the stable HTTP error surface.
//
// The mapping deliberately flattens detail: revoked sessions look like any
// other 401, a foreign credential looks like an absent one, and internal
// failures carry a generic message. The full error is logged server-side
// with the request's trace id.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var validation *service.ValidationError
	var dispatchErr *dispatch.DispatchError

	switch {
	case errors.As(err, &validation):
		log.Debug().Err(err).Msg("validation failed")
		utils.WriteJSON(w, models.ErrorResponse{
			Error:  "validation failed",
			Code:   codeValidationFailed,
			Fields: validation.Fields,
		}, http.StatusBadRequest)

	case errors.Is(err, service.ErrInvalidDataProvided):
		log.Debug().Err(err).Msg("invalid data provided")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "invalid data provided",
			Code:  codeValidationFailed,
		}, http.StatusBadRequest)

	case errors.Is(err, service.ErrWrongPassword):
		log.Debug().Err(err).Msg("login rejected")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "invalid email or password",
			Code:  codeAuthFailed,
		}, http.StatusUnauthorized)

	// Revoked sessions are externally indistinguishable from any other
	// missing-auth case.
	case errors.Is(err, service.ErrAuthRequired), errors.Is(err, service.ErrSessionRevoked):
		log.Debug().Err(err).Msg("authentication required")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "authentication required",
			Code:  codeAuthRequired,
		}, http.StatusUnauthorized)

	case errors.Is(err, service.ErrForbidden):
		log.Debug().Err(err).Msg("permission denied")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "permission denied",
			Code:  codeForbidden,
		}, http.StatusForbidden)

	case errors.Is(err, store.ErrUserNotFound):
		log.Debug().Err(err).Msg("user not found")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "user not found",
			Code:  codeNotFound,
		}, http.StatusNotFound)

	case errors.Is(err, store.ErrCredentialNotFound):
		log.Debug().Err(err).Msg("credential not found")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "credential not found",
			Code:  codeNotFound,
		}, http.StatusNotFound)

	case errors.Is(err, store.ErrDuplicateEmail):
		log.Debug().Err(err).Msg("duplicate email")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "email is already registered",
			Code:  codeDuplicate,
		}, http.StatusConflict)

	case errors.Is(err, pool.ErrPoolExhausted):
		log.Warn().Err(err).Msg("connection pool exhausted")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "no connection capacity available, retry later",
			Code:  codePoolExhausted,
		}, http.StatusServiceUnavailable)

	case errors.Is(err, dispatch.ErrCircuitOpen), errors.As(err, &dispatchErr):
		log.Warn().Err(err).Msg("query engine unavailable")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "query engine is unavailable, retry later",
			Code:  codeUpstreamUnavailable,
		}, http.StatusServiceUnavailable)

	default:
		log.Err(err).Msg("unexpected error")
		utils.WriteJSON(w, models.ErrorResponse{
			Error: "internal server error",
			Code:  codeInternal,
		}, http.StatusInternalServerError)
	}
}
