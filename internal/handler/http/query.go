// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"

	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/utils"
	"github.com/askdb/askdb/models"
)

func (h *Handler) runQuery(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errMissingContextUser())
		return
	}

	var input models.QueryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		writeError(w, r, errInvalidJSON())
		return
	}

	result, err := h.services.Query.Run(r.Context(), user, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) schemaAction(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errMissingContextUser())
		return
	}

	var req models.SchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		writeError(w, r, errInvalidJSON())
		return
	}

	result, err := h.services.Query.SchemaAction(r.Context(), user, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) poolStats(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Query.PoolStats(), http.StatusOK)
}
