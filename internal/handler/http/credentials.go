// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/utils"
	"github.com/askdb/askdb/models"
)

func (h *Handler) listCredentials(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errMissingContextUser())
		return
	}

	creds, err := h.services.Credentials.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, creds, http.StatusOK)
}

func (h *Handler) getCredential(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errMissingContextUser())
		return
	}

	cred, err := h.services.Credentials.GetByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, cred, http.StatusOK)
}

func (h *Handler) createCredential(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errMissingContextUser())
		return
	}

	var input models.CredentialInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		writeError(w, r, errInvalidJSON())
		return
	}

	created, err := h.services.Credentials.Create(r.Context(), input, user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateCredential(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errMissingContextUser())
		return
	}

	var input models.CredentialInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		writeError(w, r, errInvalidJSON())
		return
	}

	updated, err := h.services.Credentials.Update(r.Context(), chi.URLParam(r, "id"), input, user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, updated, http.StatusOK)
}

// deleteCredential is idempotent: deleting an absent record reports
// {"deleted": false} with 200, never an error.
func (h *Handler) deleteCredential(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errMissingContextUser())
		return
	}

	deleted, err := h.services.Credentials.Delete(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.DeleteResponse{Deleted: deleted}, http.StatusOK)
}

// testCredential dispatches a connectivity probe for the credential through
// the resilient dispatcher.
func (h *Handler) testCredential(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errMissingContextUser())
		return
	}

	result, err := h.services.Query.TestConnection(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}
