// SPDX-License-Identifier: Apache-2.0

// Package http implements the HTTP transport layer of the askdb server.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, authorization, logging, and tracing
// concerns are all handled at this layer before requests are forwarded
// to the service layer.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/utils"
	"github.com/askdb/askdb/models"
)

// sessionCookieName is the cookie carrying the signed session token.
const sessionCookieName = "askdb_session"

// authenticate is an HTTP middleware that resolves the session cookie into
// the live user record via the authorization gate and stores it in the
// request context under [utils.UserCtxKey].
//
// A missing cookie is passed to the gate as an empty token: in development
// mode with auto-bootstrap enabled the gate may still synthesize the
// bootstrap admin; otherwise the request is rejected with 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, err := h.services.Gate.Authenticate(ctx, sessionTokenFromRequest(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx = context.WithValue(ctx, utils.UserCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authorize returns a middleware enforcing perm on top of authentication.
func (h *Handler) authorize(perm models.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, err := h.services.Gate.Authorize(ctx, sessionTokenFromRequest(r), perm)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx = context.WithValue(ctx, utils.UserCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionTokenFromRequest extracts the raw session token from the cookie,
// returning "" when the cookie is absent.
func sessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return ""
	}
	if err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("session cookie read failed")
		return ""
	}
	return cookie.Value
}
