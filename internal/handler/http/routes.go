// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/askdb/askdb/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// any valid session
	router.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/api/auth/me", h.me)
	})

	// user directory (admin)
	router.Group(func(r chi.Router) {
		r.With(h.authorize(models.PermUsersCreate)).Post("/api/auth/register", h.register)
		r.With(h.authorize(models.PermUsersList)).Get("/api/users", h.listUsers)
		r.With(h.authorize(models.PermUsersCreate)).Post("/api/users", h.createUser)
		r.With(h.authorize(models.PermUsersUpdate)).Put("/api/users/{id}", h.updateUser)
		r.With(h.authorize(models.PermUsersDelete)).Delete("/api/users/{id}", h.deleteUser)
		r.With(h.authorize(models.PermUsersUpdate)).Post("/api/users/{id}/revoke", h.revokeUserSessions)
	})

	// credential vault (owner-scoped)
	router.Group(func(r chi.Router) {
		r.With(h.authorize(models.PermCredentialsRead)).Get("/api/credentials", h.listCredentials)
		r.With(h.authorize(models.PermCredentialsRead)).Get("/api/credentials/{id}", h.getCredential)
		r.With(h.authorize(models.PermCredentialsWrite)).Post("/api/credentials", h.createCredential)
		r.With(h.authorize(models.PermCredentialsWrite)).Put("/api/credentials/{id}", h.updateCredential)
		r.With(h.authorize(models.PermCredentialsWrite)).Delete("/api/credentials/{id}", h.deleteCredential)
		r.With(h.authorize(models.PermConnectionsTest)).Post("/api/credentials/{id}/test", h.testCredential)
	})

	// query pipeline
	router.Group(func(r chi.Router) {
		r.With(h.authorize(models.PermQueryRead)).Post("/api/query", h.runQuery)
		r.With(h.authorize(models.PermSchemaManage)).Post("/api/schema", h.schemaAction)
		r.With(h.authorize(models.PermUsersList)).Get("/api/pool/stats", h.poolStats)
	})

	return router
}
