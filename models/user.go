// SPDX-License-Identifier: Apache-2.0

package models

import (
	"strings"
	"time"
)

// User is the canonical account record owned by the user directory.
// PasswordHash and PasswordSalt never leave the directory: every outward
// projection goes through [User.Public].
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`

	// PasswordHash is the hex-encoded PBKDF2 digest of the login password.
	PasswordHash string `json:"password_hash"`

	// PasswordSalt is the hex-encoded per-user random salt. A fresh salt is
	// generated on every password change.
	PasswordSalt string `json:"password_salt"`

	// TokenVersion is a monotonic counter embedded in every issued session
	// token. Incrementing it (password change, explicit revoke) invalidates
	// all previously issued tokens for this user without a revocation list.
	TokenVersion int64 `json:"token_version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUser is the outward-facing projection of a User. It carries no
// password material.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the projection of u that is safe to return to clients.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NormalizeEmail lowercases and trims an email address. Email uniqueness and
// lookups are case-insensitive throughout the directory.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserInput carries the mutable account fields accepted by create/update
// operations. A non-empty Password triggers re-hashing with a fresh salt and
// a token-version bump on update.
type UserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}
