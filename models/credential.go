// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// DatabaseType identifies the downstream engine dialect a credential
// targets.
type DatabaseType string

const (
	DatabasePostgreSQL DatabaseType = "postgresql"
	DatabaseMySQL      DatabaseType = "mysql"
	DatabaseSnowflake  DatabaseType = "snowflake"
	DatabaseSQLite     DatabaseType = "sqlite"
)

// Valid reports whether t is one of the supported database types.
func (t DatabaseType) Valid() bool {
	switch t {
	case DatabasePostgreSQL, DatabaseMySQL, DatabaseSnowflake, DatabaseSQLite:
		return true
	}
	return false
}

// DatabaseCredential is an owner-scoped stored connection record. The
// plaintext password never persists; only EncryptedPassword (an AES-GCM blob)
// is stored, and it is stripped from every public projection.
type DatabaseCredential struct {
	ID          string       `json:"id"`
	OwnerUserID string       `json:"owner_user_id"`
	Name        string       `json:"name"`
	Type        DatabaseType `json:"type"`
	Host        string       `json:"host"`
	Port        int          `json:"port"`
	Database    string       `json:"database"`
	Username    string       `json:"username"`

	// EncryptedPassword is the base64 blob produced by the credential cipher.
	EncryptedPassword string `json:"encrypted_password"`

	SSL    bool   `json:"ssl,omitempty"`
	Schema string `json:"schema,omitempty"`

	// Snowflake-specific connection attributes.
	Warehouse string `json:"warehouse,omitempty"`
	Role      string `json:"role,omitempty"`
	Account   string `json:"account,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicCredential is the outward-facing projection of a credential. It
// carries neither the plaintext password nor the ciphertext blob.
type PublicCredential struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      DatabaseType `json:"type"`
	Host      string       `json:"host"`
	Port      int          `json:"port"`
	Database  string       `json:"database"`
	Username  string       `json:"username"`
	SSL       bool         `json:"ssl,omitempty"`
	Schema    string       `json:"schema,omitempty"`
	Warehouse string       `json:"warehouse,omitempty"`
	Role      string       `json:"role,omitempty"`
	Account   string       `json:"account,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Public returns the projection of c that is safe to return to its owner.
func (c DatabaseCredential) Public() PublicCredential {
	return PublicCredential{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		Host:      c.Host,
		Port:      c.Port,
		Database:  c.Database,
		Username:  c.Username,
		SSL:       c.SSL,
		Schema:    c.Schema,
		Warehouse: c.Warehouse,
		Role:      c.Role,
		Account:   c.Account,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CredentialInput carries the fields accepted by credential create/update
// operations. Password is plaintext in transit only: the vault encrypts it
// before anything is persisted. On update an empty Password means "keep the
// stored ciphertext".
type CredentialInput struct {
	Name      string       `json:"name"`
	Type      DatabaseType `json:"type"`
	Host      string       `json:"host"`
	Port      int          `json:"port"`
	Database  string       `json:"database"`
	Username  string       `json:"username"`
	Password  string       `json:"password"`
	SSL       bool         `json:"ssl,omitempty"`
	Schema    string       `json:"schema,omitempty"`
	Warehouse string       `json:"warehouse,omitempty"`
	Role      string       `json:"role,omitempty"`
	Account   string       `json:"account,omitempty"`
}
