// SPDX-License-Identifier: Apache-2.0

package models

// Role is the coarse access level assigned to every user account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Permission is a fine-grained capability checked by the authorization gate.
type Permission string

const (
	PermUsersList        Permission = "users:list"
	PermUsersCreate      Permission = "users:create"
	PermUsersUpdate      Permission = "users:update"
	PermUsersDelete      Permission = "users:delete"
	PermCredentialsRead  Permission = "credentials:read"
	PermCredentialsWrite Permission = "credentials:write"
	PermConnectionsTest  Permission = "connections:test"
	PermSchemaManage     Permission = "schema:manage"
	PermQueryRead        Permission = "query:read"
	PermQueryWrite       Permission = "query:write"
)

// RolePermissions maps each role to its full capability set. The three sets
// are listed explicitly rather than derived by inheritance, even though
// admin covers editor and editor covers viewer.
var RolePermissions = map[Role][]Permission{
	RoleViewer: {
		PermQueryRead,
		PermCredentialsRead,
	},
	RoleEditor: {
		PermQueryRead,
		PermQueryWrite,
		PermCredentialsRead,
		PermCredentialsWrite,
		PermConnectionsTest,
	},
	RoleAdmin: {
		PermQueryRead,
		PermQueryWrite,
		PermCredentialsRead,
		PermCredentialsWrite,
		PermConnectionsTest,
		PermSchemaManage,
		PermUsersList,
		PermUsersCreate,
		PermUsersUpdate,
		PermUsersDelete,
	},
}

// Has reports whether role r grants permission p.
func (r Role) Has(p Permission) bool {
	for _, granted := range RolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}
