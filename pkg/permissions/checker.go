// Package permissions maps employee roles to the areas of the back office
// they may use.
//
// Permission Format:
//   - "*" - Full access (all areas)
//   - "area.*" - All actions in an area (e.g., "inventory.*")
//   - "area.action" - Specific action (e.g., "hr.payroll")
package permissions

import (
	"strings"
)

// Employee roles
const (
	RoleAdmin            = "Admin"
	RoleHRManager        = "HR Manager"
	RoleInventoryManager = "Inventory Manager"
	RoleCashier          = "Cashier"
)

// Areas guarded by the router
const (
	AreaAdmin     = "admin"
	AreaHR        = "hr"
	AreaInventory = "inventory"
	AreaCashier   = "cashier"
)

var rolePermissions = map[string][]string{
	RoleAdmin:            {"*"},
	RoleHRManager:        {"hr.*"},
	RoleInventoryManager: {"inventory.*"},
	RoleCashier:          {"cashier.*"},
}

// IsValidRole reports whether role is one of the four employee roles
func IsValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// IsProtectedRole reports whether employees with this role are outside the
// reach of the HR surface and the inactive-employee purge.
func IsProtectedRole(role string) bool {
	return role == RoleAdmin || role == RoleHRManager
}

// ProtectedRoles returns the roles IsProtectedRole accepts
func ProtectedRoles() []string {
	return []string{RoleAdmin, RoleHRManager}
}

// ForRole returns the permissions granted to role
func ForRole(role string) []string {
	return rolePermissions[role]
}

// CanAccess reports whether role may use the given area or action
func CanAccess(role, required string) bool {
	perms := ForRole(role)
	if !strings.Contains(required, ".") {
		required += ".*"
	}
	return HasPermission(perms, required)
}

// HasPermission checks if the granted permissions include the required permission.
// Supports wildcard matching:
//   - "*" matches everything
//   - "inventory.*" matches "inventory.orders", "inventory.*", etc.
//   - Exact match for specific permissions
func HasPermission(granted []string, required string) bool {
	if required == "" {
		return true
	}

	for _, p := range granted {
		if p == "*" || p == required {
			return true
		}
		if strings.HasSuffix(p, ".*") {
			prefix := strings.TrimSuffix(p, ".*")
			if strings.HasPrefix(required, prefix+".") {
				return true
			}
		}
	}
	return false
}
