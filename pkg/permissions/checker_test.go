package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		role string
		area string
		want bool
	}{
		{RoleAdmin, AreaAdmin, true},
		{RoleAdmin, AreaHR, true},
		{RoleAdmin, AreaCashier, true},
		{RoleHRManager, AreaHR, true},
		{RoleHRManager, AreaAdmin, false},
		{RoleHRManager, AreaInventory, false},
		{RoleInventoryManager, AreaInventory, true},
		{RoleInventoryManager, AreaCashier, false},
		{RoleCashier, AreaCashier, true},
		{RoleCashier, AreaHR, false},
		{"Intern", AreaCashier, false},
		{RoleHRManager, "hr.payroll", true},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.area, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.role, tt.area))
		})
	}
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(nil, ""))
	assert.True(t, HasPermission([]string{"*"}, "inventory.orders"))
	assert.True(t, HasPermission([]string{"inventory.*"}, "inventory.orders"))
	assert.True(t, HasPermission([]string{"hr.payroll"}, "hr.payroll"))
	assert.False(t, HasPermission([]string{"hr.payroll"}, "hr.leave"))
	assert.False(t, HasPermission([]string{"inventory.*"}, "inventoryx.orders"))
}

func TestProtectedRoles(t *testing.T) {
	assert.True(t, IsProtectedRole(RoleAdmin))
	assert.True(t, IsProtectedRole(RoleHRManager))
	assert.False(t, IsProtectedRole(RoleCashier))
	assert.ElementsMatch(t, []string{RoleAdmin, RoleHRManager}, ProtectedRoles())
	assert.True(t, IsValidRole(RoleInventoryManager))
	assert.False(t, IsValidRole("Owner"))
}
