package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		role                                                   Role
		approve, viewAll, manageUsers, deleteUsers, manageDept bool
		deleteDept                                             bool
	}{
		{RoleAdmin, true, true, true, true, true, true},
		{RoleHR, true, true, true, false, true, false},
		{RoleEmployee, false, false, false, false, false, false},
		{Role("guest"), false, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.approve, CanApprove(tt.role))
			assert.Equal(t, tt.viewAll, CanViewAll(tt.role))
			assert.Equal(t, tt.manageUsers, CanManageUsers(tt.role))
			assert.Equal(t, tt.deleteUsers, CanDeleteUsers(tt.role))
			assert.Equal(t, tt.manageDept, CanManageDepartments(tt.role))
			assert.Equal(t, tt.deleteDept, CanDeleteDepartments(tt.role))
		})
	}
}

func TestEveryRoleCanFileOwnLeave(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleHR, RoleEmployee} {
		assert.True(t, HasPermission(role, PermissionLeaveCreate), role)
		assert.True(t, HasPermission(role, PermissionViewOwnProfile), role)
	}
}

func TestIsOwnerOrPrivileged(t *testing.T) {
	assert.True(t, IsOwnerOrPrivileged("u-1", RoleEmployee, "u-1"))
	assert.False(t, IsOwnerOrPrivileged("u-1", RoleEmployee, "u-2"))
	assert.True(t, IsOwnerOrPrivileged("hr-1", RoleHR, "u-2"))
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleHR.IsValid())
	assert.False(t, Role("root").IsValid())
}
