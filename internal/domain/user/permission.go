package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Leave Management
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// User Management
	PermissionUserViewAll Permission = "user.view_all"
	PermissionUserManage  Permission = "user.manage"
	PermissionUserDelete  Permission = "user.delete"

	// Department Management
	PermissionDepartmentManage Permission = "department.manage"
	PermissionDepartmentDelete Permission = "department.delete"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionUserViewAll,
		PermissionUserManage,
		PermissionUserDelete,
		PermissionDepartmentManage,
		PermissionDepartmentDelete,
	},
	RoleHR: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionUserViewAll,
		PermissionUserManage,
		PermissionDepartmentManage,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// CanApprove reports whether role may approve or reject leave requests.
func CanApprove(role Role) bool {
	return HasPermission(role, PermissionLeaveApprove)
}

// CanViewAll reports whether role may see records owned by other users.
func CanViewAll(role Role) bool {
	return HasPermission(role, PermissionLeaveViewAll)
}

// IsOwnerOrPrivileged reports whether the actor owns the record or may act on anyone's.
func IsOwnerOrPrivileged(actorID string, role Role, ownerID string) bool {
	return actorID == ownerID || CanViewAll(role)
}

func CanManageUsers(role Role) bool {
	return HasPermission(role, PermissionUserManage)
}

func CanDeleteUsers(role Role) bool {
	return HasPermission(role, PermissionUserDelete)
}

func CanManageDepartments(role Role) bool {
	return HasPermission(role, PermissionDepartmentManage)
}

func CanDeleteDepartments(role Role) bool {
	return HasPermission(role, PermissionDepartmentDelete)
}
