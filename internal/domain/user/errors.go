package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUserInactive            = errors.New("user account is deactivated")
	ErrUserHasActiveLeaves     = errors.New("user has pending or approved leave requests")
	ErrCannotDeactivateSelf    = errors.New("cannot deactivate your own account")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
