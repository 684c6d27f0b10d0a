package department

import "errors"

var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentNameExists = errors.New("department name already exists")
	ErrDepartmentHasUsers   = errors.New("department still has active users")
	ErrHeadNotFound         = errors.New("department head not found")
)
