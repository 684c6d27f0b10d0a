package user

import (
	"strings"

	"github.com/ezleave/ezleave-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Role           string         `json:"role"`
	DepartmentID   *string        `json:"department_id,omitempty"`
	DepartmentName *string        `json:"department_name,omitempty"`
	Position       string         `json:"position"`
	Phone          string         `json:"phone"`
	IsActive       bool           `json:"is_active"`
	JoinDate       string         `json:"join_date"`
	LeaveBalance   map[string]int `json:"leave_balance,omitempty"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

func NewUserResponse(u User, balance map[string]int) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		DepartmentID:   u.DepartmentID,
		DepartmentName: u.DepartmentName,
		Position:       u.Position,
		Phone:          u.Phone,
		IsActive:       u.IsActive,
		JoinDate:       u.JoinDate.Format("2006-01-02"),
		LeaveBalance:   balance,
		CreatedAt:      u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      u.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// UpdateUserRequest represents request to update user. Role, DepartmentID and
// IsActive are only honoured for privileged actors.
type UpdateUserRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Position     *string `json:"position,omitempty"`
	Role         *string `json:"role,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		} else if validator.ExceedsMaxLength(*r.Name, 100) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.Phone != nil && validator.ExceedsMaxLength(*r.Phone, 30) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must not exceed 30 characters",
		})
	}

	if r.Position != nil && validator.ExceedsMaxLength(*r.Position, 100) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position must not exceed 100 characters",
		})
	}

	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}

	if r.DepartmentID != nil && *r.DepartmentID != "" && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// HasPrivilegedFields reports whether the request touches fields only admin/hr may change.
func (r *UpdateUserRequest) HasPrivilegedFields() bool {
	return r.Role != nil || r.DepartmentID != nil || r.IsActive != nil
}

// UpdateBalanceRequest sets the target remaining days per leave type.
type UpdateBalanceRequest struct {
	ID       string         `json:"-"`
	Balances map[string]int `json:"leave_balance"`
	Note     string         `json:"note"`
}

func (r *UpdateBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if len(r.Balances) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_balance",
			Message: "leave_balance is required",
		})
	}

	for leaveType, days := range r.Balances {
		if days < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_balance." + leaveType,
				Message: "balance must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UserFilter struct {
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
	DepartmentID *string `json:"department_id,omitempty"`
	Role         *string `json:"role,omitempty"`
	Search       *string `json:"search,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Page, f.Limit = validator.NormalizePage(f.Page, f.Limit)

	if f.Role != nil && !Role(*f.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}

	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id must be a valid UUID",
		})
	}

	if f.Search != nil {
		trimmed := strings.TrimSpace(*f.Search)
		f.Search = &trimmed
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Users      []UserResponse `json:"users"`
}

type RoleCount struct {
	Role  Role  `json:"role"`
	Count int64 `json:"count"`
}

type DepartmentCount struct {
	DepartmentID   *string `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Count          int64   `json:"count"`
}

type OverviewResponse struct {
	TotalUsers    int64             `json:"total_users"`
	ActiveUsers   int64             `json:"active_users"`
	InactiveUsers int64             `json:"inactive_users"`
	ByRole        []RoleCount       `json:"by_role"`
	ByDepartment  []DepartmentCount `json:"by_department"`
}
