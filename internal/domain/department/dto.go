package department

import (
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	HeadID      *string `json:"head_id,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if validator.ExceedsMaxLength(r.Name, 100) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if validator.ExceedsMaxLength(r.Description, 500) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must not exceed 500 characters",
		})
	}

	if r.HeadID != nil && !validator.IsValidUUID(*r.HeadID) {
		errs = append(errs, validator.ValidationError{
			Field:   "head_id",
			Message: "head_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateDepartmentRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	HeadID      *string `json:"head_id,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateDepartmentRequest) Validate() error {
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

	if r.Description != nil && validator.ExceedsMaxLength(*r.Description, 500) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must not exceed 500 characters",
		})
	}

	if r.HeadID != nil && *r.HeadID != "" && !validator.IsValidUUID(*r.HeadID) {
		errs = append(errs, validator.ValidationError{
			Field:   "head_id",
			Message: "head_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DepartmentResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	HeadID        *string `json:"head_id,omitempty"`
	HeadName      *string `json:"head_name,omitempty"`
	IsActive      bool    `json:"is_active"`
	EmployeeCount int64   `json:"employee_count"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		HeadID:        d.HeadID,
		HeadName:      d.HeadName,
		IsActive:      d.IsActive,
		EmployeeCount: d.EmployeeCount,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.Format(time.RFC3339),
	}
}

type LeaveStats struct {
	TotalLeaves    int64 `json:"total_leaves"`
	PendingLeaves  int64 `json:"pending_leaves"`
	ApprovedLeaves int64 `json:"approved_leaves"`
}

type StatsResponse struct {
	Department string     `json:"department"`
	UserCount  int64      `json:"user_count"`
	LeaveStats LeaveStats `json:"leave_stats"`
}

func NewStatsResponse(s Stats) StatsResponse {
	return StatsResponse{
		Department: s.Name,
		UserCount:  s.UserCount,
		LeaveStats: LeaveStats{
			TotalLeaves:    s.TotalLeaves,
			PendingLeaves:  s.PendingLeaves,
			ApprovedLeaves: s.ApprovedLeaves,
		},
	}
}
