package leave

import (
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/pkg/validator"
)

const (
	MinReasonLength  = 10
	MaxReasonLength  = 500
	MaxCommentLength = 1000
)

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`

	startDate time.Time
	endDate   time.Time
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	} else if !LeaveType(r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "invalid leave_type",
		})
	}

	startOK, endOK := false, false
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if r.startDate, startOK = validator.IsValidDate(r.StartDate); !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if r.endDate, endOK = validator.IsValidDate(r.EndDate); !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && r.endDate.Before(r.startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if !validator.HasMinLength(r.Reason, MinReasonLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must be at least 10 characters",
		})
	} else if validator.ExceedsMaxLength(r.Reason, MaxReasonLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Dates returns the parsed start and end dates. Only meaningful after Validate succeeds.
func (r *SubmitLeaveRequest) Dates() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

type RejectLeaveRequest struct {
	ID              string `json:"-"`
	RejectionReason string `json:"rejection_reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.RejectionReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason is required",
		})
	} else if validator.ExceedsMaxLength(r.RejectionReason, MaxReasonLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AddCommentRequest struct {
	LeaveRequestID string `json:"-"`
	Text           string `json:"comment"`
}

func (r *AddCommentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveRequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.Text) {
		errs = append(errs, validator.ValidationError{
			Field:   "comment",
			Message: "comment is required",
		})
	} else if validator.ExceedsMaxLength(r.Text, MaxCommentLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "comment",
			Message: "comment must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LeaveRequestFilter is the query accepted by the list endpoints.
type LeaveRequestFilter struct {
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Status     *string `json:"status,omitempty"`
	LeaveType  *string `json:"leave_type,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Year       *int    `json:"year,omitempty"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Page, f.Limit = validator.NormalizePage(f.Page, f.Limit)

	if f.Status != nil && !LeaveRequestStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "invalid status",
		})
	}

	if f.LeaveType != nil && !LeaveType(*f.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "invalid leave_type",
		})
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToListFilter converts a validated filter into the repository query.
func (f LeaveRequestFilter) ToListFilter() ListFilter {
	lf := ListFilter{Page: f.Page, Limit: f.Limit, EmployeeID: f.EmployeeID}
	if f.Status != nil {
		s := LeaveRequestStatus(*f.Status)
		lf.Status = &s
	}
	if f.LeaveType != nil {
		t := LeaveType(*f.LeaveType)
		lf.LeaveType = &t
	}
	if f.StartDate != nil {
		d, _ := validator.IsValidDate(*f.StartDate)
		lf.From = &d
	}
	if f.EndDate != nil {
		d, _ := validator.IsValidDate(*f.EndDate)
		lf.To = &d
	}
	if f.Year != nil {
		from := time.Date(*f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(*f.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
		lf.From, lf.To = &from, &to
	}
	return lf
}

type StatsRequest struct {
	Year       int     `json:"year"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (r *StatsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CommentResponse struct {
	ID         string  `json:"id"`
	AuthorID   string  `json:"author_id"`
	AuthorName *string `json:"author_name,omitempty"`
	Text       string  `json:"comment"`
	CreatedAt  string  `json:"created_at"`
}

type LeaveRequestResponse struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	EmployeeName    *string           `json:"employee_name,omitempty"`
	LeaveType       string            `json:"leave_type"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	TotalDays       int               `json:"total_days"`
	Reason          string            `json:"reason"`
	Status          string            `json:"status"`
	AppliedDate     string            `json:"applied_date"`
	ApprovedBy      *string           `json:"approved_by,omitempty"`
	ApproverName    *string           `json:"approver_name,omitempty"`
	ApprovedDate    *string           `json:"approved_date,omitempty"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	Comments        []CommentResponse `json:"comments"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		LeaveType:       string(r.LeaveType),
		StartDate:       r.StartDate.Format(validator.DateLayout),
		EndDate:         r.EndDate.Format(validator.DateLayout),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          string(r.Status),
		AppliedDate:     r.AppliedDate.Format(time.RFC3339),
		ApprovedBy:      r.ApprovedBy,
		ApproverName:    r.ApproverName,
		RejectionReason: r.RejectionReason,
		Comments:        make([]CommentResponse, 0, len(r.Comments)),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ApprovedDate != nil {
		approved := r.ApprovedDate.Format(time.RFC3339)
		resp.ApprovedDate = &approved
	}
	for _, c := range r.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:         c.ID,
			AuthorID:   c.AuthorID,
			AuthorName: c.AuthorName,
			Text:       c.Text,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Showing       string                 `json:"showing"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

type StatusStat struct {
	Status    LeaveRequestStatus `json:"status"`
	Count     int64              `json:"count"`
	TotalDays int64              `json:"total_days"`
}

type TypeStat struct {
	LeaveType LeaveType `json:"leave_type"`
	Count     int64     `json:"count"`
	TotalDays int64     `json:"total_days"`
}

type StatsSummary struct {
	TotalLeaves     int64 `json:"total_leaves"`
	PendingLeaves   int64 `json:"pending_leaves"`
	ApprovedLeaves  int64 `json:"approved_leaves"`
	RejectedLeaves  int64 `json:"rejected_leaves"`
	CancelledLeaves int64 `json:"cancelled_leaves"`
	TotalDays       int64 `json:"total_days"`
}

type StatsResponse struct {
	Year     int          `json:"year"`
	Summary  StatsSummary `json:"summary"`
	ByStatus []StatusStat `json:"by_status"`
	ByType   []TypeStat   `json:"by_type"`
}

type BalanceEntryResponse struct {
	ID             string  `json:"id"`
	LeaveType      string  `json:"leave_type"`
	Delta          int     `json:"delta"`
	Kind           string  `json:"kind"`
	LeaveRequestID *string `json:"leave_request_id,omitempty"`
	Note           string  `json:"note"`
	CreatedBy      *string `json:"created_by,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type BalanceResponse struct {
	UserID   string                 `json:"user_id"`
	Balances map[string]int         `json:"leave_balance"`
	Entries  []BalanceEntryResponse `json:"entries"`
}
