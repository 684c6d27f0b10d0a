package leave

import (
	"context"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
)

// ListFilter is the repository query for leave requests. From/To select
// requests whose date range overlaps the window.
type ListFilter struct {
	EmployeeID *string
	Status     *LeaveRequestStatus
	LeaveType  *LeaveType
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// StatsFilter selects requests with From <= applied_date < To, optionally for one employee.
type StatsFilter struct {
	EmployeeID *string
	From       time.Time
	To         time.Time
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, statuses []LeaveRequestStatus) ([]LeaveRequest, error)
	UpdateStatus(ctx context.Context, request LeaveRequest) error
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
	HasActiveEndingOnOrAfter(ctx context.Context, employeeID string, date time.Time) (bool, error)
	CountByStatus(ctx context.Context, filter StatsFilter) ([]StatusStat, error)
	CountByType(ctx context.Context, filter StatsFilter) ([]TypeStat, error)
}

// CommentRepository - interface for leave_comments table
type CommentRepository interface {
	Create(ctx context.Context, comment Comment) (Comment, error)
	ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]Comment, error)
}

// BalanceRepository - interface for the append-only leave_balance_entries ledger
type BalanceRepository interface {
	Append(ctx context.Context, entries ...BalanceEntry) error
	Balance(ctx context.Context, userID string, leaveType LeaveType) (int, error)
	Balances(ctx context.Context, userID string) (Balances, error)
	ListEntries(ctx context.Context, userID string) ([]BalanceEntry, error)
}

// IdentityStore is the part of the user store the lifecycle depends on.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (user.User, error)
}
