package department

import "time"

type Department struct {
	ID          string
	Name        string
	Description string
	HeadID      *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	HeadName      *string
	EmployeeCount int64
}

// Stats aggregates the active members of a department and every leave request they filed.
type Stats struct {
	Name           string
	UserCount      int64
	TotalLeaves    int64
	PendingLeaves  int64
	ApprovedLeaves int64
}
