package leave

import "time"

type LeaveType string

const (
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeVacation  LeaveType = "vacation"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
	LeaveTypeEmergency LeaveType = "emergency"
)

// LeaveTypes lists every leave type in display order.
var LeaveTypes = []LeaveType{
	LeaveTypeSick,
	LeaveTypeVacation,
	LeaveTypePersonal,
	LeaveTypeMaternity,
	LeaveTypePaternity,
	LeaveTypeEmergency,
}

func (t LeaveType) IsValid() bool {
	for _, lt := range LeaveTypes {
		if t == lt {
			return true
		}
	}
	return false
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// ActiveStatuses block overlapping requests.
var ActiveStatuses = []LeaveRequestStatus{LeaveRequestStatusPending, LeaveRequestStatusApproved}

var Statuses = []LeaveRequestStatus{
	LeaveRequestStatusPending,
	LeaveRequestStatusApproved,
	LeaveRequestStatusRejected,
	LeaveRequestStatusCancelled,
}

func (s LeaveRequestStatus) IsValid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s LeaveRequestStatus) IsActive() bool {
	return s == LeaveRequestStatusPending || s == LeaveRequestStatusApproved
}

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType

	StartDate time.Time
	EndDate   time.Time
	TotalDays int

	Reason string

	Status          LeaveRequestStatus
	AppliedDate     time.Time
	ApprovedBy      *string
	ApprovedDate    *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
	ApproverName *string
	Comments     []Comment
}

// Overlaps reports whether r covers any day of [start, end], both inclusive.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

type Comment struct {
	ID             string
	LeaveRequestID string
	AuthorID       string
	Text           string
	CreatedAt      time.Time

	AuthorName *string
}

type EntryKind string

const (
	EntryKindAllocation   EntryKind = "allocation"
	EntryKindApproval     EntryKind = "approval"
	EntryKindCancellation EntryKind = "cancellation"
	EntryKindAdjustment   EntryKind = "adjustment"
)

// BalanceEntry is one immutable row of the leave balance ledger. A user's
// balance for a leave type is the sum of the deltas of its entries.
type BalanceEntry struct {
	ID             string
	UserID         string
	LeaveType      LeaveType
	Delta          int
	Kind           EntryKind
	LeaveRequestID *string
	Note           string
	CreatedBy      *string
	CreatedAt      time.Time
}

// Balances holds the remaining days per leave type. Missing types are zero.
type Balances map[LeaveType]int

func (b Balances) Of(t LeaveType) int {
	return b[t]
}

// ToMap returns every leave type, including the zero ones.
func (b Balances) ToMap() map[string]int {
	m := make(map[string]int, len(LeaveTypes))
	for _, t := range LeaveTypes {
		m[string(t)] = b[t]
	}
	return m
}

// CountDays returns the inclusive number of calendar days between start and end.
func CountDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
