package leave

import (
	"time"

	"github.com/google/uuid"
)

// AllocationEntries builds the opening ledger entries for a new user.
// Leave types allocated zero days get no entry.
func AllocationEntries(userID string, allocation map[string]int, createdBy *string, at time.Time) []BalanceEntry {
	var entries []BalanceEntry
	for _, t := range LeaveTypes {
		days := allocation[string(t)]
		if days <= 0 {
			continue
		}
		entries = append(entries, BalanceEntry{
			ID:        uuid.NewString(),
			UserID:    userID,
			LeaveType: t,
			Delta:     days,
			Kind:      EntryKindAllocation,
			Note:      "initial allocation",
			CreatedBy: createdBy,
			CreatedAt: at,
		})
	}
	return entries
}

// AdjustmentEntries returns the entries that move current to target.
// Types whose balance already matches are skipped.
func AdjustmentEntries(userID string, current Balances, target map[LeaveType]int, note string, createdBy *string, at time.Time) []BalanceEntry {
	if note == "" {
		note = "manual adjustment"
	}
	var entries []BalanceEntry
	for _, t := range LeaveTypes {
		want, ok := target[t]
		if !ok {
			continue
		}
		delta := want - current.Of(t)
		if delta == 0 {
			continue
		}
		entries = append(entries, BalanceEntry{
			ID:        uuid.NewString(),
			UserID:    userID,
			LeaveType: t,
			Delta:     delta,
			Kind:      EntryKindAdjustment,
			Note:      note,
			CreatedBy: createdBy,
			CreatedAt: at,
		})
	}
	return entries
}

// ApprovalEntry debits the request's days from the employee's balance.
func ApprovalEntry(r LeaveRequest, approverID string, at time.Time) BalanceEntry {
	id := r.ID
	return BalanceEntry{
		ID:             uuid.NewString(),
		UserID:         r.EmployeeID,
		LeaveType:      r.LeaveType,
		Delta:          -r.TotalDays,
		Kind:           EntryKindApproval,
		LeaveRequestID: &id,
		Note:           "leave approved",
		CreatedBy:      &approverID,
		CreatedAt:      at,
	}
}

// CancellationEntry credits back the days debited when r was approved.
func CancellationEntry(r LeaveRequest, actorID string, at time.Time) BalanceEntry {
	id := r.ID
	return BalanceEntry{
		ID:             uuid.NewString(),
		UserID:         r.EmployeeID,
		LeaveType:      r.LeaveType,
		Delta:          r.TotalDays,
		Kind:           EntryKindCancellation,
		LeaveRequestID: &id,
		Note:           "approved leave cancelled",
		CreatedBy:      &actorID,
		CreatedAt:      at,
	}
}

// SumEntries folds ledger entries into balances.
func SumEntries(entries []BalanceEntry) Balances {
	b := make(Balances)
	for _, e := range entries {
		b[e.LeaveType] += e.Delta
	}
	return b
}
