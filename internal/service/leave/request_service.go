package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/metrics"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Submit implements leave.LeaveService. Balance is checked but not reserved;
// the debit happens on approval.
func (s *LeaveServiceImpl) Submit(ctx context.Context, actor user.Actor, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	startDate, endDate := req.Dates()
	if startDate.Before(s.today()) {
		return leave.LeaveRequestResponse{}, validator.Single("start_date", "start_date cannot be in the past")
	}

	leaveType := leave.LeaveType(req.LeaveType)
	totalDays := leave.CountDays(startDate, endDate)

	var created leave.LeaveRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Serializes submissions of the same employee so the overlap check holds
		employee, err := s.identities.GetByIDForUpdate(ctx, actor.ID)
		if err != nil {
			return err
		}
		if !employee.IsActive {
			return user.ErrUserInactive
		}

		balance, err := s.balances.Balance(ctx, actor.ID, leaveType)
		if err != nil {
			return fmt.Errorf("failed to get leave balance: %w", err)
		}
		if balance < totalDays {
			return leave.ErrInsufficientBalance
		}

		overlapping, err := s.requests.FindOverlapping(ctx, actor.ID, startDate, endDate, leave.ActiveStatuses)
		if err != nil {
			return fmt.Errorf("failed to check overlapping requests: %w", err)
		}
		if len(overlapping) > 0 {
			return leave.ErrOverlappingRequest
		}

		now := s.now()
		created, err = s.requests.Create(ctx, leave.LeaveRequest{
			ID:          uuid.NewString(),
			EmployeeID:  actor.ID,
			LeaveType:   leaveType,
			StartDate:   startDate,
			EndDate:     endDate,
			TotalDays:   totalDays,
			Reason:      strings.TrimSpace(req.Reason),
			Status:      leave.LeaveRequestStatusPending,
			AppliedDate: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		created.EmployeeName = &employee.Name
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.RecordLeaveTransition("submit", string(leaveType))
	slog.Info("leave request submitted", "leave_request_id", created.ID, "employee_id", actor.ID, "leave_type", leaveType, "total_days", totalDays)

	return leave.NewLeaveRequestResponse(created), nil
}

// Approve implements leave.LeaveService. The status change and the ledger
// debit commit together.
func (s *LeaveServiceImpl) Approve(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	if !user.CanApprove(actor.Role) {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}

	var approved leave.LeaveRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrNotPending
		}

		if _, err := s.identities.GetByIDForUpdate(ctx, request.EmployeeID); err != nil {
			return err
		}

		// Pending requests hold no balance, so it is re-checked here
		balance, err := s.balances.Balance(ctx, request.EmployeeID, request.LeaveType)
		if err != nil {
			return fmt.Errorf("failed to get leave balance: %w", err)
		}
		if balance < request.TotalDays {
			return leave.ErrInsufficientBalance
		}

		now := s.now()
		request.Status = leave.LeaveRequestStatusApproved
		request.ApprovedBy = &actor.ID
		request.ApprovedDate = &now
		request.UpdatedAt = now

		if err := s.requests.UpdateStatus(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request status: %w", err)
		}
		if err := s.balances.Append(ctx, leave.ApprovalEntry(request, actor.ID, now)); err != nil {
			return fmt.Errorf("failed to record balance entry: %w", err)
		}

		approved = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.RecordLeaveTransition("approve", string(approved.LeaveType))
	metrics.RecordLedgerDays(string(leave.EntryKindApproval), approved.TotalDays)
	slog.Info("leave request approved", "leave_request_id", approved.ID, "employee_id", approved.EmployeeID, "approved_by", actor.ID, "total_days", approved.TotalDays)

	return s.respond(ctx, approved)
}

// Reject implements leave.LeaveService. Rejection never touches the ledger.
func (s *LeaveServiceImpl) Reject(ctx context.Context, actor user.Actor, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !user.CanApprove(actor.Role) {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}

	var rejected leave.LeaveRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrNotPending
		}

		now := s.now()
		reason := strings.TrimSpace(req.RejectionReason)
		request.Status = leave.LeaveRequestStatusRejected
		request.ApprovedBy = &actor.ID
		request.ApprovedDate = &now
		request.RejectionReason = &reason
		request.UpdatedAt = now

		if err := s.requests.UpdateStatus(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request status: %w", err)
		}

		rejected = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.RecordLeaveTransition("reject", string(rejected.LeaveType))
	slog.Info("leave request rejected", "leave_request_id", rejected.ID, "employee_id", rejected.EmployeeID, "rejected_by", actor.ID)

	return s.respond(ctx, rejected)
}

// Cancel implements leave.LeaveService. Cancelling an approved request
// credits its days back to the ledger in the same transaction.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	var (
		cancelled leave.LeaveRequest
		restored  bool
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if !user.IsOwnerOrPrivileged(actor.ID, actor.Role, request.EmployeeID) {
			return leave.ErrForbidden
		}

		switch request.Status {
		case leave.LeaveRequestStatusCancelled:
			return leave.ErrAlreadyCancelled
		case leave.LeaveRequestStatusRejected:
			return leave.ErrNotPending
		case leave.LeaveRequestStatusApproved:
			if request.StartDate.Before(s.today()) {
				return leave.ErrPastApprovedLeave
			}
		}

		prior := request.Status
		now := s.now()
		request.Status = leave.LeaveRequestStatusCancelled
		request.UpdatedAt = now

		if err := s.requests.UpdateStatus(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request status: %w", err)
		}

		if prior == leave.LeaveRequestStatusApproved {
			if err := s.balances.Append(ctx, leave.CancellationEntry(request, actor.ID, now)); err != nil {
				return fmt.Errorf("failed to record balance entry: %w", err)
			}
			restored = true
		}

		cancelled = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.RecordLeaveTransition("cancel", string(cancelled.LeaveType))
	if restored {
		metrics.RecordLedgerDays(string(leave.EntryKindCancellation), cancelled.TotalDays)
	}
	slog.Info("leave request cancelled", "leave_request_id", cancelled.ID, "employee_id", cancelled.EmployeeID, "cancelled_by", actor.ID, "balance_restored", restored)

	return s.respond(ctx, cancelled)
}

// AddComment implements leave.LeaveService.
func (s *LeaveServiceImpl) AddComment(ctx context.Context, actor user.Actor, req leave.AddCommentRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.requests.GetByID(ctx, req.LeaveRequestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if !user.IsOwnerOrPrivileged(actor.ID, actor.Role, request.EmployeeID) {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}

	if _, err := s.comments.Create(ctx, leave.Comment{
		ID:             uuid.NewString(),
		LeaveRequestID: request.ID,
		AuthorID:       actor.ID,
		Text:           strings.TrimSpace(req.Text),
		CreatedAt:      s.now(),
	}); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.respond(ctx, request)
}

func (s *LeaveServiceImpl) respond(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := s.loadComments(ctx, &request); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}
