package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/pagination"
	"golang.org/x/sync/errgroup"
)

type LeaveServiceImpl struct {
	tx         database.Transactor
	requests   leave.LeaveRequestRepository
	comments   leave.CommentRepository
	balances   leave.BalanceRepository
	identities leave.IdentityStore
	now        func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	requests leave.LeaveRequestRepository,
	comments leave.CommentRepository,
	balances leave.BalanceRepository,
	identities leave.IdentityStore,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:         tx,
		requests:   requests,
		comments:   comments,
		balances:   balances,
		identities: identities,
		now:        time.Now,
	}
}

func (s *LeaveServiceImpl) today() time.Time {
	return leave.DateOf(s.now())
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if !user.IsOwnerOrPrivileged(actor.ID, actor.Role, request.EmployeeID) {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}

	if err := s.loadComments(ctx, &request); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(request), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	// Employees only ever see their own requests
	if !user.CanViewAll(actor.Role) {
		if filter.EmployeeID != nil && *filter.EmployeeID != actor.ID {
			return leave.ListLeaveRequestResponse{}, leave.ErrForbidden
		}
		filter.EmployeeID = &actor.ID
	}

	requests, totalCount, err := s.requests.List(ctx, filter.ToListFilter())
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    totalCount,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    pagination.TotalPages(totalCount, filter.Limit),
		Showing:       pagination.Showing(filter.Page, filter.Limit, len(responses), totalCount),
		LeaveRequests: responses,
	}, nil
}

// Stats implements leave.LeaveService.
func (s *LeaveServiceImpl) Stats(ctx context.Context, actor user.Actor, req leave.StatsRequest) (leave.StatsResponse, error) {
	if req.Year == 0 {
		req.Year = s.now().Year()
	}
	if err := req.Validate(); err != nil {
		return leave.StatsResponse{}, err
	}

	filter := leave.StatsFilter{
		EmployeeID: req.EmployeeID,
		From:       time.Date(req.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(req.Year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if !user.CanViewAll(actor.Role) {
		filter.EmployeeID = &actor.ID
	}

	var (
		byStatus []leave.StatusStat
		byType   []leave.TypeStat
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		byStatus, err = s.requests.CountByStatus(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count leave requests by status: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		byType, err = s.requests.CountByType(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count leave requests by type: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return leave.StatsResponse{}, err
	}

	return buildStats(req.Year, byStatus, byType), nil
}

// buildStats fills in zero rows so every status and leave type is always present.
func buildStats(year int, byStatus []leave.StatusStat, byType []leave.TypeStat) leave.StatsResponse {
	statusIndex := make(map[leave.LeaveRequestStatus]leave.StatusStat, len(byStatus))
	for _, st := range byStatus {
		statusIndex[st.Status] = st
	}
	typeIndex := make(map[leave.LeaveType]leave.TypeStat, len(byType))
	for _, tt := range byType {
		typeIndex[tt.LeaveType] = tt
	}

	resp := leave.StatsResponse{Year: year}

	for _, status := range leave.Statuses {
		st, ok := statusIndex[status]
		if !ok {
			st = leave.StatusStat{Status: status}
		}
		resp.ByStatus = append(resp.ByStatus, st)

		resp.Summary.TotalLeaves += st.Count
		resp.Summary.TotalDays += st.TotalDays
		switch status {
		case leave.LeaveRequestStatusPending:
			resp.Summary.PendingLeaves = st.Count
		case leave.LeaveRequestStatusApproved:
			resp.Summary.ApprovedLeaves = st.Count
		case leave.LeaveRequestStatusRejected:
			resp.Summary.RejectedLeaves = st.Count
		case leave.LeaveRequestStatusCancelled:
			resp.Summary.CancelledLeaves = st.Count
		}
	}

	for _, t := range leave.LeaveTypes {
		tt, ok := typeIndex[t]
		if !ok {
			tt = leave.TypeStat{LeaveType: t}
		}
		resp.ByType = append(resp.ByType, tt)
	}

	return resp
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, actor user.Actor, userID string) (leave.BalanceResponse, error) {
	if !user.IsOwnerOrPrivileged(actor.ID, actor.Role, userID) {
		return leave.BalanceResponse{}, leave.ErrForbidden
	}

	if _, err := s.identities.GetByID(ctx, userID); err != nil {
		return leave.BalanceResponse{}, err
	}

	entries, err := s.balances.ListEntries(ctx, userID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to list balance entries: %w", err)
	}

	resp := leave.BalanceResponse{
		UserID:   userID,
		Balances: leave.SumEntries(entries).ToMap(),
		Entries:  make([]leave.BalanceEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, leave.BalanceEntryResponse{
			ID:             e.ID,
			LeaveType:      string(e.LeaveType),
			Delta:          e.Delta,
			Kind:           string(e.Kind),
			LeaveRequestID: e.LeaveRequestID,
			Note:           e.Note,
			CreatedBy:      e.CreatedBy,
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		})
	}

	return resp, nil
}

func (s *LeaveServiceImpl) loadComments(ctx context.Context, request *leave.LeaveRequest) error {
	comments, err := s.comments.ListByLeaveRequest(ctx, request.ID)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	request.Comments = comments
	return nil
}
