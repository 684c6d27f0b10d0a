package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/metrics"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/pagination"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type UserServiceImpl struct {
	tx          database.Transactor
	users       user.UserRepository
	departments department.DepartmentRepository
	balances    leave.BalanceRepository
	requests    leave.LeaveRequestRepository
	now         func() time.Time
}

func NewUserService(
	tx database.Transactor,
	users user.UserRepository,
	departments department.DepartmentRepository,
	balances leave.BalanceRepository,
	requests leave.LeaveRequestRepository,
) user.UserService {
	return &UserServiceImpl{
		tx:          tx,
		users:       users,
		departments: departments,
		balances:    balances,
		requests:    requests,
		now:         time.Now,
	}
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor user.Actor, filter user.UserFilter) (user.ListUserResponse, error) {
	if !user.CanViewAll(actor.Role) {
		return user.ListUserResponse{}, user.ErrInsufficientPermissions
	}

	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	users, totalCount, err := s.users.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.NewUserResponse(u, nil))
	}

	return user.ListUserResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(totalCount, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, len(resp), totalCount),
		Users:      resp,
	}, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (user.UserResponse, error) {
	if !user.IsOwnerOrPrivileged(actor.ID, actor.Role, id) {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	return s.withBalances(ctx, u)
}

// Update implements user.UserService. Non-privileged actors may only edit their
// own name, phone and position.
func (s *UserServiceImpl) Update(ctx context.Context, actor user.Actor, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if !user.IsOwnerOrPrivileged(actor.ID, actor.Role, req.ID) {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}

	if req.HasPrivilegedFields() && !user.CanManageUsers(actor.Role) {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}

	target, err := s.users.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Role != nil {
		newRole := user.Role(*req.Role)
		// granting or revoking admin is reserved for admins
		if (newRole == user.RoleAdmin || target.Role == user.RoleAdmin) && newRole != target.Role && actor.Role != user.RoleAdmin {
			return user.UserResponse{}, user.ErrAdminPrivilegeRequired
		}
	}

	if req.IsActive != nil && !*req.IsActive && actor.ID == req.ID {
		return user.UserResponse{}, user.ErrCannotDeactivateSelf
	}

	if req.DepartmentID != nil && *req.DepartmentID != "" {
		if _, err := s.departments.GetByID(ctx, *req.DepartmentID); err != nil {
			return user.UserResponse{}, err
		}
	}

	if err := s.users.Update(ctx, req); err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user updated", "user_id", req.ID, "by", actor.ID)

	return s.Get(ctx, actor, req.ID)
}

// UpdateBalance sets the remaining days per leave type by appending adjustment
// entries. The user row is locked so concurrent approvals see the new totals.
func (s *UserServiceImpl) UpdateBalance(ctx context.Context, actor user.Actor, req user.UpdateBalanceRequest) (user.UserResponse, error) {
	if !user.CanManageUsers(actor.Role) {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}

	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	target := make(map[leave.LeaveType]int, len(req.Balances))
	var errs validator.ValidationErrors
	for name, days := range req.Balances {
		t := leave.LeaveType(name)
		if !t.IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_balance." + name,
				Message: "invalid leave type",
			})
			continue
		}
		target[t] = days
	}
	if len(errs) > 0 {
		return user.UserResponse{}, errs
	}

	createdBy := actor.ID
	now := s.now()

	var updated user.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		updated = u

		current, err := s.balances.Balances(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to load balances: %w", err)
		}

		entries := leave.AdjustmentEntries(u.ID, current, target, req.Note, &createdBy, now)
		if len(entries) == 0 {
			return nil
		}
		if err := s.balances.Append(ctx, entries...); err != nil {
			return err
		}

		for _, e := range entries {
			metrics.RecordLedgerDays(string(e.Kind), e.Delta)
		}
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("leave balance adjusted", "user_id", req.ID, "by", actor.ID)

	return s.withBalances(ctx, updated)
}

// Deactivate soft-deletes a user. Users with pending or approved leave that has
// not yet ended are kept active.
func (s *UserServiceImpl) Deactivate(ctx context.Context, actor user.Actor, id string) error {
	if !user.CanDeleteUsers(actor.Role) {
		return user.ErrAdminPrivilegeRequired
	}

	if actor.ID == id {
		return user.ErrCannotDeactivateSelf
	}

	today := leave.DateOf(s.now())

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}

		active, err := s.requests.HasActiveEndingOnOrAfter(ctx, id, today)
		if err != nil {
			return fmt.Errorf("failed to check active leaves: %w", err)
		}
		if active {
			return user.ErrUserHasActiveLeaves
		}

		return s.users.SetActive(ctx, id, false)
	})
	if err != nil {
		return err
	}

	slog.Info("user deactivated", "user_id", id, "by", actor.ID)
	return nil
}

// Overview implements user.UserService.
func (s *UserServiceImpl) Overview(ctx context.Context, actor user.Actor) (user.OverviewResponse, error) {
	if !user.CanViewAll(actor.Role) {
		return user.OverviewResponse{}, user.ErrInsufficientPermissions
	}

	var (
		resp             user.OverviewResponse
		active, inactive int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, inactive, err = s.users.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.ByRole, err = s.users.CountByRole(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.ByDepartment, err = s.users.CountByDepartment(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return user.OverviewResponse{}, fmt.Errorf("failed to build user overview: %w", err)
	}

	resp.ActiveUsers = active
	resp.InactiveUsers = inactive
	resp.TotalUsers = active + inactive
	return resp, nil
}

func (s *UserServiceImpl) withBalances(ctx context.Context, u user.User) (user.UserResponse, error) {
	balances, err := s.balances.Balances(ctx, u.ID)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to load balances: %w", err)
	}
	return user.NewUserResponse(u, balances.ToMap()), nil
}
