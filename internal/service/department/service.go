package department

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	listCacheKey = "departments:all"
	listCacheTTL = 30 * time.Minute
)

type DepartmentServiceImpl struct {
	departments department.DepartmentRepository
	users       user.UserRepository
	cache       *redis.Client
}

// NewDepartmentService builds the service. cache may be nil, in which case
// every List goes to the database.
func NewDepartmentService(departments department.DepartmentRepository, users user.UserRepository, cache *redis.Client) department.DepartmentService {
	return &DepartmentServiceImpl{
		departments: departments,
		users:       users,
		cache:       cache,
	}
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, actor user.Actor, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if !user.CanManageDepartments(actor.Role) {
		return department.DepartmentResponse{}, user.ErrInsufficientPermissions
	}

	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.departments.ExistsByName(ctx, name, nil)
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to check department name: %w", err)
	}
	if exists {
		return department.DepartmentResponse{}, department.ErrDepartmentNameExists
	}

	if req.HeadID != nil {
		if err := s.ensureHead(ctx, *req.HeadID); err != nil {
			return department.DepartmentResponse{}, err
		}
	}

	created, err := s.departments.Create(ctx, department.Department{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		HeadID:      req.HeadID,
		IsActive:    true,
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	s.invalidate(ctx)

	slog.Info("department created", "department_id", created.ID, "name", created.Name, "by", actor.ID)

	return s.Get(ctx, created.ID)
}

// Update implements department.DepartmentService.
func (s *DepartmentServiceImpl) Update(ctx context.Context, actor user.Actor, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if !user.CanManageDepartments(actor.Role) {
		return department.DepartmentResponse{}, user.ErrInsufficientPermissions
	}

	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	if _, err := s.departments.GetByID(ctx, req.ID); err != nil {
		return department.DepartmentResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name

		exists, err := s.departments.ExistsByName(ctx, name, &req.ID)
		if err != nil {
			return department.DepartmentResponse{}, fmt.Errorf("failed to check department name: %w", err)
		}
		if exists {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
	}

	if req.HeadID != nil && *req.HeadID != "" {
		if err := s.ensureHead(ctx, *req.HeadID); err != nil {
			return department.DepartmentResponse{}, err
		}
	}

	if err := s.departments.Update(ctx, req); err != nil {
		return department.DepartmentResponse{}, err
	}

	s.invalidate(ctx)

	return s.Get(ctx, req.ID)
}

// Delete deactivates the department. Departments with active users cannot be removed.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if !user.CanDeleteDepartments(actor.Role) {
		return user.ErrAdminPrivilegeRequired
	}

	if _, err := s.departments.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.departments.CountActiveUsers(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count department users: %w", err)
	}
	if count > 0 {
		return department.ErrDepartmentHasUsers
	}

	inactive := false
	if err := s.departments.Update(ctx, department.UpdateDepartmentRequest{ID: id, IsActive: &inactive}); err != nil {
		return err
	}

	s.invalidate(ctx)

	slog.Info("department deactivated", "department_id", id, "by", actor.ID)
	return nil
}

// Get implements department.DepartmentService.
func (s *DepartmentServiceImpl) Get(ctx context.Context, id string) (department.DepartmentResponse, error) {
	d, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(d), nil
}

// List returns active departments, served from Redis when a cached copy exists.
func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, listCacheKey).Bytes()
		if err == nil {
			var resp []department.DepartmentResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			slog.Warn("department cache read failed", "error", err)
		}
	}

	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	resp := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, department.NewDepartmentResponse(d))
	}

	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, listCacheKey, data, listCacheTTL).Err(); err != nil {
				slog.Warn("department cache write failed", "error", err)
			}
		}
	}

	return resp, nil
}

// ListUsers implements department.DepartmentService.
func (s *DepartmentServiceImpl) ListUsers(ctx context.Context, id string) ([]user.UserResponse, error) {
	if _, err := s.departments.GetByID(ctx, id); err != nil {
		return nil, err
	}

	users, err := s.users.ListByDepartment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list department users: %w", err)
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.NewUserResponse(u, nil))
	}
	return resp, nil
}

// Stats implements department.DepartmentService.
func (s *DepartmentServiceImpl) Stats(ctx context.Context, id string) (department.StatsResponse, error) {
	stats, err := s.departments.Stats(ctx, id)
	if err != nil {
		return department.StatsResponse{}, err
	}
	return department.NewStatsResponse(stats), nil
}

func (s *DepartmentServiceImpl) ensureHead(ctx context.Context, headID string) error {
	head, err := s.users.GetByID(ctx, headID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return department.ErrHeadNotFound
		}
		return err
	}
	if !head.IsActive {
		return department.ErrHeadNotFound
	}
	return nil
}

func (s *DepartmentServiceImpl) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, listCacheKey).Err(); err != nil {
		slog.Warn("department cache invalidation failed", "error", err)
	}
}
