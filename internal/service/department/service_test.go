package department

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDepartmentRepo struct {
	departments map[string]department.Department
	activeUsers map[string]int64
	stats       map[string]department.Stats
	listCalls   int
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{
		departments: make(map[string]department.Department),
		activeUsers: make(map[string]int64),
		stats:       make(map[string]department.Stats),
	}
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, d department.Department) (department.Department, error) {
	d.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d.UpdatedAt = d.CreatedAt
	f.departments[d.ID] = d
	return d, nil
}

func (f *fakeDepartmentRepo) GetByID(ctx context.Context, id string) (department.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	d.EmployeeCount = f.activeUsers[id]
	return d, nil
}

func (f *fakeDepartmentRepo) List(ctx context.Context) ([]department.Department, error) {
	f.listCalls++
	var out []department.Department
	for _, d := range f.departments {
		if d.IsActive {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDepartmentRepo) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	for id, d := range f.departments {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if strings.EqualFold(d.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDepartmentRepo) Update(ctx context.Context, req department.UpdateDepartmentRequest) error {
	d, ok := f.departments[req.ID]
	if !ok {
		return department.ErrDepartmentNotFound
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.HeadID != nil {
		if *req.HeadID == "" {
			d.HeadID = nil
		} else {
			head := *req.HeadID
			d.HeadID = &head
		}
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	f.departments[req.ID] = d
	return nil
}

func (f *fakeDepartmentRepo) CountActiveUsers(ctx context.Context, id string) (int64, error) {
	return f.activeUsers[id], nil
}

func (f *fakeDepartmentRepo) Stats(ctx context.Context, id string) (department.Stats, error) {
	d, ok := f.departments[id]
	if !ok {
		return department.Stats{}, department.ErrDepartmentNotFound
	}
	s := f.stats[id]
	s.Name = d.Name
	return s, nil
}

// fakeUserRepo only serves the lookups the department service performs.
type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ListByDepartment(ctx context.Context, departmentID string) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID {
			out = append(out, u)
		}
	}
	return out, nil
}

var (
	admin    = user.Actor{ID: uuid.NewString(), Role: user.RoleAdmin}
	hr       = user.Actor{ID: uuid.NewString(), Role: user.RoleHR}
	employee = user.Actor{ID: uuid.NewString(), Role: user.RoleEmployee}
)

func setupServiceTest(t *testing.T) (*DepartmentServiceImpl, *fakeDepartmentRepo, *fakeUserRepo, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	repo := newFakeDepartmentRepo()
	users := &fakeUserRepo{users: make(map[string]user.User)}
	svc := NewDepartmentService(repo, users, client).(*DepartmentServiceImpl)
	return svc, repo, users, mock
}

func seedDepartment(repo *fakeDepartmentRepo, name string) department.Department {
	d, _ := repo.Create(context.Background(), department.Department{
		ID:       uuid.NewString(),
		Name:     name,
		IsActive: true,
	})
	return d
}

func TestDepartmentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, repo, _, mock := setupServiceTest(t)
		cached := []department.DepartmentResponse{{ID: "d-1", Name: "Engineering"}, {ID: "d-2", Name: "Finance"}}
		data, _ := json.Marshal(cached)
		mock.ExpectGet(listCacheKey).SetVal(string(data))

		resp, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Engineering", resp[0].Name)
		assert.Equal(t, 0, repo.listCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss loads from repository and stores result", func(t *testing.T) {
		svc, repo, _, mock := setupServiceTest(t)
		d := seedDepartment(repo, "Marketing")

		expected := []department.DepartmentResponse{department.NewDepartmentResponse(d)}
		data, _ := json.Marshal(expected)
		mock.ExpectGet(listCacheKey).RedisNil()
		mock.ExpectSet(listCacheKey, data, listCacheTTL).SetVal("OK")

		resp, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.Equal(t, 1, repo.listCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis failure falls back to repository", func(t *testing.T) {
		svc, repo, _, mock := setupServiceTest(t)
		seedDepartment(repo, "Finance")
		mock.ExpectGet(listCacheKey).SetErr(errors.New("connection refused"))

		resp, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, 1, repo.listCalls)
	})

	t.Run("works without a cache", func(t *testing.T) {
		repo := newFakeDepartmentRepo()
		seedDepartment(repo, "Finance")
		svc := NewDepartmentService(repo, &fakeUserRepo{}, nil)

		resp, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, resp, 1)
	})
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and invalidates cache", func(t *testing.T) {
		svc, _, _, mock := setupServiceTest(t)
		mock.ExpectDel(listCacheKey).SetVal(1)

		resp, err := svc.Create(ctx, hr, department.CreateDepartmentRequest{Name: "  Engineering ", Description: "Builds things"})
		require.NoError(t, err)
		assert.Equal(t, "Engineering", resp.Name)
		assert.True(t, resp.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("employee is forbidden", func(t *testing.T) {
		svc, _, _, _ := setupServiceTest(t)
		_, err := svc.Create(ctx, employee, department.CreateDepartmentRequest{Name: "Engineering"})
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})

	t.Run("duplicate name is rejected case-insensitively", func(t *testing.T) {
		svc, repo, _, _ := setupServiceTest(t)
		seedDepartment(repo, "Engineering")

		_, err := svc.Create(ctx, admin, department.CreateDepartmentRequest{Name: "engineering"})
		assert.ErrorIs(t, err, department.ErrDepartmentNameExists)
	})

	t.Run("unknown head is rejected", func(t *testing.T) {
		svc, _, _, _ := setupServiceTest(t)
		head := uuid.NewString()

		_, err := svc.Create(ctx, admin, department.CreateDepartmentRequest{Name: "Finance", HeadID: &head})
		assert.ErrorIs(t, err, department.ErrHeadNotFound)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		svc, _, _, _ := setupServiceTest(t)
		_, err := svc.Create(ctx, admin, department.CreateDepartmentRequest{})
		assert.Error(t, err)
	})
}

func TestDepartmentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns head and renames", func(t *testing.T) {
		svc, repo, users, mock := setupServiceTest(t)
		d := seedDepartment(repo, "Engineering")
		headID := uuid.NewString()
		users.users[headID] = user.User{ID: headID, Name: "Dana", IsActive: true}
		mock.ExpectDel(listCacheKey).SetVal(1)

		name := "Platform Engineering"
		resp, err := svc.Update(ctx, admin, department.UpdateDepartmentRequest{ID: d.ID, Name: &name, HeadID: &headID})
		require.NoError(t, err)
		assert.Equal(t, name, resp.Name)
		require.NotNil(t, resp.HeadID)
		assert.Equal(t, headID, *resp.HeadID)
	})

	t.Run("keeping its own name is not a conflict", func(t *testing.T) {
		svc, repo, _, mock := setupServiceTest(t)
		d := seedDepartment(repo, "Finance")
		mock.ExpectDel(listCacheKey).SetVal(1)

		name := "Finance"
		_, err := svc.Update(ctx, hr, department.UpdateDepartmentRequest{ID: d.ID, Name: &name})
		assert.NoError(t, err)
	})

	t.Run("inactive head is rejected", func(t *testing.T) {
		svc, repo, users, _ := setupServiceTest(t)
		d := seedDepartment(repo, "Finance")
		headID := uuid.NewString()
		users.users[headID] = user.User{ID: headID, IsActive: false}

		_, err := svc.Update(ctx, admin, department.UpdateDepartmentRequest{ID: d.ID, HeadID: &headID})
		assert.ErrorIs(t, err, department.ErrHeadNotFound)
	})

	t.Run("missing department", func(t *testing.T) {
		svc, _, _, _ := setupServiceTest(t)
		name := "Ops"
		_, err := svc.Update(ctx, admin, department.UpdateDepartmentRequest{ID: uuid.NewString(), Name: &name})
		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("admin deactivates empty department", func(t *testing.T) {
		svc, repo, _, mock := setupServiceTest(t)
		d := seedDepartment(repo, "Finance")
		mock.ExpectDel(listCacheKey).SetVal(1)

		require.NoError(t, svc.Delete(ctx, admin, d.ID))
		assert.False(t, repo.departments[d.ID].IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hr cannot delete", func(t *testing.T) {
		svc, repo, _, _ := setupServiceTest(t)
		d := seedDepartment(repo, "Finance")
		assert.ErrorIs(t, svc.Delete(ctx, hr, d.ID), user.ErrAdminPrivilegeRequired)
	})

	t.Run("department with active users is kept", func(t *testing.T) {
		svc, repo, _, _ := setupServiceTest(t)
		d := seedDepartment(repo, "Finance")
		repo.activeUsers[d.ID] = 3

		assert.ErrorIs(t, svc.Delete(ctx, admin, d.ID), department.ErrDepartmentHasUsers)
		assert.True(t, repo.departments[d.ID].IsActive)
	})
}

func TestDepartmentService_ListUsers(t *testing.T) {
	ctx := context.Background()
	svc, repo, users, _ := setupServiceTest(t)
	d := seedDepartment(repo, "Engineering")
	other := seedDepartment(repo, "Finance")

	id := uuid.NewString()
	users.users[id] = user.User{ID: id, Name: "Ari", Role: user.RoleEmployee, DepartmentID: &d.ID, IsActive: true}
	otherID := uuid.NewString()
	users.users[otherID] = user.User{ID: otherID, Name: "Bo", Role: user.RoleEmployee, DepartmentID: &other.ID, IsActive: true}

	resp, err := svc.ListUsers(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Ari", resp[0].Name)

	_, err = svc.ListUsers(ctx, uuid.NewString())
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}

func TestDepartmentService_Stats(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := setupServiceTest(t)
	d := seedDepartment(repo, "Engineering")
	repo.stats[d.ID] = department.Stats{UserCount: 3, TotalLeaves: 7, PendingLeaves: 2, ApprovedLeaves: 4}

	resp, err := svc.Stats(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, department.StatsResponse{
		Department: "Engineering",
		UserCount:  3,
		LeaveStats: department.LeaveStats{TotalLeaves: 7, PendingLeaves: 2, ApprovedLeaves: 4},
	}, resp)

	empty := seedDepartment(repo, "Finance")
	resp, err = svc.Stats(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", resp.Department)
	assert.Zero(t, resp.LeaveStats.TotalLeaves)

	_, err = svc.Stats(ctx, uuid.NewString())
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}
