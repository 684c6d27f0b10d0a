package http

import (
	"context"

	"github.com/ezleave/ezleave-backend-go/internal/domain/auth"
	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

type mockLeaveService struct{ mock.Mock }

func (m *mockLeaveService) Submit(ctx context.Context, actor user.Actor, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) Approve(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, actor, requestID)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) Reject(ctx context.Context, actor user.Actor, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) Cancel(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, actor, requestID)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) AddComment(ctx context.Context, actor user.Actor, req leave.AddCommentRequest) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) Get(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, actor, requestID)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) List(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).(leave.ListLeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) Stats(ctx context.Context, actor user.Actor, req leave.StatsRequest) (leave.StatsResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(leave.StatsResponse), args.Error(1)
}

func (m *mockLeaveService) GetBalance(ctx context.Context, actor user.Actor, userID string) (leave.BalanceResponse, error) {
	args := m.Called(ctx, actor, userID)
	return args.Get(0).(leave.BalanceResponse), args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.AuthResponse), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.AuthResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.AuthResponse), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, req auth.RefreshTokenRequest) (auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.TokenResponse), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, req auth.RefreshTokenRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, actor user.Actor) (user.UserResponse, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, actor user.Actor, req auth.UpdateProfileRequest) (user.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, actor user.Actor, req auth.ChangePasswordRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) List(ctx context.Context, actor user.Actor, filter user.UserFilter) (user.ListUserResponse, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).(user.ListUserResponse), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, actor user.Actor, id string) (user.UserResponse, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, actor user.Actor, req user.UpdateUserRequest) (user.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *mockUserService) UpdateBalance(ctx context.Context, actor user.Actor, req user.UpdateBalanceRequest) (user.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *mockUserService) Deactivate(ctx context.Context, actor user.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockUserService) Overview(ctx context.Context, actor user.Actor) (user.OverviewResponse, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(user.OverviewResponse), args.Error(1)
}

type mockDepartmentService struct{ mock.Mock }

func (m *mockDepartmentService) Create(ctx context.Context, actor user.Actor, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(department.DepartmentResponse), args.Error(1)
}

func (m *mockDepartmentService) Update(ctx context.Context, actor user.Actor, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(department.DepartmentResponse), args.Error(1)
}

func (m *mockDepartmentService) Delete(ctx context.Context, actor user.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockDepartmentService) Get(ctx context.Context, id string) (department.DepartmentResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(department.DepartmentResponse), args.Error(1)
}

func (m *mockDepartmentService) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]department.DepartmentResponse), args.Error(1)
}

func (m *mockDepartmentService) ListUsers(ctx context.Context, id string) ([]user.UserResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]user.UserResponse), args.Error(1)
}

func (m *mockDepartmentService) Stats(ctx context.Context, id string) (department.StatsResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(department.StatsResponse), args.Error(1)
}
