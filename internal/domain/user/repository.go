package user

import (
	"context"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// GetByIDForUpdate locks the user row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]User, error)
	Update(ctx context.Context, req UpdateUserRequest) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetActive(ctx context.Context, userID string, active bool) error
	CountActive(ctx context.Context) (active int64, inactive int64, err error)
	CountByRole(ctx context.Context) ([]RoleCount, error)
	CountByDepartment(ctx context.Context) ([]DepartmentCount, error)
}
