package department

import (
	"context"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
)

type DepartmentService interface {
	Create(ctx context.Context, actor user.Actor, req CreateDepartmentRequest) (DepartmentResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
	Get(ctx context.Context, id string) (DepartmentResponse, error)
	List(ctx context.Context) ([]DepartmentResponse, error)
	ListUsers(ctx context.Context, id string) ([]user.UserResponse, error)
	Stats(ctx context.Context, id string) (StatsResponse, error)
}
