package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context) ([]Department, error)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	Update(ctx context.Context, req UpdateDepartmentRequest) error
	CountActiveUsers(ctx context.Context, id string) (int64, error)
	Stats(ctx context.Context, id string) (Stats, error)
}
