package user

import "context"

type UserService interface {
	List(ctx context.Context, actor Actor, filter UserFilter) (ListUserResponse, error)
	Get(ctx context.Context, actor Actor, id string) (UserResponse, error)
	Update(ctx context.Context, actor Actor, req UpdateUserRequest) (UserResponse, error)
	UpdateBalance(ctx context.Context, actor Actor, req UpdateBalanceRequest) (UserResponse, error)
	Deactivate(ctx context.Context, actor Actor, id string) error
	Overview(ctx context.Context, actor Actor) (OverviewResponse, error)
}
