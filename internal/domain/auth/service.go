package auth

import (
	"context"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Refresh(ctx context.Context, req RefreshTokenRequest) (TokenResponse, error)
	Logout(ctx context.Context, req RefreshTokenRequest) error
	Me(ctx context.Context, actor user.Actor) (user.UserResponse, error)
	UpdateProfile(ctx context.Context, actor user.Actor, req UpdateProfileRequest) (user.UserResponse, error)
	ChangePassword(ctx context.Context, actor user.Actor, req ChangePasswordRequest) error
}
