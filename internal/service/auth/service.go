package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/auth"
	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx            database.Transactor
	users         user.UserRepository
	departments   department.DepartmentRepository
	balances      leave.BalanceRepository
	refreshTokens auth.RefreshTokenRepository
	jwt           jwt.Service
	allocation    map[string]int
	now           func() time.Time
}

func NewAuthService(
	tx database.Transactor,
	users user.UserRepository,
	departments department.DepartmentRepository,
	balances leave.BalanceRepository,
	refreshTokens auth.RefreshTokenRepository,
	jwtService jwt.Service,
	allocation map[string]int,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:            tx,
		users:         users,
		departments:   departments,
		balances:      balances,
		refreshTokens: refreshTokens,
		jwt:           jwtService,
		allocation:    allocation,
		now:           time.Now,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService. New accounts are always employees and
// receive the configured allocation in the same transaction as the user row.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := a.users.ExistsByEmail(ctx, email)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return auth.AuthResponse{}, user.ErrUserEmailExists
	}

	if req.DepartmentID != nil {
		if _, err := a.departments.GetByID(ctx, *req.DepartmentID); err != nil {
			return auth.AuthResponse{}, err
		}
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	var created user.User
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err = a.users.Create(ctx, user.User{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: hashed,
			Role:         user.RoleEmployee,
			DepartmentID: req.DepartmentID,
			Position:     strings.TrimSpace(req.Position),
			Phone:        strings.TrimSpace(req.Phone),
			IsActive:     true,
			JoinDate:     leave.DateOf(now),
		})
		if err != nil {
			return err
		}

		entries := leave.AllocationEntries(created.ID, a.allocation, nil, now)
		if len(entries) == 0 {
			return nil
		}
		return a.balances.Append(ctx, entries...)
	})
	if err != nil {
		return auth.AuthResponse{}, err
	}

	slog.Info("user registered", "user_id", created.ID, "email", created.Email)

	return a.issue(ctx, created)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AuthResponse{}, err
	}

	userData, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AuthResponse{}, auth.ErrInvalidCredentials
		}
		return auth.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.AuthResponse{}, auth.ErrInvalidCredentials
	}

	if !userData.IsActive {
		return auth.AuthResponse{}, user.ErrUserInactive
	}

	return a.issue(ctx, userData)
}

// Refresh rotates the pair. Revoking the presented token and storing its
// successor happen in one transaction, and only the caller whose revoke hit a
// live row gets new tokens.
func (a *AuthServiceImpl) Refresh(ctx context.Context, req auth.RefreshTokenRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userID, _, err := a.jwt.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenResponse{}, auth.ErrTokenExpired
		}
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	var tokens auth.TokenResponse
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		revoked, err := a.refreshTokens.Revoke(ctx, req.RefreshToken)
		if err != nil {
			return err
		}
		if !revoked {
			return auth.ErrRefreshTokenRevoked
		}

		userData, err := a.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return auth.ErrInvalidToken
			}
			return err
		}
		if !userData.IsActive {
			return user.ErrUserInactive
		}

		tokens, err = a.tokens(ctx, userData)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokens, nil
}

// Logout revokes the refresh token. Logging out with an already revoked token succeeds.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.RefreshTokenRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userID, _, err := a.jwt.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.ErrInvalidToken
	}

	revoked, err := a.refreshTokens.Revoke(ctx, req.RefreshToken)
	if err != nil {
		return err
	}
	if revoked {
		slog.Info("user logged out", "user_id", userID)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, actor user.Actor) (user.UserResponse, error) {
	userData, err := a.users.GetByID(ctx, actor.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return a.withBalances(ctx, userData)
}

// UpdateProfile implements auth.AuthService.
func (a *AuthServiceImpl) UpdateProfile(ctx context.Context, actor user.Actor, req auth.UpdateProfileRequest) (user.UserResponse, error) {
	update := req.ToUpdateUserRequest(actor.ID)
	if err := update.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := a.users.Update(ctx, update); err != nil {
		return user.UserResponse{}, err
	}

	return a.Me(ctx, actor)
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, actor user.Actor, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userData, err := a.users.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrInvalidCredentials
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.users.UpdatePassword(ctx, actor.ID, hashed); err != nil {
		return err
	}

	slog.Info("password changed", "user_id", actor.ID)
	return nil
}

func (a *AuthServiceImpl) issue(ctx context.Context, userData user.User) (auth.AuthResponse, error) {
	tokens, err := a.tokens(ctx, userData)
	if err != nil {
		return auth.AuthResponse{}, err
	}

	profile, err := a.withBalances(ctx, userData)
	if err != nil {
		return auth.AuthResponse{}, err
	}

	return auth.AuthResponse{TokenResponse: tokens, User: profile}, nil
}

// tokens signs a new pair and records the refresh token so it can be revoked later.
func (a *AuthServiceImpl) tokens(ctx context.Context, userData user.User) (auth.TokenResponse, error) {
	accessToken, accessExp, err := a.jwt.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := a.jwt.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := a.refreshTokens.Create(ctx, userData.ID, refreshToken, time.Unix(refreshExp, 0)); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExp,
	}, nil
}

func (a *AuthServiceImpl) withBalances(ctx context.Context, userData user.User) (user.UserResponse, error) {
	balances, err := a.balances.Balances(ctx, userData.ID)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to load balances: %w", err)
	}
	return user.NewUserResponse(userData, balances.ToMap()), nil
}
