package auth

import (
	"strings"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/validator"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	DepartmentID *string `json:"department_id,omitempty"`
	Position     string  `json:"position"`
	Phone        string  `json:"phone"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	// Name
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if validator.ExceedsMaxLength(r.Name, 100) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	errs = append(errs, validateEmail(r.Email)...)
	errs = append(errs, validatePassword("password", r.Password)...)

	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id must be a valid UUID",
		})
	}

	if validator.ExceedsMaxLength(r.Position, 100) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position must not exceed 100 characters",
		})
	}

	if validator.ExceedsMaxLength(r.Phone, 30) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must not exceed 30 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	if validator.IsEmpty(r.RefreshToken) {
		return validator.Single("refresh_token", "refresh_token is required")
	}
	return nil
}

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Position *string `json:"position,omitempty"`
}

// ToUpdateUserRequest narrows a profile update to the fields a user may change on themselves.
func (r UpdateProfileRequest) ToUpdateUserRequest(userID string) user.UpdateUserRequest {
	return user.UpdateUserRequest{
		ID:       userID,
		Name:     r.Name,
		Phone:    r.Phone,
		Position: r.Position,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CurrentPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "current_password",
			Message: "current_password is required",
		})
	}

	errs = append(errs, validatePassword("new_password", r.NewPassword)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateEmail(email string) validator.ValidationErrors {
	email = strings.TrimSpace(email)
	switch {
	case validator.IsEmpty(email):
		return validator.ValidationErrors{{Field: "email", Message: "email is required"}}
	case len(email) > 254:
		return validator.ValidationErrors{{Field: "email", Message: "email must not exceed 254 characters"}}
	case !validator.IsValidEmail(email):
		return validator.ValidationErrors{{Field: "email", Message: "email must be a valid email address"}}
	}
	return nil
}

func validatePassword(field, password string) validator.ValidationErrors {
	switch {
	case validator.IsEmpty(password):
		return validator.ValidationErrors{{Field: field, Message: field + " is required"}}
	case len(password) < minPasswordLength:
		return validator.ValidationErrors{{Field: field, Message: field + " must be at least 6 characters long"}}
	case len(password) > 72:
		return validator.ValidationErrors{{Field: field, Message: field + " must not exceed 72 characters"}}
	}
	return nil
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AuthResponse struct {
	TokenResponse
	User user.UserResponse `json:"user"`
}
