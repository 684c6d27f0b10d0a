package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ezleave/ezleave-backend-go/internal/domain/auth"
	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/jwt"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Anything unrecognised is logged and hidden behind a 500.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrWrongTokenType):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "EMAIL_EXISTS", "Email already registered")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User account is deactivated")
	case errors.Is(err, user.ErrUserHasActiveLeaves):
		Conflict(w, "USER_HAS_ACTIVE_LEAVES", "User has pending or approved leave requests")
	case errors.Is(err, user.ErrCannotDeactivateSelf):
		BadRequest(w, "You cannot deactivate your own account", nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Department domain errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "DEPARTMENT_NAME_EXISTS", "Department name already exists")
	case errors.Is(err, department.ErrDepartmentHasUsers):
		Conflict(w, "DEPARTMENT_HAS_USERS", "Department still has active users")
	case errors.Is(err, department.ErrHeadNotFound):
		NotFound(w, "Department head not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		UnprocessableEntity(w, "INSUFFICIENT_BALANCE", "Insufficient leave balance")
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "OVERLAPPING_REQUEST", "Leave request overlaps an existing pending or approved request")
	case errors.Is(err, leave.ErrNotPending):
		Conflict(w, "NOT_PENDING", "Leave request is not pending")
	case errors.Is(err, leave.ErrAlreadyCancelled):
		Conflict(w, "ALREADY_CANCELLED", "Leave request is already cancelled")
	case errors.Is(err, leave.ErrPastApprovedLeave):
		Conflict(w, "PAST_APPROVED_LEAVE", "Cannot cancel approved leave that has already started")
	case errors.Is(err, leave.ErrDuplicateEntry):
		Conflict(w, "DUPLICATE_TRANSITION", "Leave request was already processed")
	case errors.Is(err, leave.ErrForbidden):
		Forbidden(w, "You are not allowed to access this leave request")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
