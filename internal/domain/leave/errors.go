package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrOverlappingRequest   = errors.New("leave request overlaps an existing pending or approved request")
	ErrNotPending           = errors.New("leave request is not pending")
	ErrAlreadyCancelled     = errors.New("leave request is already cancelled")
	ErrPastApprovedLeave    = errors.New("cannot cancel approved leave that has already started")
	ErrForbidden            = errors.New("not allowed to access this leave request")
	ErrDuplicateEntry       = errors.New("balance entry already recorded for this leave request")
)
