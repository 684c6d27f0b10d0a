package http

import (
	"log/slog"
	"net/http"

	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Leaves(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	UpdateBalance(w http.ResponseWriter, r *http.Request)
	Overview(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService  user.UserService
	leaveService leave.LeaveService
}

func NewUserHandler(userService user.UserService, leaveService leave.LeaveService) UserHandler {
	return &UserHandlerImpl{
		userService:  userService,
		leaveService: leaveService,
	}
}

// List implements UserHandler.
func (u *UserHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	filter := user.UserFilter{
		Page:         queryInt(r, "page"),
		Limit:        queryInt(r, "limit"),
		DepartmentID: queryString(r, "department_id"),
		Role:         queryString(r, "role"),
		Search:       queryString(r, "search"),
		IsActive:     queryBool(r, "is_active"),
	}

	resp, err := u.userService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Get implements UserHandler.
func (u *UserHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	resp, err := u.userService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Update implements UserHandler.
func (u *UserHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req user.UpdateUserRequest
	if !decodeJSON(w, r, "Update user", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := u.userService.Update(r.Context(), actor, req)
	if err != nil {
		slog.Error("Update user service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User updated successfully", resp)
}

// Deactivate implements UserHandler.
func (u *UserHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := u.userService.Deactivate(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		slog.Error("Deactivate user service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User deactivated successfully", nil)
}

// Leaves lists one user's leave requests, optionally for a single year.
func (u *UserHandlerImpl) Leaves(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "id")
	filter := leave.LeaveRequestFilter{
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
		Status:     queryString(r, "status"),
		EmployeeID: &userID,
	}
	if year := queryInt(r, "year"); year != 0 {
		filter.Year = &year
	}

	resp, err := u.leaveService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Balance implements UserHandler.
func (u *UserHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	resp, err := u.leaveService.GetBalance(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// UpdateBalance implements UserHandler.
func (u *UserHandlerImpl) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req user.UpdateBalanceRequest
	if !decodeJSON(w, r, "Update balance", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := u.userService.UpdateBalance(r.Context(), actor, req)
	if err != nil {
		slog.Error("Update balance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance updated successfully", resp)
}

// Overview implements UserHandler.
func (u *UserHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	resp, err := u.userService.Overview(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
