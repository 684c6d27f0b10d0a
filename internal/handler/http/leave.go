package http

import (
	"log/slog"
	"net/http"

	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	AddComment(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// Submit implements LeaveHandler.
func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequest
	if !decodeJSON(w, r, "Submit leave", &req) {
		return
	}

	resp, err := l.leaveService.Submit(r.Context(), actor, req)
	if err != nil {
		slog.Error("Submit leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", resp)
}

// List implements LeaveHandler.
func (l *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	filter := leave.LeaveRequestFilter{
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
		Status:     queryString(r, "status"),
		LeaveType:  queryString(r, "leave_type"),
		EmployeeID: queryString(r, "employee_id"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
	}
	if year := queryInt(r, "year"); year != 0 {
		filter.Year = &year
	}

	resp, err := l.leaveService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Get implements LeaveHandler.
func (l *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	resp, err := l.leaveService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Approve implements LeaveHandler.
func (l *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	resp, err := l.leaveService.Approve(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Approve leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", resp)
}

// Reject implements LeaveHandler.
func (l *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req leave.RejectLeaveRequest
	if !decodeJSON(w, r, "Reject leave", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := l.leaveService.Reject(r.Context(), actor, req)
	if err != nil {
		slog.Error("Reject leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", resp)
}

// Cancel implements LeaveHandler.
func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	resp, err := l.leaveService.Cancel(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Cancel leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", resp)
}

// AddComment implements LeaveHandler.
func (l *LeaveHandlerImpl) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req leave.AddCommentRequest
	if !decodeJSON(w, r, "Add comment", &req) {
		return
	}
	req.LeaveRequestID = chi.URLParam(r, "id")

	resp, err := l.leaveService.AddComment(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Comment added successfully", resp)
}

// Stats implements LeaveHandler.
func (l *LeaveHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	req := leave.StatsRequest{
		Year:       queryInt(r, "year"),
		EmployeeID: queryString(r, "employee_id"),
	}

	resp, err := l.leaveService.Stats(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
