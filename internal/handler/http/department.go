package http

import (
	"log/slog"
	"net/http"

	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DepartmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Users(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type DepartmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &DepartmentHandlerImpl{departmentService: departmentService}
}

// Create implements DepartmentHandler.
func (d *DepartmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req department.CreateDepartmentRequest
	if !decodeJSON(w, r, "Create department", &req) {
		return
	}

	resp, err := d.departmentService.Create(r.Context(), actor, req)
	if err != nil {
		slog.Error("Create department service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created successfully", resp)
}

// List implements DepartmentHandler.
func (d *DepartmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := d.departmentService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Get implements DepartmentHandler.
func (d *DepartmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := d.departmentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Update implements DepartmentHandler.
func (d *DepartmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req department.UpdateDepartmentRequest
	if !decodeJSON(w, r, "Update department", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := d.departmentService.Update(r.Context(), actor, req)
	if err != nil {
		slog.Error("Update department service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department updated successfully", resp)
}

// Delete implements DepartmentHandler.
func (d *DepartmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := d.departmentService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete department service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department deleted successfully", nil)
}

// Users implements DepartmentHandler.
func (d *DepartmentHandlerImpl) Users(w http.ResponseWriter, r *http.Request) {
	resp, err := d.departmentService.ListUsers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Stats implements DepartmentHandler.
func (d *DepartmentHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	resp, err := d.departmentService.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
