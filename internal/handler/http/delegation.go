package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/delegation"
	"github.com/opsgrid/opsgrid-backend-go/internal/handler/http/response"
)

type DelegationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Reassign(w http.ResponseWriter, r *http.Request)
	ListAssignedToMe(w http.ResponseWriter, r *http.Request)
	ListDelegatedByMe(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type DelegationHandlerImpl struct {
	delegationService delegation.DelegationService
}

func NewDelegationHandler(delegationService delegation.DelegationService) DelegationHandler {
	return &DelegationHandlerImpl{delegationService: delegationService}
}

// Create implements DelegationHandler.
func (d *DelegationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req delegation.CreateTaskRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create task decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	task, err := d.delegationService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Task created successfully", task)
}

// UpdateStatus implements DelegationHandler.
func (d *DelegationHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Task ID is required", nil)
		return
	}

	var req delegation.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	task, err := d.delegationService.UpdateStatus(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task status updated successfully", task)
}

// Reassign implements DelegationHandler.
func (d *DelegationHandlerImpl) Reassign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Task ID is required", nil)
		return
	}

	var req delegation.ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reassign decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	task, err := d.delegationService.Reassign(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task reassigned successfully", task)
}

// ListAssignedToMe implements DelegationHandler.
func (d *DelegationHandlerImpl) ListAssignedToMe(w http.ResponseWriter, r *http.Request) {
	tasks, err := d.delegationService.ListAssignedToMe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tasks)
}

// ListDelegatedByMe implements DelegationHandler.
func (d *DelegationHandlerImpl) ListDelegatedByMe(w http.ResponseWriter, r *http.Request) {
	tasks, err := d.delegationService.ListDelegatedByMe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tasks)
}

// List implements DelegationHandler.
func (d *DelegationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := d.delegationService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tasks)
}
