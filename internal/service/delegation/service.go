package delegation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/delegation"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/user"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/database"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/email"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/sse"
)

type DelegationServiceImpl struct {
	db       *database.DB
	taskRepo delegation.TaskRepository
	userRepo user.UserRepository
	emailSvc email.EmailService
	hub      *sse.Hub
}

func NewDelegationService(
	db *database.DB,
	taskRepo delegation.TaskRepository,
	userRepo user.UserRepository,
	emailSvc email.EmailService,
	hub *sse.Hub,
) *DelegationServiceImpl {
	return &DelegationServiceImpl{
		db:       db,
		taskRepo: taskRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
		hub:      hub,
	}
}

func claimsFromContext(ctx context.Context) (userID string, isAdmin bool, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false, fmt.Errorf("user_id claim is missing or invalid")
	}

	isAdmin, _ = claims["is_admin"].(bool)
	return userID, isAdmin, nil
}

func (s *DelegationServiceImpl) notifyAssignment(ctx context.Context, task delegation.Task, assignerName string) {
	if s.hub != nil {
		s.hub.Publish(task.AssigneeID, sse.Event{
			ID:   uuid.NewString(),
			Name: "task.assigned",
			Payload: map[string]string{
				"task_id": task.ID,
				"title":   task.Title,
			},
		})
	}

	if s.emailSvc == nil {
		return
	}

	assignee, err := s.userRepo.GetByID(ctx, task.AssigneeID)
	if err != nil {
		return
	}

	var dueDate *string
	if task.DueDate != nil {
		d := task.DueDate.Format("2006-01-02")
		dueDate = &d
	}

	if err := s.emailSvc.SendTaskAssigned(assignee.Email, assignee.DisplayName, assignerName, task.Title, dueDate); err != nil {
		slog.Error("Failed to send task assignment email", "task_id", task.ID, "error", err)
	}
}

// Create implements delegation.DelegationService.
func (s *DelegationServiceImpl) Create(ctx context.Context, req delegation.CreateTaskRequest) (delegation.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return delegation.TaskResponse{}, err
	}

	assignerID, _, err := claimsFromContext(ctx)
	if err != nil {
		return delegation.TaskResponse{}, err
	}

	assigner, err := s.userRepo.GetByID(ctx, assignerID)
	if err != nil {
		return delegation.TaskResponse{}, fmt.Errorf("failed to get assigner: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, req.AssigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return delegation.TaskResponse{}, delegation.ErrAssigneeNotFound
		}
		return delegation.TaskResponse{}, fmt.Errorf("failed to get assignee: %w", err)
	}

	task := delegation.Task{
		Title:       req.Title,
		Description: req.Description,
		AssignerID:  assignerID,
		AssigneeID:  req.AssigneeID,
		Status:      delegation.StatusOpen,
	}
	if req.DueDate != nil {
		due, _ := time.Parse("2006-01-02", *req.DueDate)
		task.DueDate = &due
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return delegation.TaskResponse{}, err
	}

	s.notifyAssignment(ctx, created, assigner.DisplayName)

	return delegation.ToResponse(created), nil
}

// UpdateStatus implements delegation.DelegationService.
func (s *DelegationServiceImpl) UpdateStatus(ctx context.Context, id string, req delegation.UpdateStatusRequest) (delegation.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return delegation.TaskResponse{}, err
	}

	userID, isAdmin, err := claimsFromContext(ctx)
	if err != nil {
		return delegation.TaskResponse{}, err
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return delegation.TaskResponse{}, delegation.ErrTaskNotFound
		}
		return delegation.TaskResponse{}, fmt.Errorf("failed to get task: %w", err)
	}

	if !isAdmin && userID != task.AssignerID && userID != task.AssigneeID {
		return delegation.TaskResponse{}, delegation.ErrNotTaskParticipant
	}

	target := delegation.TaskStatus(req.Status)
	if !task.Status.CanTransition(target) {
		return delegation.TaskResponse{}, delegation.ErrInvalidTransition
	}

	if err := s.taskRepo.UpdateStatus(ctx, id, target); err != nil {
		return delegation.TaskResponse{}, err
	}

	task.Status = target
	return delegation.ToResponse(task), nil
}

// Reassign implements delegation.DelegationService.
func (s *DelegationServiceImpl) Reassign(ctx context.Context, id string, req delegation.ReassignRequest) (delegation.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return delegation.TaskResponse{}, err
	}

	userID, isAdmin, err := claimsFromContext(ctx)
	if err != nil {
		return delegation.TaskResponse{}, err
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return delegation.TaskResponse{}, delegation.ErrTaskNotFound
		}
		return delegation.TaskResponse{}, fmt.Errorf("failed to get task: %w", err)
	}

	if !isAdmin && userID != task.AssignerID {
		return delegation.TaskResponse{}, delegation.ErrNotTaskParticipant
	}

	assigner, err := s.userRepo.GetByID(ctx, task.AssignerID)
	if err != nil {
		return delegation.TaskResponse{}, fmt.Errorf("failed to get assigner: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, req.AssigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return delegation.TaskResponse{}, delegation.ErrAssigneeNotFound
		}
		return delegation.TaskResponse{}, fmt.Errorf("failed to get assignee: %w", err)
	}

	if err := s.taskRepo.UpdateAssignee(ctx, id, req.AssigneeID); err != nil {
		return delegation.TaskResponse{}, err
	}

	task.AssigneeID = req.AssigneeID
	s.notifyAssignment(ctx, task, assigner.DisplayName)

	return delegation.ToResponse(task), nil
}

func (s *DelegationServiceImpl) toResponses(tasks []delegation.Task) []delegation.TaskResponse {
	responses := make([]delegation.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, delegation.ToResponse(t))
	}
	return responses
}

// ListAssignedToMe implements delegation.DelegationService.
func (s *DelegationServiceImpl) ListAssignedToMe(ctx context.Context) ([]delegation.TaskResponse, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.toResponses(tasks), nil
}

// ListDelegatedByMe implements delegation.DelegationService.
func (s *DelegationServiceImpl) ListDelegatedByMe(ctx context.Context) ([]delegation.TaskResponse, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByAssigner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.toResponses(tasks), nil
}

// List implements delegation.DelegationService.
func (s *DelegationServiceImpl) List(ctx context.Context) ([]delegation.TaskResponse, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return s.toResponses(tasks), nil
}
