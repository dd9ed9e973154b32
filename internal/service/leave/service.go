package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/leave"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/user"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/database"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/email"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/sse"
)

type LeaveServiceImpl struct {
	db        *database.DB
	leaveRepo leave.LeaveRepository
	userRepo  user.UserRepository
	emailSvc  email.EmailService
	hub       *sse.Hub

	now func() time.Time
}

func NewLeaveService(
	db *database.DB,
	leaveRepo leave.LeaveRepository,
	userRepo user.UserRepository,
	emailSvc email.EmailService,
	hub *sse.Hub,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		db:        db,
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
		hub:       hub,
		now:       time.Now,
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

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	overlaps, err := s.leaveRepo.HasOverlap(ctx, userID, start, end)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if overlaps {
		return leave.LeaveResponse{}, leave.ErrLeaveOverlap
	}

	created, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	return leave.ToResponse(created), nil
}

func (s *LeaveServiceImpl) decide(ctx context.Context, id string, status leave.Status, req leave.DecisionRequest) (leave.LeaveResponse, error) {
	deciderID, _, err := claimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	request, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveResponse{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if request.UserID == deciderID {
		return leave.LeaveResponse{}, leave.ErrCannotDecideOwnLeave
	}

	if request.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	decidedAt := s.now().UTC()
	if err := s.leaveRepo.UpdateStatus(ctx, id, status, req.Note, deciderID, decidedAt); err != nil {
		return leave.LeaveResponse{}, err
	}

	request.Status = status
	request.DecisionNote = req.Note
	request.DecidedBy = &deciderID
	request.DecidedAt = &decidedAt

	if s.hub != nil {
		s.hub.Publish(request.UserID, sse.Event{
			ID:   uuid.NewString(),
			Name: "leave.decided",
			Payload: map[string]string{
				"leave_id": id,
				"status":   string(status),
			},
		})
	}

	// Best-effort notification: a failed email never fails the decision.
	if s.emailSvc != nil {
		if requester, err := s.userRepo.GetByID(ctx, request.UserID); err == nil {
			if err := s.emailSvc.SendLeaveDecision(
				requester.Email,
				requester.DisplayName,
				request.StartDate.Format("2006-01-02"),
				request.EndDate.Format("2006-01-02"),
				string(status),
				req.Note,
			); err != nil {
				slog.Error("Failed to send leave decision email", "leave_id", id, "error", err)
			}
		}
	}

	return leave.ToResponse(request), nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
	return s.decide(ctx, id, leave.StatusApproved, req)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, id string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
	return s.decide(ctx, id, leave.StatusRejected, req)
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context) ([]leave.LeaveResponse, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.leaveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}

	return responses, nil
}

// ListPending implements leave.LeaveService.
func (s *LeaveServiceImpl) ListPending(ctx context.Context) ([]leave.LeaveResponse, error) {
	requests, err := s.leaveRepo.ListByStatus(ctx, leave.StatusPending)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}

	return responses, nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context) ([]leave.LeaveResponse, error) {
	requests, err := s.leaveRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}

	return responses, nil
}
