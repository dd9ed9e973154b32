package leave

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/leave"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveRepo struct {
	requests map[string]leave.LeaveRequest
	overlap  bool
	nextID   int
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (f *fakeLeaveRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.nextID++
	request.ID = "leave-" + string(rune('0'+f.nextID))
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, pgx.ErrNoRows
	}
	return request, nil
}

func (f *fakeLeaveRepo) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) ListApprovedByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.UserID == userID && r.Status == leave.StatusApproved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) ListByStatus(ctx context.Context, status leave.Status) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) List(ctx context.Context) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLeaveRepo) UpdateStatus(ctx context.Context, id string, status leave.Status, note *string, decidedBy string, decidedAt time.Time) error {
	request, ok := f.requests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	request.Status = status
	request.DecisionNote = note
	request.DecidedBy = &decidedBy
	request.DecidedAt = &decidedAt
	f.requests[id] = request
	return nil
}

func (f *fakeLeaveRepo) HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	return f.overlap, nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	f.users[u.ID] = u
	return nil
}

func contextWithClaims(t *testing.T, userID string, isAdmin bool) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id":  userID,
		"is_admin": isAdmin,
		"type":     "access",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestLeaveService(leaveRepo *fakeLeaveRepo, userRepo *fakeUserRepo) *LeaveServiceImpl {
	return NewLeaveService(nil, leaveRepo, userRepo, nil, nil)
}

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	leaveRepo := newFakeLeaveRepo()
	svc := newTestLeaveService(leaveRepo, newFakeUserRepo())

	ctx := contextWithClaims(t, "user-1", false)
	resp, err := svc.Submit(ctx, leave.SubmitRequest{
		StartDate: "2024-04-10",
		EndDate:   "2024-04-12",
		Reason:    "family event",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, string(leave.StatusPending), resp.Status)
	assert.Equal(t, "2024-04-10", resp.StartDate)
}

func TestSubmit_RejectsOverlap(t *testing.T) {
	leaveRepo := newFakeLeaveRepo()
	leaveRepo.overlap = true
	svc := newTestLeaveService(leaveRepo, newFakeUserRepo())

	ctx := contextWithClaims(t, "user-1", false)
	_, err := svc.Submit(ctx, leave.SubmitRequest{
		StartDate: "2024-04-10",
		EndDate:   "2024-04-12",
		Reason:    "family event",
	})

	assert.ErrorIs(t, err, leave.ErrLeaveOverlap)
}

func TestSubmit_RejectsInvalidRange(t *testing.T) {
	svc := newTestLeaveService(newFakeLeaveRepo(), newFakeUserRepo())

	ctx := contextWithClaims(t, "user-1", false)
	_, err := svc.Submit(ctx, leave.SubmitRequest{
		StartDate: "2024-04-12",
		EndDate:   "2024-04-10",
		Reason:    "family event",
	})

	assert.Error(t, err)
}

func seedPendingRequest(repo *fakeLeaveRepo, userID string) string {
	created, _ := repo.Create(context.Background(), leave.LeaveRequest{
		UserID:    userID,
		StartDate: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
		Reason:    "family event",
		Status:    leave.StatusPending,
	})
	return created.ID
}

func TestApprove_SetsStatusAndDecider(t *testing.T) {
	leaveRepo := newFakeLeaveRepo()
	userRepo := newFakeUserRepo(user.User{ID: "user-1", Email: "u1@example.com", DisplayName: "U One"})
	svc := newTestLeaveService(leaveRepo, userRepo)

	id := seedPendingRequest(leaveRepo, "user-1")
	note := "enjoy"
	ctx := contextWithClaims(t, "admin-1", true)

	resp, err := svc.Approve(ctx, id, leave.DecisionRequest{Note: &note})

	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusApproved), resp.Status)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, "admin-1", *resp.DecidedBy)
	require.NotNil(t, resp.DecisionNote)
	assert.Equal(t, "enjoy", *resp.DecisionNote)
}

func TestDecide_RejectsOwnRequest(t *testing.T) {
	leaveRepo := newFakeLeaveRepo()
	svc := newTestLeaveService(leaveRepo, newFakeUserRepo())

	id := seedPendingRequest(leaveRepo, "admin-1")
	ctx := contextWithClaims(t, "admin-1", true)

	_, err := svc.Approve(ctx, id, leave.DecisionRequest{})

	assert.ErrorIs(t, err, leave.ErrCannotDecideOwnLeave)
}

func TestDecide_RejectsAlreadyProcessed(t *testing.T) {
	leaveRepo := newFakeLeaveRepo()
	userRepo := newFakeUserRepo(user.User{ID: "user-1", Email: "u1@example.com"})
	svc := newTestLeaveService(leaveRepo, userRepo)

	id := seedPendingRequest(leaveRepo, "user-1")
	ctx := contextWithClaims(t, "admin-1", true)

	_, err := svc.Approve(ctx, id, leave.DecisionRequest{})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, id, leave.DecisionRequest{})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestDecide_NotFound(t *testing.T) {
	svc := newTestLeaveService(newFakeLeaveRepo(), newFakeUserRepo())

	ctx := contextWithClaims(t, "admin-1", true)
	_, err := svc.Approve(ctx, "missing", leave.DecisionRequest{})

	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
