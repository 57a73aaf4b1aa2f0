package services

import (
	"context"
	"testing"
	"time"

	"campuseventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEventRepo implements domain.EventRepository for lifecycle tests.
type stubEventRepo struct {
	events  map[string]*domain.Event
	created *domain.Event
	err     error
}

func (m *stubEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	e.ID = "ev-new"
	m.created = e
	return nil
}

func (m *stubEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *ev
	return &copy, nil
}

func (m *stubEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return m.GetByID(ctx, id)
}

func (m *stubEventRepo) UpdateStatus(ctx context.Context, id string, from, to domain.EventStatus) (*domain.Event, error) {
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if ev.Status != from {
		return nil, domain.ErrConflictRetryable
	}
	ev.Status = to
	copy := *ev
	return &copy, nil
}

func (m *stubEventRepo) AdjustSeats(ctx context.Context, id string, delta int) error {
	return nil
}

func (m *stubEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	return nil, 0, nil
}

func validDraft() *domain.Event {
	return &domain.Event{
		Title:       "Robotics Workshop",
		Description: "Hands-on session with the robotics club",
		Category:    domain.CategoryWorkshop,
		Venue:       "Lab 3",
		EventDate:   time.Now().AddDate(0, 0, 14),
		StartTime:   "10:00",
		EndTime:     "12:00",
		MaxSeats:    30,
	}
}

func TestLifecycleService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		mutate     func(e *domain.Event)
		caller     domain.Caller
		wantStatus domain.EventStatus
		wantErr    error
		wantValid  bool
	}{
		{
			name:       "faculty draft starts pending",
			caller:     domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
			wantStatus: domain.StatusPending,
		},
		{
			name:       "admin draft is approved immediately",
			caller:     domain.Caller{ID: "adm-1", Role: domain.RoleAdmin},
			wantStatus: domain.StatusApproved,
		},
		{
			name:    "student is forbidden",
			caller:  domain.Caller{ID: "stu-1", Role: domain.RoleStudent},
			wantErr: domain.ErrForbidden,
		},
		{
			name:      "missing title",
			mutate:    func(e *domain.Event) { e.Title = "  " },
			caller:    domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
			wantValid: true,
		},
		{
			name:      "non-positive seats",
			mutate:    func(e *domain.Event) { e.MaxSeats = 0 },
			caller:    domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
			wantValid: true,
		},
		{
			name:      "end before start",
			mutate:    func(e *domain.Event) { e.StartTime = "14:00"; e.EndTime = "13:00" },
			caller:    domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
			wantValid: true,
		},
		{
			name:      "end equals start",
			mutate:    func(e *domain.Event) { e.StartTime = "14:00"; e.EndTime = "14:00" },
			caller:    domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
			wantValid: true,
		},
		{
			name:      "date in the past",
			mutate:    func(e *domain.Event) { e.EventDate = time.Now().AddDate(0, 0, -2) },
			caller:    domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
			wantValid: true,
		},
		{
			name:      "unknown category",
			mutate:    func(e *domain.Event) { e.Category = "concert" },
			caller:    domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubEventRepo{events: map[string]*domain.Event{}}
			svc := NewLifecycleService(repo, time.Second)

			draft := validDraft()
			if tt.mutate != nil {
				tt.mutate(draft)
			}

			err := svc.CreateEvent(ctx, draft, tt.caller)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, repo.created)
				return
			}
			if tt.wantValid {
				require.Error(t, err)
				require.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
				require.Nil(t, repo.created)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, repo.created)
			assert.Equal(t, tt.wantStatus, repo.created.Status)
			assert.Equal(t, tt.caller.ID, repo.created.CoordinatorID)
			assert.Equal(t, draft.MaxSeats, repo.created.AvailableSeats)
		})
	}
}

func TestLifecycleService_Transition_Table(t *testing.T) {
	ctx := context.Background()
	admin := domain.Caller{ID: "adm-1", Role: domain.RoleAdmin}

	all := []domain.EventStatus{
		domain.StatusPending, domain.StatusApproved, domain.StatusRejected,
		domain.StatusCancelled, domain.StatusCompleted,
	}
	valid := map[domain.EventStatus][]domain.EventStatus{
		domain.StatusPending:  {domain.StatusApproved, domain.StatusRejected},
		domain.StatusApproved: {domain.StatusCancelled, domain.StatusCompleted},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, v := range valid[from] {
				if v == to {
					want = true
				}
			}
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				repo := &stubEventRepo{events: map[string]*domain.Event{
					"ev-1": {ID: "ev-1", Status: from, CoordinatorID: "fac-1"},
				}}
				svc := NewLifecycleService(repo, time.Second)

				updated, err := svc.Transition(ctx, "ev-1", to, admin)
				if want {
					require.NoError(t, err)
					require.Equal(t, to, updated.Status)
				} else {
					require.ErrorIs(t, err, domain.ErrInvalidTransition)
					require.Equal(t, from, repo.events["ev-1"].Status, "state must be unchanged")
				}
			})
		}
	}
}

func TestLifecycleService_Transition_RoleGate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		from    domain.EventStatus
		target  domain.EventStatus
		caller  domain.Caller
		wantErr error
	}{
		{
			name:    "student cannot approve",
			from:    domain.StatusPending,
			target:  domain.StatusApproved,
			caller:  domain.Caller{ID: "stu-1", Role: domain.RoleStudent},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:    "faculty cannot approve own event",
			from:    domain.StatusPending,
			target:  domain.StatusApproved,
			caller:  domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:   "owning faculty may cancel",
			from:   domain.StatusApproved,
			target: domain.StatusCancelled,
			caller: domain.Caller{ID: "fac-1", Role: domain.RoleFaculty},
		},
		{
			name:    "non-owning faculty may not cancel",
			from:    domain.StatusApproved,
			target:  domain.StatusCancelled,
			caller:  domain.Caller{ID: "fac-2", Role: domain.RoleFaculty},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:    "role check precedes transition check",
			from:    domain.StatusCompleted,
			target:  domain.StatusApproved,
			caller:  domain.Caller{ID: "stu-1", Role: domain.RoleStudent},
			wantErr: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubEventRepo{events: map[string]*domain.Event{
				"ev-1": {ID: "ev-1", Status: tt.from, CoordinatorID: "fac-1"},
			}}
			svc := NewLifecycleService(repo, time.Second)

			_, err := svc.Transition(ctx, "ev-1", tt.target, tt.caller)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, tt.from, repo.events["ev-1"].Status)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLifecycleService_Transition_NotFound(t *testing.T) {
	repo := &stubEventRepo{events: map[string]*domain.Event{}}
	svc := NewLifecycleService(repo, time.Second)

	_, err := svc.Transition(context.Background(), "missing", domain.StatusApproved,
		domain.Caller{ID: "adm-1", Role: domain.RoleAdmin})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLifecycleService_Transition_ConcurrentWinner(t *testing.T) {
	// The conditional write misses because the status changed after our read;
	// the loser must see InvalidTransition, not a silent second apply.
	repo := &stubEventRepo{events: map[string]*domain.Event{
		"ev-1": {ID: "ev-1", Status: domain.StatusPending, CoordinatorID: "fac-1"},
	}}
	svc := NewLifecycleService(repo, time.Second)
	admin := domain.Caller{ID: "adm-1", Role: domain.RoleAdmin}

	_, err := svc.Transition(context.Background(), "ev-1", domain.StatusApproved, admin)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), "ev-1", domain.StatusApproved, admin)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}
