package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campuseventhub/internal/domain"
)

type lifecycleService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewLifecycleService creates the LifecycleService governing event creation
// and status transitions.
func NewLifecycleService(eventRepo domain.EventRepository, timeout time.Duration) domain.LifecycleService {
	return &lifecycleService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *lifecycleService) CreateEvent(ctx context.Context, event *domain.Event, caller domain.Caller) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if caller.Role == domain.RoleStudent {
		return domain.ErrForbidden
	}
	if err := validateDraft(event); err != nil {
		return err
	}

	now := time.Now()
	event.CoordinatorID = caller.ID
	event.AvailableSeats = event.MaxSeats
	event.CreatedAt = now
	event.UpdatedAt = now

	// Admin approval is implicit and immediate.
	if caller.Role == domain.RoleAdmin {
		event.Status = domain.StatusApproved
	} else {
		event.Status = domain.StatusPending
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

const wallClockLayout = "15:04"

func validateDraft(event *domain.Event) error {
	var fields []string
	if strings.TrimSpace(event.Title) == "" {
		fields = append(fields, "title is required")
	}
	if strings.TrimSpace(event.Description) == "" {
		fields = append(fields, "description is required")
	}
	if strings.TrimSpace(event.Venue) == "" {
		fields = append(fields, "venue is required")
	}
	if _, err := domain.ParseEventCategory(string(event.Category)); err != nil {
		fields = append(fields, "category is invalid")
	}
	if event.MaxSeats <= 0 {
		fields = append(fields, "max_seats must be positive")
	}

	start, startErr := time.Parse(wallClockLayout, event.StartTime)
	if startErr != nil {
		fields = append(fields, "start_time must be HH:MM")
	}
	end, endErr := time.Parse(wallClockLayout, event.EndTime)
	if endErr != nil {
		fields = append(fields, "end_time must be HH:MM")
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		fields = append(fields, "end_time must be after start_time")
	}

	if event.EventDate.IsZero() {
		fields = append(fields, "event_date is required")
	} else {
		today := time.Now().Truncate(24 * time.Hour)
		if event.EventDate.Before(today) {
			fields = append(fields, "event_date must not be in the past")
		}
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// allowedCaller applies the role column of the lifecycle table. Every
// transition requires an admin; cancellation is additionally open to the
// faculty member who owns the event.
func allowedCaller(event *domain.Event, target domain.EventStatus, caller domain.Caller) bool {
	if caller.Role == domain.RoleAdmin {
		return true
	}
	if caller.Role == domain.RoleFaculty && target == domain.StatusCancelled {
		return event.CoordinatorID == caller.ID
	}
	return false
}

func (s *lifecycleService) Transition(ctx context.Context, eventID string, target domain.EventStatus, caller domain.Caller) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// The role check runs before the reachability check.
	if !allowedCaller(event, target, caller) {
		return nil, domain.ErrUnauthorized
	}
	if !event.Status.CanTransition(target) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.eventRepo.UpdateStatus(ctx, eventID, event.Status, target)
	if err != nil {
		// A concurrent transition won between our read and the conditional
		// write; the state we validated against is gone.
		if errors.Is(err, domain.ErrConflictRetryable) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	return updated, nil
}
