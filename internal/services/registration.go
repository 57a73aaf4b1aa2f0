package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campuseventhub/internal/domain"
)

// registerMaxAttempts bounds internal retries of a transient storage conflict
// before it is surfaced to the caller.
const registerMaxAttempts = 3

const retryBackoff = 25 * time.Millisecond

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
}

// NewRegistrationService creates the seat-allocation coordinator.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID string, caller domain.Caller) (*domain.Registration, error) {
	if caller.Role != domain.RoleStudent {
		return nil, domain.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var reg *domain.Registration
	err := s.retryOnConflict(ctx, func() error {
		var txErr error
		reg, txErr = s.registerOnce(ctx, eventID, caller.ID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// registerOnce runs the full check-and-claim sequence inside one transaction.
// The row lock taken by GetByIDForUpdate holds until commit, so no other
// registration can interleave between the seat check and the decrement.
func (s *registrationService) registerOnce(ctx context.Context, eventID, studentID string) (*domain.Registration, error) {
	var reg *domain.Registration
	err := s.registrationRepo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.eventRepo.GetByIDForUpdate(txCtx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrEventNotOpen
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.Status != domain.StatusApproved {
			return domain.ErrEventNotOpen
		}

		// Duplicate check precedes the seat check so a retried submission
		// fails with AlreadyRegistered even on a full event.
		if _, err := s.registrationRepo.GetByEventAndStudent(txCtx, eventID, studentID); err == nil {
			return domain.ErrAlreadyRegistered
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get registration: %w", err)
		}

		if event.AvailableSeats <= 0 {
			return domain.ErrSeatsExhausted
		}

		reg = domain.NewRegistration(uuid.NewString(), eventID, studentID, time.Now())
		if err := s.registrationRepo.Create(txCtx, reg); err != nil {
			if errors.Is(err, domain.ErrAlreadyRegistered) {
				return domain.ErrAlreadyRegistered
			}
			return fmt.Errorf("create registration: %w", err)
		}
		if err := s.eventRepo.AdjustSeats(txCtx, eventID, -1); err != nil {
			if errors.Is(err, domain.ErrSeatsExhausted) {
				return domain.ErrSeatsExhausted
			}
			return fmt.Errorf("claim seat: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) Unregister(ctx context.Context, eventID string, caller domain.Caller) error {
	if caller.Role != domain.RoleStudent {
		return domain.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.retryOnConflict(ctx, func() error {
		return s.registrationRepo.WithTx(ctx, func(txCtx context.Context) error {
			if _, err := s.eventRepo.GetByIDForUpdate(txCtx, eventID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.ErrNotFound
				}
				return fmt.Errorf("get event: %w", err)
			}
			if err := s.registrationRepo.Delete(txCtx, eventID, caller.ID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.ErrNotFound
				}
				return fmt.Errorf("delete registration: %w", err)
			}
			if err := s.eventRepo.AdjustSeats(txCtx, eventID, 1); err != nil {
				return fmt.Errorf("release seat: %w", err)
			}
			return nil
		})
	})
}

// retryOnConflict re-runs fn on ErrConflictRetryable with a short growing
// backoff, a bounded number of times. Any other outcome passes through.
func (s *registrationService) retryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < registerMaxAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, domain.ErrConflictRetryable) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff << attempt):
		}
	}
	return err
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, caller domain.Caller) ([]*domain.RegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByStudentID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.RegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}
