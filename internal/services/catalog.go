package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campuseventhub/internal/domain"
)

// catalogService is the read side: it performs no mutation.
type catalogService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewCatalogService(eventRepo domain.EventRepository, timeout time.Duration) domain.CatalogService {
	return &catalogService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *catalogService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *catalogService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}
