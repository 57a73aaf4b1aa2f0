package domain

import (
	"context"
	"fmt"
	"time"
)

// EventCategory classifies a campus event.
type EventCategory string

const (
	CategoryAcademic  EventCategory = "academic"
	CategoryCultural  EventCategory = "cultural"
	CategoryTechnical EventCategory = "technical"
	CategorySports    EventCategory = "sports"
	CategoryWorkshop  EventCategory = "workshop"
	CategorySeminar   EventCategory = "seminar"
	CategoryOther     EventCategory = "other"
)

// ParseEventCategory validates a category string.
func ParseEventCategory(s string) (EventCategory, error) {
	switch EventCategory(s) {
	case CategoryAcademic, CategoryCultural, CategoryTechnical, CategorySports,
		CategoryWorkshop, CategorySeminar, CategoryOther:
		return EventCategory(s), nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// EventStatus is an event's position in the approval lifecycle.
type EventStatus string

const (
	StatusPending   EventStatus = "pending"
	StatusApproved  EventStatus = "approved"
	StatusRejected  EventStatus = "rejected"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

// ParseEventStatus validates a status string.
func ParseEventStatus(s string) (EventStatus, error) {
	switch EventStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return EventStatus(s), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// transitions is the lifecycle state machine. Rejected, cancelled and
// completed are terminal. Re-applying the current status is not a valid
// transition, which keeps approvals single-shot.
var transitions = map[EventStatus][]EventStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether the lifecycle permits moving from s to target.
func (s EventStatus) CanTransition(target EventStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Event represents a campus event with fixed seat capacity and an approval
// status.
// swagger:model Event
type Event struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       EventCategory `json:"category"`
	Venue          string        `json:"venue"`
	EventDate      time.Time     `json:"event_date"`
	StartTime      string        `json:"start_time"`
	EndTime        string        `json:"end_time"`
	BannerImage    *string       `json:"banner_image,omitempty"`
	MaxSeats       int           `json:"max_seats"`
	AvailableSeats int           `json:"available_seats"`
	Status         EventStatus   `json:"status"`
	CoordinatorID  string        `json:"coordinator_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// EventFilter narrows a catalog listing. Search is a case-insensitive
// substring match on title and description; an empty Category means all.
type EventFilter struct {
	Search   string
	Category EventCategory
}

// EventRepository defines storage operations for events. GetByIDForUpdate and
// AdjustSeats are transaction-aware: inside a WithTx callback they run on the
// transaction, so the row lock taken by GetByIDForUpdate covers the subsequent
// seat adjustment.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Event, error)
	// UpdateStatus applies target only if the row still holds from, returning
	// ErrConflictRetryable when another writer got there first.
	UpdateStatus(ctx context.Context, id string, from, to EventStatus) (*Event, error)
	// AdjustSeats adds delta to available_seats, constrained to [0, max_seats]
	// by the store.
	AdjustSeats(ctx context.Context, id string, delta int) error
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
}

// LifecycleService governs event creation and status transitions.
type LifecycleService interface {
	// CreateEvent validates and persists a draft event. Students are rejected
	// with ErrForbidden. Admin-authored events start approved, faculty-authored
	// events start pending.
	CreateEvent(ctx context.Context, event *Event, caller Caller) error
	// Transition moves the event to target per the lifecycle table. The role
	// check runs before the reachability check.
	Transition(ctx context.Context, eventID string, target EventStatus, caller Caller) (*Event, error)
}

// CatalogService is the read-only query surface over the event store.
type CatalogService interface {
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
}
