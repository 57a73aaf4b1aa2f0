package domain

import (
	"context"
	"time"
)

// Registration is a student's claim on one seat of one event. Its existence is
// the seat claim: there is no independent status field, and the composite
// (event_id, student_id) pair is unique in the store.
// swagger:model Registration
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	StudentID string    `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRegistration returns a Registration for the given pair.
func NewRegistration(id, eventID, studentID string, createdAt time.Time) *Registration {
	return &Registration{
		ID:        id,
		EventID:   eventID,
		StudentID: studentID,
		CreatedAt: createdAt,
	}
}

// RegistrationRepository defines storage operations for registrations.
// Create returns ErrAlreadyRegistered when the (event_id, student_id) pair
// already exists. WithTx runs fn inside a single storage transaction; repo
// calls made with the callback's context join that transaction.
type RegistrationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, reg *Registration) error
	GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*Registration, error)
	Delete(ctx context.Context, eventID, studentID string) error
	ListByStudentID(ctx context.Context, studentID string) ([]*Registration, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// RegistrationWithEvent bundles a registration with its event for list views.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationService is the seat-allocation coordinator. Register and
// Unregister evaluate their preconditions and mutations against a single
// consistent snapshot of the store.
type RegistrationService interface {
	// Register claims one seat on an approved event for the calling student.
	// Fails with ErrForbidden for non-students, ErrEventNotOpen for events not
	// in the approved state, ErrSeatsExhausted when no seats remain, and
	// ErrAlreadyRegistered on a duplicate attempt.
	Register(ctx context.Context, eventID string, caller Caller) (*Registration, error)
	// Unregister releases the caller's seat, capped at max_seats.
	Unregister(ctx context.Context, eventID string, caller Caller) error
	ListMyRegistrations(ctx context.Context, caller Caller) ([]*RegistrationWithEvent, error)
}
