package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"campuseventhub/internal/domain"
)

const eventColumns = `id, title, description, category, venue, event_date, start_time, end_time,
		banner_image, max_seats, available_seats, status, coordinator_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var bannerNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.Venue, &e.EventDate,
		&e.StartTime, &e.EndTime, &bannerNull, &e.MaxSeats, &e.AvailableSeats,
		&e.Status, &e.CoordinatorID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bannerNull.Valid {
		e.BannerImage = &bannerNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, category, venue, event_date, start_time, end_time,
			banner_image, max_seats, available_seats, status, coordinator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	var banner any
	if e.BannerImage != nil {
		banner = *e.BannerImage
	}
	err := querierFrom(ctx, r.DB).QueryRowContext(ctx, query,
		e.Title, e.Description, e.Category, e.Venue, e.EventDate, e.StartTime, e.EndTime,
		banner, e.MaxSeats, e.AvailableSeats, e.Status, e.CoordinatorID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return mapStorageErr(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(querierFrom(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapStorageErr(err)
	}
	return e, nil
}

// GetByIDForUpdate locks the event row for the rest of the enclosing
// transaction. Callable only inside a WithTx callback; the lock makes the
// check-then-decrement sequence in the registration service indivisible.
func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	e, err := scanEvent(querierFrom(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapStorageErr(err)
	}
	return e, nil
}

// UpdateStatus moves the event from one status to another as a single
// conditional write. When the row no longer holds the expected status a
// concurrent transition won; the caller decides how to surface that.
func (r *eventRepository) UpdateStatus(ctx context.Context, id string, from, to domain.EventStatus) (*domain.Event, error) {
	query := `
		UPDATE events SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + eventColumns
	e, err := scanEvent(querierFrom(ctx, r.DB).QueryRowContext(ctx, query, to, id, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConflictRetryable
		}
		return nil, mapStorageErr(err)
	}
	return e, nil
}

func (r *eventRepository) AdjustSeats(ctx context.Context, id string, delta int) error {
	query := `
		UPDATE events
		SET available_seats = available_seats + $1, updated_at = NOW()
		WHERE id = $2 AND available_seats + $1 >= 0 AND available_seats + $1 <= max_seats
	`
	result, err := querierFrom(ctx, r.DB).ExecContext(ctx, query, delta, id)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrSeatsExhausted
		}
		return mapStorageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return mapStorageErr(err)
	}
	if rows == 0 {
		return domain.ErrSeatsExhausted
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where := []string{"1=1"}
	args := []any{}
	n := 1
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
		args = append(args, "%"+filter.Search+"%")
		n++
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", n))
		args = append(args, filter.Category)
		n++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE ` + whereClause
	if err := querierFrom(ctx, r.DB).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapStorageErr(err)
	}

	query := fmt.Sprintf(`
		SELECT `+eventColumns+`
		FROM events
		WHERE `+whereClause+`
		ORDER BY event_date ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, n, n+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := querierFrom(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapStorageErr(err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapStorageErr(err)
	}
	return events, total, nil
}
