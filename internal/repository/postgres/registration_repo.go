package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campuseventhub/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.DB, fn)
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (id, event_id, student_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := querierFrom(ctx, r.DB).ExecContext(ctx, query, reg.ID, reg.EventID, reg.StudentID, reg.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return mapStorageErr(err)
	}
	return nil
}

func (r *registrationRepository) GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, student_id, created_at
		FROM registrations
		WHERE event_id = $1 AND student_id = $2
	`
	reg := &domain.Registration{}
	err := querierFrom(ctx, r.DB).QueryRowContext(ctx, query, eventID, studentID).
		Scan(&reg.ID, &reg.EventID, &reg.StudentID, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapStorageErr(err)
	}
	return reg, nil
}

func (r *registrationRepository) Delete(ctx context.Context, eventID, studentID string) error {
	query := `DELETE FROM registrations WHERE event_id = $1 AND student_id = $2`
	result, err := querierFrom(ctx, r.DB).ExecContext(ctx, query, eventID, studentID)
	if err != nil {
		return mapStorageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return mapStorageErr(err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) ListByStudentID(ctx context.Context, studentID string) ([]*domain.Registration, error) {
	query := `
		SELECT id, event_id, student_id, created_at
		FROM registrations
		WHERE student_id = $1
		ORDER BY created_at DESC
	`
	rows, err := querierFrom(ctx, r.DB).QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.StudentID, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStorageErr(err)
	}
	return regs, nil
}

func (r *registrationRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1`
	var count int
	if err := querierFrom(ctx, r.DB).QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, mapStorageErr(err)
	}
	return count, nil
}
