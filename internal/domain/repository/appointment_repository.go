package repository

import (
	"context"
	"time"

	"clinic-scheduling-api/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// Create inserts the appointment as a single atomic write. The
	// partial unique index over (doctor_id, date, start_time) on
	// non-cancelled rows rejects a lost race with a unique-violation
	// error; callers map it to their slot-taken outcome.
	Create(ctx context.Context, appointment *entity.Appointment) error

	// FindConflict returns the non-cancelled appointment occupying
	// (doctorID, date, startTime), or (nil, nil) when the slot is free.
	FindConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (*entity.Appointment, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindAll(ctx context.Context) ([]entity.Appointment, error)

	// Cancel flips status to cancelled only if it is not already
	// cancelled. Returns affected rows: 1 = cancelled now, 0 = lost a
	// double-cancel race.
	Cancel(ctx context.Context, id uuid.UUID) (int64, error)
}
