package repository

import (
	"context"

	"clinic-scheduling-api/internal/domain/entity"

	"github.com/google/uuid"
)

type AvailabilityRepository interface {
	// FindByDoctorAndDay returns the doctor's rule for a 0=Monday day
	// index, or (nil, nil) when the doctor has none for that day.
	FindByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*entity.DoctorAvailability, error)

	// Upsert persists the rule for (rule.DoctorID, rule.DayOfWeek). When a
	// row already exists for that pair its window, duration and active
	// flag are overwritten in place, keeping the row's identity; callers
	// rely on the store - not themselves - to maintain the one-rule-per-day
	// invariant. On return rule reflects the persisted row.
	Upsert(ctx context.Context, rule *entity.DoctorAvailability) error

	FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.DoctorAvailability, error)
}
