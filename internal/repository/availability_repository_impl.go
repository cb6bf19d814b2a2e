package repository

import (
	"context"
	"errors"

	"clinic-scheduling-api/internal/domain/entity"
	domainRepo "clinic-scheduling-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) domainRepo.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) FindByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*entity.DoctorAvailability, error) {
	var rule entity.DoctorAvailability
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, dayOfWeek).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// Upsert runs find-then-write inside one transaction so two concurrent
// sets for the same (doctor, day) cannot both insert; the unique index on
// the pair backs the transaction up.
func (r *availabilityRepository) Upsert(ctx context.Context, rule *entity.DoctorAvailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.DoctorAvailability
		err := tx.Where("doctor_id = ? AND day_of_week = ?", rule.DoctorID, rule.DayOfWeek).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(rule).Error
			}
			return err
		}

		existing.StartTime = rule.StartTime
		existing.EndTime = rule.EndTime
		existing.SlotDurationMinutes = rule.SlotDurationMinutes
		existing.IsActive = rule.IsActive
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*rule = existing
		return nil
	})
}

func (r *availabilityRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.DoctorAvailability, error) {
	var rules []entity.DoctorAvailability
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
