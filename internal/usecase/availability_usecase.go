package usecase

import (
	"context"

	"clinic-scheduling-api/internal/converter"
	"clinic-scheduling-api/internal/delivery/dto"
	"clinic-scheduling-api/internal/domain/entity"
	"clinic-scheduling-api/internal/domain/repository"
	"clinic-scheduling-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AvailabilityUsecase interface {
	SetAvailability(ctx context.Context, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error)
	GetMine(ctx context.Context) (*dto.AvailabilityListResponse, error)
	GetForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityListResponse, error)
}

type availabilityUsecase struct {
	log              *logrus.Logger
	availabilityRepo repository.AvailabilityRepository
	auditService     service.AuditService
}

func NewAvailabilityUsecase(
	log *logrus.Logger,
	availabilityRepo repository.AvailabilityRepository,
	auditService service.AuditService,
) AvailabilityUsecase {
	return &availabilityUsecase{
		log:              log,
		availabilityRepo: availabilityRepo,
		auditService:     auditService,
	}
}

// SetAvailability creates or replaces the calling doctor's rule for one
// weekday. Re-setting a day overwrites the existing rule in place, so a
// doctor never accumulates more than one rule per day.
func (u *availabilityUsecase) SetAvailability(ctx context.Context, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule := &entity.DoctorAvailability{
		DoctorID:            actor.UserID,
		DayOfWeek:           *req.DayOfWeek,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsActive:            isActive,
	}

	if err := u.availabilityRepo.Upsert(ctx, rule); err != nil {
		u.log.Errorf("Failed to upsert availability for doctor %s day %d: %+v", actor.UserID, rule.DayOfWeek, err)
		return nil, err
	}

	u.auditService.Record(ctx, &actor.UserID, entity.AuditActionAvailabilitySet, entity.JSON{
		"day_of_week": rule.DayOfWeek,
		"start_time":  rule.StartTime,
		"end_time":    rule.EndTime,
		"is_active":   rule.IsActive,
	})

	u.log.Infof("Availability set: doctor=%s, day=%s, window=%s-%s", actor.UserID, entity.DayName(rule.DayOfWeek), rule.StartTime, rule.EndTime)
	return converter.AvailabilityToResponse(rule), nil
}

func (u *availabilityUsecase) GetMine(ctx context.Context) (*dto.AvailabilityListResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	return u.GetForDoctor(ctx, actor.UserID)
}

func (u *availabilityUsecase) GetForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityListResponse, error) {
	rules, err := u.availabilityRepo.FindByDoctor(ctx, doctorID)
	if err != nil {
		u.log.Errorf("Failed to list availability for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AvailabilityListResponse{
		Availabilities: converter.AvailabilitiesToResponses(rules),
		Total:          len(rules),
	}, nil
}
