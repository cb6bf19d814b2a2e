package converter

import (
	"clinic-scheduling-api/internal/delivery/dto"
	"clinic-scheduling-api/internal/domain/entity"
)

// AvailabilityToResponse converts a DoctorAvailability entity to its DTO
func AvailabilityToResponse(rule *entity.DoctorAvailability) *dto.AvailabilityResponse {
	if rule == nil {
		return nil
	}

	return &dto.AvailabilityResponse{
		ID:                  rule.ID,
		DoctorID:            rule.DoctorID,
		DayOfWeek:           rule.DayOfWeek,
		DayName:             entity.DayName(rule.DayOfWeek),
		StartTime:           rule.StartTime,
		EndTime:             rule.EndTime,
		SlotDurationMinutes: rule.SlotDurationMinutes,
		IsActive:            rule.IsActive,
		CreatedAt:           rule.CreatedAt,
		UpdatedAt:           rule.UpdatedAt,
	}
}

// AvailabilitiesToResponses converts a slice of DoctorAvailability entities to DTOs
func AvailabilitiesToResponses(rules []entity.DoctorAvailability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(rules))
	for i, rule := range rules {
		responses[i] = *AvailabilityToResponse(&rule)
	}
	return responses
}
