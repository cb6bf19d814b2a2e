package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SetAvailabilityRequest struct {
	DayOfWeek           *int   `json:"day_of_week" validate:"required,gte=0,lte=6"` // 0=Monday .. 6=Sunday
	StartTime           string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime             string `json:"end_time" validate:"required,datetime=15:04"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" validate:"required,gte=15,lte=60"`
	IsActive            *bool  `json:"is_active"`
}

// Response DTOs

type AvailabilityResponse struct {
	ID                  int       `json:"id"`
	DoctorID            uuid.UUID `json:"doctor_id"`
	DayOfWeek           int       `json:"day_of_week"`
	DayName             string    `json:"day_name"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type AvailabilityListResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
	Total          int                    `json:"total"`
}
