package entity

import (
	"time"

	"github.com/google/uuid"
)

// Day-of-week values for availability rules. 0=Monday .. 6=Sunday,
// which differs from time.Weekday (0=Sunday).
const (
	DayMonday = 0
	DaySunday = 6
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName returns the display name for a 0=Monday day index, or "" when
// the index is out of range.
func DayName(day int) string {
	if day < DayMonday || day > DaySunday {
		return ""
	}
	return dayNames[day]
}

// MondayIndexedWeekday converts a time.Weekday (0=Sunday) to the
// 0=Monday indexing used by availability rules.
func MondayIndexedWeekday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// DoctorAvailability is a doctor's recurring weekly working window for a
// single day. At most one row exists per (doctor, day_of_week); setting
// the same day again overwrites the row in place.
type DoctorAvailability struct {
	ID                  int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_doctor_day" json:"doctor_id"`
	DayOfWeek           int       `gorm:"not null;uniqueIndex:uniq_doctor_day" json:"day_of_week"`
	StartTime           string    `gorm:"type:varchar(5);not null" json:"start_time"` // "HH:MM"
	EndTime             string    `gorm:"type:varchar(5);not null" json:"end_time"`   // "HH:MM"
	SlotDurationMinutes int       `gorm:"not null;default:30" json:"slot_duration_minutes"`
	IsActive            bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availabilities"
}
