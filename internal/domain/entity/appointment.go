package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// UniqDoctorSlotConstraint is the partial unique index guaranteeing that
// no two non-cancelled appointments share (doctor_id, date, start_time).
// It is the final arbiter under concurrent booking; the application-level
// conflict query is only a fast pre-flight.
const UniqDoctorSlotConstraint = "uniq_doctor_date_start"

// Appointment is a booked slot between a patient and a doctor. EndTime is
// always derived from the doctor's slot duration at booking time and is
// never accepted from the caller.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date      time.Time         `gorm:"type:date;not null" json:"date"`
	StartTime string            `gorm:"type:varchar(5);not null" json:"start_time"` // "HH:MM"
	EndTime   string            `gorm:"type:varchar(5);not null" json:"end_time"`   // "HH:MM"
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Reason    string            `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled reports whether the appointment left the uniqueness scope.
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// InvolvedWith reports whether the given user is the patient or the
// doctor on this appointment.
func (a *Appointment) InvolvedWith(userID uuid.UUID) bool {
	return a.PatientID == userID || a.DoctorID == userID
}
