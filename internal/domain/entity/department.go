package entity

import (
	"time"

	"github.com/google/uuid"
)

// Department groups doctors into medical units.
type Department struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Assignments []DoctorDepartment `gorm:"foreignKey:DepartmentID" json:"assignments,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}

// DoctorDepartment links a doctor account to a department.
type DoctorDepartment struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_doctor_department" json:"doctor_id"`
	DepartmentID int       `gorm:"not null;uniqueIndex:uniq_doctor_department" json:"department_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor     User       `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (DoctorDepartment) TableName() string {
	return "doctor_departments"
}
