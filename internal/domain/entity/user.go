package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role names. A user's role is fixed at creation; there is no
// role-escalation flow.
const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleMember = "member"
)

// User represents any account in the system (admin, doctor or member).
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Role      string    `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Availabilities []DoctorAvailability `gorm:"foreignKey:DoctorID" json:"availabilities,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsDoctor reports whether the account can own availability rules.
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
