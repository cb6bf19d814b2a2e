package entity

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation: an identity plus the
// role it was issued with. Authorization decisions dispatch on the role
// value instead of comparing raw claim strings at call sites.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }
func (a Actor) IsDoctor() bool { return a.Role == RoleDoctor }
func (a Actor) IsMember() bool { return a.Role == RoleMember }
