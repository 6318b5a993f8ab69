package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleGuard UserRole = "guard"
	UserRoleBpso  UserRole = "bpso"
	UserRoleAdmin UserRole = "admin"
)

// Principal is the authenticated actor carried through every request.
// Unrecognized roles still authenticate; routing on role is a client concern.
type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) Identified() bool {
	return p.UserID != uuid.Nil
}

func (p Principal) IsGuard() bool {
	return p.Role == UserRoleGuard
}

func (p Principal) IsBpso() bool {
	return p.Role == UserRoleBpso
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}
