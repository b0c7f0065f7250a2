package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a user in the planning workflow
type UserRole string

const (
	RoleConsultant UserRole = "consultant"
	RoleAgency     UserRole = "agency"
	RoleClient     UserRole = "client"
)

// ParseRole validates a raw role string against the closed role set.
// Any string outside the set is invalid; there is no default role.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleConsultant, RoleAgency, RoleClient:
		return UserRole(s), true
	}
	return "", false
}

// HomePath returns the dashboard path for the role
func (r UserRole) HomePath() string {
	return "/" + string(r)
}

// Valid returns true if the role is part of the closed role set
func (r UserRole) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// User represents a user profile mapping an identity-provider subject to a role.
// The identity provider owns the identity (subject id + email); this record is
// created asynchronously after signup, so a subject may briefly have no row.
type User struct {
	ID              string      `json:"id" db:"id"` // identity-provider subject id
	Email           string      `json:"email" db:"email"`
	Role            UserRole    `json:"role" db:"role"`
	AssignedClients []uuid.UUID `json:"assigned_clients,omitempty" db:"assigned_clients"` // agency users
	ClientID        *uuid.UUID  `json:"client_id,omitempty" db:"client_id"`               // client users
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(subjectID, email string, role UserRole) *User {
	now := time.Now()
	return &User{
		ID:        subjectID,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanAccessClient reports whether the user may act on the given client.
// Consultants see every client, agencies their assignments, clients themselves.
func (u *User) CanAccessClient(clientID uuid.UUID) bool {
	switch u.Role {
	case RoleConsultant:
		return true
	case RoleAgency:
		for _, id := range u.AssignedClients {
			if id == clientID {
				return true
			}
		}
		return false
	case RoleClient:
		return u.ClientID != nil && *u.ClientID == clientID
	}
	return false
}
