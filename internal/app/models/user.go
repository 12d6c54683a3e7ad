package models

import (
	"time"
)

// RoleType defines the user role type. Accounts start unallocated and are
// promoted exactly once by an instructor.
type RoleType string

const (
	RoleUnallocated RoleType = "unallocated"
	RoleStudent     RoleType = "student"
	RoleInstructor  RoleType = "instructor"
)

// Valid reports whether the role is one of the closed set.
func (r RoleType) Valid() bool {
	switch r {
	case RoleUnallocated, RoleStudent, RoleInstructor:
		return true
	}
	return false
}

// Allocated reports whether the role has left the unallocated state.
func (r RoleType) Allocated() bool {
	return r == RoleStudent || r == RoleInstructor
}

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Name      string    `json:"name" db:"name" example:"Jane Doe"`                        // User's display name
	Email     string    `json:"email" db:"email" example:"jane@academix.com"`             // User's email address
	Password  string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	Role      RoleType  `json:"role" db:"role" example:"unallocated"`                     // User's role (unallocated, student or instructor)
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}
