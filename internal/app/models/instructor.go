package models

// Instructor defines the instructor profile based on the 'instructors' table.
// Created lazily the first time a user is assigned the instructor role.
type Instructor struct {
	ID         int64   `json:"id" db:"id" example:"1"`                            // Unique identifier for the instructor record
	UserID     int64   `json:"userId" db:"user_id" example:"5"`                   // ID of the associated user account
	Department *string `json:"department,omitempty" db:"department"`              // Department the instructor belongs to (nullable)
	Bio        *string `json:"bio,omitempty" db:"bio" example:"Teaches calculus"` // Short biography (nullable)

	// Relations (populated when needed)
	User *User `json:"user,omitempty"` // Associated user information
}
