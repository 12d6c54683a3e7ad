package models

import "time"

// Course represents an entry in the course registry. The code is a natural
// key: creating a course with an existing code reuses the existing row.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code" example:"MTH101"`
	Name        string    `json:"name" db:"name" example:"Mathematics"`
	Description *string   `json:"description,omitempty" db:"description"` // Nullable
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
