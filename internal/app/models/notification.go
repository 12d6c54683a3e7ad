package models

import "time"

// Notification records an in-portal message between two users. Role
// allocations write one of these alongside sending the approval email.
type Notification struct {
	ID          int64     `json:"id" db:"id"`
	SenderID    int64     `json:"senderId" db:"sender_id"`
	RecipientID int64     `json:"recipientId" db:"recipient_id"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
