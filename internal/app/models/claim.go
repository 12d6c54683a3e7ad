package models

// Claim is a request raised by a student enrollment and addressed to an
// instructor profile. RecipientID references instructors.id, not users.id.
type Claim struct {
	ID          int64  `json:"id" db:"id"`
	ClaimerID   int64  `json:"claimerId" db:"claimer_id"`     // references students.id
	RecipientID int64  `json:"recipientId" db:"recipient_id"` // references instructors.id
	Description string `json:"description" db:"description"`
	Resolved    bool   `json:"resolved" db:"resolved"`
}
