package models

import "time"

// AssessmentKind distinguishes exams from quizzes.
type AssessmentKind string

const (
	AssessmentExam AssessmentKind = "exam"
	AssessmentQuiz AssessmentKind = "quiz"
)

// Assessment is an exam or quiz owned by an instructor, based on the
// 'assessments' table.
type Assessment struct {
	ID           int64          `json:"id" db:"id"`
	InstructorID int64          `json:"instructorId" db:"instructor_id"`
	Kind         AssessmentKind `json:"kind" db:"kind" example:"exam"`
	Title        string         `json:"title" db:"title"`
	Description  string         `json:"description" db:"description"`
	Written      string         `json:"written" db:"written"`
	Attachment   *string        `json:"attachment,omitempty" db:"attachment"` // Nullable
	DueDate      time.Time      `json:"dueDate" db:"due_date"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
}
