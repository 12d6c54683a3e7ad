package dto

import "github.com/academix/portal/internal/app/models"

// InstructorConcerns aggregates everything an instructor's dashboard shows.
// Every slice is non-nil: an instructor with no course links gets empty
// lists, never null fields.
type InstructorConcerns struct {
	MyStudents            []*models.StudentEnrollment `json:"myStudents"`
	Exams                 []*models.Assessment        `json:"exams"`
	Quiz                  []*models.Assessment        `json:"quiz"`
	ReceivedNotifications []*models.Notification      `json:"receivedNotifications"`
	SentNotifications     []*models.Notification      `json:"sentNotifications"`
	Claims                []*models.Claim             `json:"claims"`
	Courses               []*models.InstructorCourse  `json:"courses"`
}

// NewInstructorConcerns returns an empty-but-defined dashboard
func NewInstructorConcerns() *InstructorConcerns {
	return &InstructorConcerns{
		MyStudents:            []*models.StudentEnrollment{},
		Exams:                 []*models.Assessment{},
		Quiz:                  []*models.Assessment{},
		ReceivedNotifications: []*models.Notification{},
		SentNotifications:     []*models.Notification{},
		Claims:                []*models.Claim{},
		Courses:               []*models.InstructorCourse{},
	}
}

// CreateAssessmentRequest is the payload for creating an exam or quiz
type CreateAssessmentRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=exam quiz" example:"exam"`
	Title       string `json:"title" binding:"required" example:"Midterm"`
	Description string `json:"description" binding:"required"`
	Written     string `json:"written" binding:"required"`
	Attachment  string `json:"attachment"`
	DueDate     string `json:"dueDate" binding:"required" example:"2025-06-01T09:00:00Z"`
}

// CreateClaimRequest is the payload for a student raising a claim to an
// instructor profile.
type CreateClaimRequest struct {
	RecipientID int64  `json:"recipientId" binding:"required" example:"3"`
	Description string `json:"description" binding:"required"`
}
