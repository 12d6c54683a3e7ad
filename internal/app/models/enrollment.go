package models

import "time"

// InstructorCourse links an instructor profile to a course they teach.
// A given (instructor, course) pair exists at most once.
type InstructorCourse struct {
	ID           int64 `json:"id" db:"id"`
	InstructorID int64 `json:"instructorId" db:"instructor_id"`
	CourseID     int64 `json:"courseId" db:"course_id"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}

// StudentEnrollment represents a student's membership in a course, based on
// the 'students' table. A user may hold enrollments in multiple courses.
type StudentEnrollment struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	User   *User   `json:"user,omitempty"`
	Course *Course `json:"course,omitempty"`
}
