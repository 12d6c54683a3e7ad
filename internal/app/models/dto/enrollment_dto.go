package dto

// EnrollInstructorRequest is the payload for promoting an unallocated account
// to instructor and assigning it a course.
type EnrollInstructorRequest struct {
	EnrolleeID int64  `json:"enrolleeId" binding:"required" example:"42"`
	CourseName string `json:"courseName" binding:"required" example:"Mathematics"`
	CourseCode string `json:"courseCode" binding:"required" example:"MTH101"`
}

// EnrollStudentRequest is the payload for promoting an unallocated account to
// student. The course is explicit: an enrollment row always names the course
// the student joins.
type EnrollStudentRequest struct {
	StudentID int64 `json:"studentId" binding:"required" example:"43"`
	CourseID  int64 `json:"courseId" binding:"required" example:"7"`
}

// EnrollmentResult reports the outcome of a role assignment
type EnrollmentResult struct {
	Success bool   `json:"success"`
	Message string `json:"message" example:"Approval email scheduled for Jane Doe"`
}
