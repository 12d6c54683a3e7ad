package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderApprovalBodyWithCourse(t *testing.T) {
	body := RenderApprovalBody(ApprovalMessage{
		Name:       "Jane Doe",
		Role:       "instructor",
		UserID:     42,
		CourseName: "Mathematics",
		CourseCode: "MTH101",
		BaseURL:    "https://portal.academix.com",
	})

	assert.Contains(t, body, "Hello Jane Doe")
	assert.Contains(t, body, "instructor account has been approved")
	assert.Contains(t, body, "Mathematics")
	assert.Contains(t, body, "MTH101")
	assert.Contains(t, body, "https://portal.academix.com/portal/instructor/id/42")
}

func TestRenderApprovalBodyWithoutCourse(t *testing.T) {
	body := RenderApprovalBody(ApprovalMessage{
		Name:    "John Roe",
		Role:    "student",
		UserID:  7,
		BaseURL: "http://localhost:3000",
	})

	assert.NotContains(t, body, "Your Assigned Course")
	assert.Contains(t, body, "http://localhost:3000/portal/student/id/7")
}

func TestApprovalSubject(t *testing.T) {
	assert.Equal(t, "Your Academix Account is Approved", ApprovalSubject)
}
