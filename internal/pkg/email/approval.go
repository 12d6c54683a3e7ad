package email

import "fmt"

// ApprovalSubject is the subject line for role-allocation approval emails.
const ApprovalSubject = "Your Academix Account is Approved"

// ApprovalMessage holds everything needed to render an approval email for a
// freshly allocated account.
type ApprovalMessage struct {
	Name       string
	Role       string // "student" or "instructor"
	UserID     int64
	CourseName string // empty for allocations without a named course
	CourseCode string
	BaseURL    string
}

// RenderApprovalBody renders the HTML body for an account-approval email.
func RenderApprovalBody(msg ApprovalMessage) string {
	courseBlock := ""
	if msg.CourseName != "" {
		courseBlock = fmt.Sprintf(`
				<div style="background-color: #F0FDF4; border: 1px solid #BBF7D0; border-radius: 6px; padding: 20px; margin: 20px 0;">
					<h3 style="margin: 0 0 10px; font-size: 18px; color: #065F46;">Your Assigned Course</h3>
					<p style="margin: 0 0 5px; font-size: 16px; color: #111827; font-weight: 500;">Course: <strong>%s</strong></p>
					<p style="margin: 0; font-size: 16px; color: #111827; font-weight: 500;">Code: <strong>%s</strong></p>
				</div>`, msg.CourseName, msg.CourseCode)
	}

	dashboardURL := fmt.Sprintf("%s/portal/%s/id/%d", msg.BaseURL, msg.Role, msg.UserID)

	return fmt.Sprintf(`
		<html>
		<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #F9FAFB; color: #111827;">
			<div style="max-width: 600px; margin: 0 auto; background-color: #FFFFFF; border-radius: 8px; overflow: hidden;">
				<div style="padding: 40px 30px 20px; text-align: center; background-color: #3B82F6; color: #FFFFFF;">
					<h1 style="margin: 0; font-size: 24px; font-weight: 600;">Welcome to Academix!</h1>
				</div>
				<div style="padding: 30px;">
					<h2 style="margin: 0 0 20px; font-size: 20px; color: #111827;">Hello %s,</h2>
					<p style="margin: 0 0 20px; font-size: 16px; color: #6B7280;">
						Your Academix %s account has been approved. We're excited to have you on board!
					</p>%s
					<p style="margin: 0 0 30px; font-size: 16px; color: #6B7280;">
						Get started by accessing your personalized dashboard.
					</p>
					<div style="text-align: center;">
						<a href="%s" style="display: inline-block; padding: 14px 28px; font-size: 16px; font-weight: 600; color: #FFFFFF; background-color: #3B82F6; text-decoration: none; border-radius: 6px;">Go to Dashboard</a>
					</div>
				</div>
				<div style="padding: 20px 30px; text-align: center; background-color: #F9FAFB; border-top: 1px solid #E5E7EB;">
					<p style="margin: 0; font-size: 14px; color: #6B7280;">Questions? Reply to this email or contact support@academix.com</p>
				</div>
			</div>
		</body>
		</html>`, msg.Name, msg.Role, courseBlock, dashboardURL)
}
