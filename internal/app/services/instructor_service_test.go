package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/academix/portal/internal/app/auth"
	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/pkg/apperrors"
)

type fakeProfileStore struct {
	profiles map[int64]*models.Instructor // keyed by user ID
}

func (f *fakeProfileStore) GetInstructorByUserID(ctx context.Context, userID int64) (*models.Instructor, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.ErrInstructorNotFound
	}
	return profile, nil
}

type fakeLinkStore struct {
	links   map[int64][]*models.InstructorCourse  // keyed by instructor ID
	rosters map[int64][]*models.StudentEnrollment // keyed by course ID
}

func (f *fakeLinkStore) GetInstructorCourses(ctx context.Context, instructorID int64) ([]*models.InstructorCourse, error) {
	return f.links[instructorID], nil
}

func (f *fakeLinkStore) GetStudentsByCourse(ctx context.Context, courseID int64) ([]*models.StudentEnrollment, error) {
	return f.rosters[courseID], nil
}

type fakeAssessmentReader struct {
	byKind map[models.AssessmentKind][]*models.Assessment
}

func (f *fakeAssessmentReader) GetByInstructor(ctx context.Context, instructorID int64, kind models.AssessmentKind) ([]*models.Assessment, error) {
	if items, ok := f.byKind[kind]; ok {
		return items, nil
	}
	return []*models.Assessment{}, nil
}

type fakeNotificationReader struct {
	sent     []*models.Notification
	received []*models.Notification
}

func (f *fakeNotificationReader) GetBySender(ctx context.Context, senderID int64) ([]*models.Notification, error) {
	return f.sent, nil
}

func (f *fakeNotificationReader) GetByRecipient(ctx context.Context, recipientID int64) ([]*models.Notification, error) {
	return f.received, nil
}

type fakeClaimReader struct {
	claims []*models.Claim
}

func (f *fakeClaimReader) GetByRecipient(ctx context.Context, instructorID int64) ([]*models.Claim, error) {
	return f.claims, nil
}

func newInstructorServiceForTest(store *fakeEnrollmentStore, profiles *fakeProfileStore, links *fakeLinkStore, assessments *fakeAssessmentReader, notifications *fakeNotificationReader, claims *fakeClaimReader) InstructorService {
	if assessments == nil {
		assessments = &fakeAssessmentReader{}
	}
	if notifications == nil {
		notifications = &fakeNotificationReader{}
	}
	if claims == nil {
		claims = &fakeClaimReader{}
	}
	return NewInstructorService(appauth.NewAuthorizationService(store), profiles, links, assessments, notifications, claims)
}

func TestGetConcernsRequiresInstructor(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleStudent)
	service := newInstructorServiceForTest(store, &fakeProfileStore{}, &fakeLinkStore{}, nil, nil, nil)

	_, err := service.GetConcerns(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetConcernsEmptyDashboardWithoutCourseLinks(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	profiles := &fakeProfileStore{profiles: map[int64]*models.Instructor{
		1: {ID: 10, UserID: 1},
	}}
	links := &fakeLinkStore{links: map[int64][]*models.InstructorCourse{}}
	service := newInstructorServiceForTest(store, profiles, links, nil, nil, nil)

	concerns, err := service.GetConcerns(context.Background(), 1)
	require.NoError(t, err)

	// Every field is an empty list, never nil
	assert.NotNil(t, concerns.MyStudents)
	assert.NotNil(t, concerns.Exams)
	assert.NotNil(t, concerns.Quiz)
	assert.NotNil(t, concerns.ReceivedNotifications)
	assert.NotNil(t, concerns.SentNotifications)
	assert.NotNil(t, concerns.Claims)
	assert.NotNil(t, concerns.Courses)
	assert.Empty(t, concerns.MyStudents)
	assert.Empty(t, concerns.Courses)
}

func TestGetConcernsAggregatesAcrossCourses(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	profiles := &fakeProfileStore{profiles: map[int64]*models.Instructor{
		1: {ID: 10, UserID: 1},
	}}

	now := time.Now()
	enrollA := &models.StudentEnrollment{ID: 101, UserID: 5, CourseID: 7, CreatedAt: now.Add(-time.Hour)}
	enrollB := &models.StudentEnrollment{ID: 102, UserID: 6, CourseID: 8, CreatedAt: now.Add(-2 * time.Hour)}
	links := &fakeLinkStore{
		links: map[int64][]*models.InstructorCourse{
			10: {
				{ID: 1, InstructorID: 10, CourseID: 7, Course: &models.Course{ID: 7, Code: "MTH101"}},
				{ID: 2, InstructorID: 10, CourseID: 8, Course: &models.Course{ID: 8, Code: "PHY201"}},
			},
		},
		rosters: map[int64][]*models.StudentEnrollment{
			7: {enrollA},
			8: {enrollB, enrollA}, // overlapping row must not be duplicated
		},
	}
	assessments := &fakeAssessmentReader{byKind: map[models.AssessmentKind][]*models.Assessment{
		models.AssessmentExam: {{ID: 1, Kind: models.AssessmentExam}},
		models.AssessmentQuiz: {{ID: 2, Kind: models.AssessmentQuiz}, {ID: 3, Kind: models.AssessmentQuiz}},
	}}
	notifications := &fakeNotificationReader{
		sent:     []*models.Notification{{ID: 1}},
		received: []*models.Notification{{ID: 2}, {ID: 3}},
	}
	claims := &fakeClaimReader{claims: []*models.Claim{{ID: 4, RecipientID: 10}}}

	service := newInstructorServiceForTest(store, profiles, links, assessments, notifications, claims)

	concerns, err := service.GetConcerns(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, concerns.MyStudents, 2)
	// Oldest enrollment first
	assert.Equal(t, int64(102), concerns.MyStudents[0].ID)
	assert.Equal(t, int64(101), concerns.MyStudents[1].ID)

	assert.Len(t, concerns.Courses, 2)
	assert.Len(t, concerns.Exams, 1)
	assert.Len(t, concerns.Quiz, 2)
	assert.Len(t, concerns.SentNotifications, 1)
	assert.Len(t, concerns.ReceivedNotifications, 2)
	assert.Len(t, concerns.Claims, 1)
}

func TestGetConcernsMissingProfile(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	service := newInstructorServiceForTest(store, &fakeProfileStore{}, &fakeLinkStore{}, nil, nil, nil)

	_, err := service.GetConcerns(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrInstructorNotFound)
}
