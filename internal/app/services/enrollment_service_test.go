package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/academix/portal/internal/app/auth"
	"github.com/academix/portal/internal/app/dispatch"
	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/pkg/apperrors"
	"github.com/academix/portal/internal/pkg/email"
)

type fakeEnrollmentStore struct {
	mu sync.Mutex

	users         map[int64]*models.User
	courses       map[int64]*models.Course
	coursesByCode map[string]int64
	instructorIDs map[int64]int64 // user ID -> instructor profile ID
	links         map[string]bool
	enrollments   map[string]int64
	notifications []string

	nextID int64

	// failures counts down: each positive value makes the next transaction
	// fail with a unique violation before committing anything.
	failures int
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{
		users:         make(map[int64]*models.User),
		courses:       make(map[int64]*models.Course),
		coursesByCode: make(map[string]int64),
		instructorIDs: make(map[int64]int64),
		links:         make(map[string]bool),
		enrollments:   make(map[string]int64),
		nextID:        100,
	}
}

func (s *fakeEnrollmentStore) addUser(id int64, role models.RoleType) *models.User {
	user := &models.User{
		ID:    id,
		Name:  fmt.Sprintf("User %d", id),
		Email: fmt.Sprintf("user%d@academix.com", id),
		Role:  role,
	}
	s.users[id] = user
	return user
}

func (s *fakeEnrollmentStore) addCourse(id int64, code, name string) *models.Course {
	course := &models.Course{ID: id, Code: code, Name: name}
	s.courses[id] = course
	s.coursesByCode[code] = id
	return course
}

func (s *fakeEnrollmentStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeEnrollmentStore) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (s *fakeEnrollmentStore) InTransaction(ctx context.Context, fn func(ctx context.Context, tx EnrollmentTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return &pgconn.PgError{Code: "23505", ConstraintName: "courses_code_key"}
	}
	return fn(ctx, &fakeEnrollmentTx{store: s})
}

type fakeEnrollmentTx struct {
	store *fakeEnrollmentStore
}

func (t *fakeEnrollmentTx) AssignRole(ctx context.Context, userID int64, role models.RoleType) (bool, error) {
	user, ok := t.store.users[userID]
	if !ok || user.Role != models.RoleUnallocated {
		return false, nil
	}
	user.Role = role
	return true, nil
}

func (t *fakeEnrollmentTx) EnsureInstructor(ctx context.Context, userID int64) (int64, error) {
	if id, ok := t.store.instructorIDs[userID]; ok {
		return id, nil
	}
	t.store.nextID++
	t.store.instructorIDs[userID] = t.store.nextID
	return t.store.nextID, nil
}

func (t *fakeEnrollmentTx) UpsertCourseByCode(ctx context.Context, code, name string) (int64, error) {
	if id, ok := t.store.coursesByCode[code]; ok {
		return id, nil
	}
	t.store.nextID++
	t.store.courses[t.store.nextID] = &models.Course{ID: t.store.nextID, Code: code, Name: name}
	t.store.coursesByCode[code] = t.store.nextID
	return t.store.nextID, nil
}

func (t *fakeEnrollmentTx) LinkInstructorCourse(ctx context.Context, instructorID, courseID int64) error {
	t.store.links[fmt.Sprintf("%d:%d", instructorID, courseID)] = true
	return nil
}

func (t *fakeEnrollmentTx) CreateStudentEnrollment(ctx context.Context, userID, courseID int64) (int64, error) {
	key := fmt.Sprintf("%d:%d", userID, courseID)
	if id, ok := t.store.enrollments[key]; ok {
		return id, apperrors.ErrConflict
	}
	t.store.nextID++
	t.store.enrollments[key] = t.store.nextID
	return t.store.nextID, nil
}

func (t *fakeEnrollmentTx) CreateNotification(ctx context.Context, senderID, recipientID int64, description string) error {
	t.store.notifications = append(t.store.notifications, description)
	return nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	jobs   []dispatch.Job
	reject bool
}

func (d *fakeDispatcher) Enqueue(job dispatch.Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.reject {
		return false
	}
	d.jobs = append(d.jobs, job)
	return true
}

func (d *fakeDispatcher) sent() []dispatch.Job {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dispatch.Job(nil), d.jobs...)
}

func newEnrollmentServiceForTest(store *fakeEnrollmentStore, dispatcher *fakeDispatcher) EnrollmentService {
	authz := appauth.NewAuthorizationService(store)
	return NewEnrollmentService(store, authz, dispatcher, "http://localhost:3000", zerolog.Nop())
}

func TestEnrollInstructorPromotesUnallocatedAccount(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	target := store.addUser(2, models.RoleUnallocated)
	dispatcher := &fakeDispatcher{}
	service := newEnrollmentServiceForTest(store, dispatcher)

	result, err := service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "MTH101")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Message, target.Name)

	assert.Equal(t, models.RoleInstructor, store.users[2].Role)
	assert.Len(t, store.instructorIDs, 1)
	assert.Len(t, store.coursesByCode, 1)
	assert.Len(t, store.links, 1)
	assert.Len(t, store.notifications, 1)

	jobs := dispatcher.sent()
	require.Len(t, jobs, 1)
	assert.Equal(t, target.Email, jobs[0].To)
	assert.Equal(t, email.ApprovalSubject, jobs[0].Subject)
	assert.Contains(t, jobs[0].Body, "Mathematics")
	assert.Contains(t, jobs[0].Body, "MTH101")
	assert.Contains(t, jobs[0].Body, "instructor")
}

func TestEnrollInstructorAlreadyAllocatedIsNoOp(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleStudent)
	dispatcher := &fakeDispatcher{}
	service := newEnrollmentServiceForTest(store, dispatcher)

	result, err := service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "MTH101")
	require.NoError(t, err)
	assert.Equal(t, MessageAlreadyAllocated, result.Message)

	assert.Equal(t, models.RoleStudent, store.users[2].Role)
	assert.Empty(t, store.links)
	assert.Empty(t, dispatcher.sent())
}

func TestEnrollInstructorRequiresInstructorCaller(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleStudent)
	store.addUser(2, models.RoleUnallocated)
	service := newEnrollmentServiceForTest(store, &fakeDispatcher{})

	_, err := service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "MTH101")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// An unknown caller looks no different from an unauthorized one
	_, err = service.EnrollInstructor(context.Background(), 99, 2, "Mathematics", "MTH101")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEnrollInstructorTargetNotFound(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	service := newEnrollmentServiceForTest(store, &fakeDispatcher{})

	_, err := service.EnrollInstructor(context.Background(), 1, 42, "Mathematics", "MTH101")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestEnrollInstructorRejectsBlankCourse(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleUnallocated)
	service := newEnrollmentServiceForTest(store, &fakeDispatcher{})

	_, err := service.EnrollInstructor(context.Background(), 1, 2, "  ", "MTH101")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestEnrollInstructorReusesExistingCourseCode(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleUnallocated)
	store.addUser(3, models.RoleUnallocated)
	dispatcher := &fakeDispatcher{}
	service := newEnrollmentServiceForTest(store, dispatcher)

	_, err := service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "MTH101")
	require.NoError(t, err)
	_, err = service.EnrollInstructor(context.Background(), 1, 3, "Mathematics Renamed", "MTH101")
	require.NoError(t, err)

	// One course row, two teaching links
	assert.Len(t, store.coursesByCode, 1)
	assert.Len(t, store.links, 2)
	assert.Len(t, dispatcher.sent(), 2)
}

func TestEnrollInstructorRetriesOnceOnUniqueViolation(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleUnallocated)
	store.failures = 1
	dispatcher := &fakeDispatcher{}
	service := newEnrollmentServiceForTest(store, dispatcher)

	result, err := service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "MTH101")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, models.RoleInstructor, store.users[2].Role)
	assert.Len(t, dispatcher.sent(), 1)
}

func TestEnrollInstructorConflictAfterRepeatedRaces(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleUnallocated)
	store.failures = 2
	service := newEnrollmentServiceForTest(store, &fakeDispatcher{})

	_, err := service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "MTH101")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEnrollInstructorConcurrentCallsAssignExactlyOnce(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleUnallocated)
	dispatcher := &fakeDispatcher{}
	service := newEnrollmentServiceForTest(store, dispatcher)

	const workers = 16
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "MTH101")
			if err != nil {
				results <- err.Error()
				return
			}
			results <- result.Message
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for msg := range results {
		if strings.Contains(msg, "Approval email scheduled") {
			winners++
		} else {
			assert.Equal(t, MessageAlreadyAllocated, msg)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, models.RoleInstructor, store.users[2].Role)
	assert.Len(t, store.notifications, 1)
	assert.Len(t, dispatcher.sent(), 1)
}

func TestEnrollStudentPromotesAndEnrolls(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	target := store.addUser(2, models.RoleUnallocated)
	store.addCourse(7, "PHY201", "Physics")
	dispatcher := &fakeDispatcher{}
	service := newEnrollmentServiceForTest(store, dispatcher)

	result, err := service.EnrollStudent(context.Background(), 1, 2, 7)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, models.RoleStudent, store.users[2].Role)
	assert.Len(t, store.enrollments, 1)
	assert.Len(t, store.notifications, 1)

	jobs := dispatcher.sent()
	require.Len(t, jobs, 1)
	assert.Equal(t, target.Email, jobs[0].To)
	assert.Equal(t, email.ApprovalSubject, jobs[0].Subject)
	assert.Contains(t, jobs[0].Body, "Physics")
	assert.Contains(t, jobs[0].Body, "student")
}

func TestEnrollStudentUnknownCourse(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleUnallocated)
	service := newEnrollmentServiceForTest(store, &fakeDispatcher{})

	_, err := service.EnrollStudent(context.Background(), 1, 2, 99)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.Equal(t, models.RoleUnallocated, store.users[2].Role)
}

func TestEnrollStudentAlreadyAllocatedIsNoOp(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleInstructor)
	store.addCourse(7, "PHY201", "Physics")
	dispatcher := &fakeDispatcher{}
	service := newEnrollmentServiceForTest(store, dispatcher)

	result, err := service.EnrollStudent(context.Background(), 1, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, MessageAlreadyAllocated, result.Message)
	assert.Empty(t, store.enrollments)
	assert.Empty(t, dispatcher.sent())
}

func TestEnrollmentSucceedsWhenDispatcherRejects(t *testing.T) {
	store := newFakeEnrollmentStore()
	store.addUser(1, models.RoleInstructor)
	store.addUser(2, models.RoleUnallocated)
	dispatcher := &fakeDispatcher{reject: true}
	service := newEnrollmentServiceForTest(store, dispatcher)

	result, err := service.EnrollInstructor(context.Background(), 1, 2, "Mathematics", "MTH101")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, models.RoleInstructor, store.users[2].Role)
}
