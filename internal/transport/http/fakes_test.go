package http

import (
	"context"
	"fmt"
	"time"

	"github.com/learnhub/backend/internal/domain"
)

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	byUsername map[string]*domain.User
	teachers   map[int64]bool
	students   map[int64]bool
	lastLogin  map[int64]time.Time
	nextID     int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byUsername: make(map[string]*domain.User),
		teachers:   make(map[int64]bool),
		students:   make(map[int64]bool),
		lastLogin:  make(map[int64]time.Time),
	}
}

func (f *fakeUsers) add(user *domain.User) {
	f.byUsername[user.Username] = user
}

func (f *fakeUsers) CreateUser(username, email, passwordHash, firstName, lastName string) (int64, error) {
	if _, exists := f.byUsername[username]; exists {
		return 0, domain.ErrDuplicate
	}
	f.nextID++
	f.byUsername[username] = &domain.User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	return f.nextID, nil
}

func (f *fakeUsers) GetUserByUsername(username string) (*domain.User, error) {
	user, ok := f.byUsername[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) UpdateLastLogin(userID int64, t time.Time) error {
	f.lastLogin[userID] = t
	return nil
}

func (f *fakeUsers) MakeTeacher(userID int64) error {
	f.teachers[userID] = true
	return nil
}

func (f *fakeUsers) MakeStudent(userID int64) error {
	f.students[userID] = true
	return nil
}

func (f *fakeUsers) IsTeacher(userID int64) (bool, error) {
	return f.teachers[userID], nil
}

// fakeSessions is an in-memory SessionMediator.
type fakeSessions struct {
	sessions     map[string]*domain.Session
	users        map[string]*domain.User // keyed by token
	byUser       map[int64]*domain.Session
	expiry       time.Time
	refreshes    int
	stickyDelete bool
}

func newFakeSessions(expiry time.Time) *fakeSessions {
	return &fakeSessions{
		sessions: make(map[string]*domain.Session),
		users:    make(map[string]*domain.User),
		byUser:   make(map[int64]*domain.Session),
		expiry:   expiry,
	}
}

func (f *fakeSessions) seed(token string, user *domain.User) *domain.Session {
	session := &domain.Session{Token: token, ExpiresAt: f.expiry}
	f.sessions[token] = session
	f.users[token] = user
	if user != nil {
		f.byUser[user.ID] = session
	}
	return session
}

func (f *fakeSessions) ObtainSession(userID int64) (*domain.Session, error) {
	if session, ok := f.byUser[userID]; ok {
		return session, nil
	}
	session := &domain.Session{
		Token:     fmt.Sprintf("token-%d", userID),
		ExpiresAt: f.expiry,
	}
	f.sessions[session.Token] = session
	f.byUser[userID] = session
	return session, nil
}

func (f *fakeSessions) RefreshExpiry(session *domain.Session) error {
	f.refreshes++
	return nil
}

func (f *fakeSessions) Validate(token string) (*domain.User, *domain.Session, error) {
	user, ok := f.users[token]
	if !ok || user == nil {
		return nil, nil, domain.ErrUnauthorized
	}
	return user, f.sessions[token], nil
}

func (f *fakeSessions) Terminate(token string) error {
	if _, ok := f.sessions[token]; !ok {
		return domain.ErrNotFound
	}
	if f.stickyDelete {
		return domain.ErrTerminationFailed
	}
	delete(f.sessions, token)
	delete(f.users, token)
	return nil
}

func (f *fakeSessions) UserByToken(token string) (*domain.User, error) {
	user, ok := f.users[token]
	if !ok || user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// fakeCourses is an in-memory CourseStore.
type fakeCourses struct {
	courses  map[int64]*domain.Course
	taughtBy map[int64][]domain.Course // user ID → courses
	teachers map[int64][]string        // course ID → names
	videos   map[int64][]domain.CourseVideo
	comments map[int64][]domain.CourseComment
	ratings  map[int64][]int
	nextID   int64
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{
		courses:  make(map[int64]*domain.Course),
		taughtBy: make(map[int64][]domain.Course),
		teachers: make(map[int64][]string),
		videos:   make(map[int64][]domain.CourseVideo),
		comments: make(map[int64][]domain.CourseComment),
		ratings:  make(map[int64][]int),
	}
}

func (f *fakeCourses) GetCourse(courseID int64) (*domain.Course, error) {
	course, ok := f.courses[courseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return course, nil
}

func (f *fakeCourses) ListCoursesByTeacherUser(userID int64) ([]domain.Course, error) {
	return f.taughtBy[userID], nil
}

func (f *fakeCourses) ListTeacherNames(courseID int64) ([]string, error) {
	return f.teachers[courseID], nil
}

func (f *fakeCourses) ListVideos(courseID int64) ([]domain.CourseVideo, error) {
	return f.videos[courseID], nil
}

func (f *fakeCourses) ListComments(courseID int64) ([]domain.CourseComment, error) {
	return f.comments[courseID], nil
}

func (f *fakeCourses) CreateComment(courseID, userID int64, body string) (int64, error) {
	f.nextID++
	f.comments[courseID] = append(f.comments[courseID], domain.CourseComment{
		ID:       f.nextID,
		CourseID: courseID,
		UserID:   userID,
		Body:     body,
	})
	return f.nextID, nil
}

func (f *fakeCourses) UpsertRating(courseID, userID int64, value int) error {
	f.ratings[courseID] = append(f.ratings[courseID], value)
	return nil
}

func (f *fakeCourses) AverageRating(courseID int64) (float64, error) {
	values := f.ratings[courseID]
	if len(values) == 0 {
		return 0, nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values)), nil
}

// fakeLinks backs both the Shortener and Lengthener interfaces with a
// map, deriving tokens the same way the real service does.
type fakeLinks struct {
	byToken map[string]string
}

func newFakeLinks() *fakeLinks {
	return &fakeLinks{byToken: make(map[string]string)}
}

func (f *fakeLinks) Shorten(ctx context.Context, target string) (string, error) {
	token := testTokenFor(target)
	f.byToken[token] = target
	return token, nil
}

func (f *fakeLinks) Lengthen(ctx context.Context, token string) (string, error) {
	target, ok := f.byToken[token]
	if !ok {
		return "", domain.ErrNotFound
	}
	return target, nil
}
