package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/backend/internal/domain"
)

// fakeRepo is an in-memory SessionRepository.
type fakeRepo struct {
	sessions     map[string]*domain.Session
	associations map[int64][]domain.UserSession
	users        map[string]*domain.User // keyed by session token
	expiryWrites int
	stickyDelete bool // when set, DeleteSession leaves the row behind
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions:     make(map[string]*domain.Session),
		associations: make(map[int64][]domain.UserSession),
		users:        make(map[string]*domain.User),
	}
}

func (r *fakeRepo) CreateSession(token string, expiresAt time.Time) error {
	if _, exists := r.sessions[token]; exists {
		return domain.ErrDuplicate
	}
	r.sessions[token] = &domain.Session{Token: token, ExpiresAt: expiresAt}
	return nil
}

func (r *fakeRepo) GetSession(token string) (*domain.Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeRepo) UpdateExpiry(token string, expiresAt time.Time) error {
	r.expiryWrites++
	if session, ok := r.sessions[token]; ok {
		session.ExpiresAt = expiresAt
	}
	return nil
}

func (r *fakeRepo) DeleteSession(token string) error {
	if !r.stickyDelete {
		delete(r.sessions, token)
	}
	return nil
}

func (r *fakeRepo) CreateAssociation(userID int64, token string) error {
	r.associations[userID] = append(r.associations[userID], domain.UserSession{
		UserID:       userID,
		SessionToken: token,
	})
	return nil
}

func (r *fakeRepo) GetAssociationByUser(userID int64) (*domain.UserSession, error) {
	found := r.associations[userID]
	switch len(found) {
	case 0:
		return nil, domain.ErrNotFound
	case 1:
		return &found[0], nil
	default:
		return nil, domain.ErrSessionConflict
	}
}

func (r *fakeRepo) GetUserByToken(token string) (*domain.User, error) {
	user, ok := r.users[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func newTestService(repo *fakeRepo, now time.Time) *Service {
	svc := NewService(repo, 30)
	svc.now = func() time.Time { return now }
	return svc
}

func TestObtainSession_ReturnsSameSessionTwice(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())

	first, err := svc.ObtainSession(1)
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)

	second, err := svc.ObtainSession(1)
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Len(t, repo.sessions, 1)
	assert.Len(t, repo.associations[1], 1)
}

func TestObtainSession_DistinctUsersGetDistinctSessions(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())

	one, err := svc.ObtainSession(1)
	require.NoError(t, err)
	two, err := svc.ObtainSession(2)
	require.NoError(t, err)

	assert.NotEqual(t, one.Token, two.Token)
}

func TestObtainSession_DefaultExpiry(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	session, err := svc.ObtainSession(1)
	require.NoError(t, err)

	assert.Equal(t, now.Add(30*24*time.Hour), session.ExpiresAt)
}

func TestObtainSession_MultipleAssociationsRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.associations[1] = []domain.UserSession{
		{UserID: 1, SessionToken: "a"},
		{UserID: 1, SessionToken: "b"},
	}
	svc := newTestService(repo, time.Now())

	_, err := svc.ObtainSession(1)
	assert.ErrorIs(t, err, domain.ErrSessionConflict)
}

func TestRefreshExpiry_ExtendsNearDeadline(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	expiry := now.Add(10 * 24 * time.Hour)
	repo.sessions["tok"] = &domain.Session{Token: "tok", ExpiresAt: expiry}
	session := &domain.Session{Token: "tok", ExpiresAt: expiry}

	require.NoError(t, svc.RefreshExpiry(session))

	assert.Equal(t, expiry.Add(30*24*time.Hour), session.ExpiresAt)
	assert.Equal(t, 1, repo.expiryWrites)
}

func TestRefreshExpiry_LeavesDistantExpiryUnchanged(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	expiry := now.Add(40 * 24 * time.Hour)
	repo.sessions["tok"] = &domain.Session{Token: "tok", ExpiresAt: expiry}
	session := &domain.Session{Token: "tok", ExpiresAt: expiry}

	require.NoError(t, svc.RefreshExpiry(session))

	assert.Equal(t, expiry, session.ExpiresAt)
	// The record is persisted even when unchanged.
	assert.Equal(t, 1, repo.expiryWrites)
}

func TestRefreshExpiry_ExtendsJustExpiredSession(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	// Expired an hour ago: the remaining time floors to -1 whole days,
	// which is within the extension window.
	expiry := now.Add(-time.Hour)
	repo.sessions["tok"] = &domain.Session{Token: "tok", ExpiresAt: expiry}
	session := &domain.Session{Token: "tok", ExpiresAt: expiry}

	require.NoError(t, svc.RefreshExpiry(session))

	assert.Equal(t, expiry.Add(30*24*time.Hour), session.ExpiresAt)
}

func TestValidate_UnknownTokenUnauthorized(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())

	_, _, err := svc.Validate("no-such-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidate_ResolvesUserAndRefreshes(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	expiry := now.Add(10 * 24 * time.Hour)
	repo.sessions["tok"] = &domain.Session{Token: "tok", ExpiresAt: expiry}
	repo.users["tok"] = &domain.User{ID: 7, Username: "priya"}

	user, session, err := svc.Validate("tok")
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, expiry.Add(30*24*time.Hour), session.ExpiresAt)
	assert.Equal(t, 1, repo.expiryWrites)
}

func TestTerminate_UnknownTokenNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())

	err := svc.Terminate("no-such-token")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTerminate_DeletesSession(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())

	repo.sessions["tok"] = &domain.Session{Token: "tok", ExpiresAt: time.Now()}

	require.NoError(t, svc.Terminate("tok"))
	assert.NotContains(t, repo.sessions, "tok")
}

func TestTerminate_FailsWhenRowSurvivesDelete(t *testing.T) {
	repo := newFakeRepo()
	repo.stickyDelete = true
	svc := newTestService(repo, time.Now())

	repo.sessions["tok"] = &domain.Session{Token: "tok", ExpiresAt: time.Now()}

	err := svc.Terminate("tok")
	assert.ErrorIs(t, err, domain.ErrTerminationFailed)
}
