package session

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/learnhub/backend/internal/domain"
	"github.com/learnhub/backend/pkg/uid"
)

// extensionThresholdDays is the window within which a session's expiry
// gets pushed out by extensionDays.
const (
	extensionThresholdDays = 30
	extensionDays          = 30
)

type SessionRepository interface {
	CreateSession(token string, expiresAt time.Time) error
	GetSession(token string) (*domain.Session, error)
	UpdateExpiry(token string, expiresAt time.Time) error
	DeleteSession(token string) error
	CreateAssociation(userID int64, token string) error
	GetAssociationByUser(userID int64) (*domain.UserSession, error)
	GetUserByToken(token string) (*domain.User, error)
}

// Service mediates between authenticated users and their durable
// sessions: one live session per user, created on demand, with expiry
// extended near the deadline.
type Service struct {
	repo    SessionRepository
	ttlDays int
	now     func() time.Time
}

func NewService(repo SessionRepository, ttlDays int) *Service {
	return &Service{
		repo:    repo,
		ttlDays: ttlDays,
		now:     time.Now,
	}
}

// ObtainSession returns the session associated with the user, creating
// the session and the association when none exists yet.
func (s *Service) ObtainSession(userID int64) (*domain.Session, error) {
	assoc, err := s.repo.GetAssociationByUser(userID)
	switch {
	case err == nil:
		return s.repo.GetSession(assoc.SessionToken)
	case errors.Is(err, domain.ErrNotFound):
		// No live session for this user, create one.
	default:
		return nil, err
	}

	token, err := uid.NewSessionToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(time.Duration(s.ttlDays) * 24 * time.Hour)
	if err := s.repo.CreateSession(token, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session for user %d: %v", userID, err)
	}
	if err := s.repo.CreateAssociation(userID, token); err != nil {
		return nil, fmt.Errorf("failed to associate session with user %d: %v", userID, err)
	}

	return &domain.Session{Token: token, ExpiresAt: expiresAt}, nil
}

// RefreshExpiry extends the session by 30 days when fewer than 30 whole
// days remain, and always persists the record. The day count floors
// toward negative infinity, so a session expired by less than a day
// still counts as close to the deadline and gets extended.
func (s *Service) RefreshExpiry(session *domain.Session) error {
	remaining := session.ExpiresAt.Sub(s.now())
	days := int(math.Floor(remaining.Hours() / 24))

	if abs(days) < extensionThresholdDays {
		session.ExpiresAt = session.ExpiresAt.Add(extensionDays * 24 * time.Hour)
	}

	return s.repo.UpdateExpiry(session.Token, session.ExpiresAt)
}

// Validate resolves the user associated with a session token and
// refreshes the session's expiry. Returns domain.ErrUnauthorized when
// the token maps to no association.
func (s *Service) Validate(token string) (*domain.User, *domain.Session, error) {
	user, err := s.repo.GetUserByToken(token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, nil, err
	}

	session, err := s.repo.GetSession(token)
	if err != nil {
		return nil, nil, err
	}

	if err := s.RefreshExpiry(session); err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// UserByToken resolves the user for a session token without touching the
// session's expiry.
func (s *Service) UserByToken(token string) (*domain.User, error) {
	user, err := s.repo.GetUserByToken(token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	return user, err
}

// Terminate deletes the session for a token. domain.ErrNotFound when no
// such session exists, domain.ErrTerminationFailed when the row is still
// resolvable after the delete.
func (s *Service) Terminate(token string) error {
	if _, err := s.repo.GetSession(token); err != nil {
		return err
	}

	if err := s.repo.DeleteSession(token); err != nil {
		return err
	}

	// Confirm the delete actually cleared the row.
	_, err := s.repo.GetSession(token)
	if err == nil {
		log.Printf("[SESSION] Session %s still resolvable after delete", token)
		return domain.ErrTerminationFailed
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
