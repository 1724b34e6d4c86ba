package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/learnhub/backend/internal/domain"
)

type SessionRepo struct {
	DB *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

// CreateSession inserts a new session row.
func (r *SessionRepo) CreateSession(token string, expiresAt time.Time) error {
	query := `
	INSERT INTO sessions (token, payload, expires_at)
	VALUES ($1, ''::bytea, $2);
	`
	_, err := r.DB.Exec(query, token, expiresAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create session: %v", err)
	}
	return nil
}

// GetSession retrieves a session by its token.
func (r *SessionRepo) GetSession(token string) (*domain.Session, error) {
	query := `SELECT token, payload, expires_at FROM sessions WHERE token = $1;`
	var session domain.Session
	err := r.DB.QueryRow(query, token).Scan(
		&session.Token,
		&session.Payload,
		&session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %v", err)
	}
	return &session, nil
}

// UpdateExpiry persists a session's expiry timestamp.
func (r *SessionRepo) UpdateExpiry(token string, expiresAt time.Time) error {
	query := `UPDATE sessions SET expires_at = $2 WHERE token = $1;`
	_, err := r.DB.Exec(query, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update session expiry: %v", err)
	}
	return nil
}

// DeleteSession removes a session row. The association row goes with it
// via ON DELETE CASCADE.
func (r *SessionRepo) DeleteSession(token string) error {
	query := `DELETE FROM sessions WHERE token = $1;`
	_, err := r.DB.Exec(query, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	return nil
}

// CreateAssociation records the user↔session mapping.
func (r *SessionRepo) CreateAssociation(userID int64, token string) error {
	query := `INSERT INTO user_sessions (user_id, session_token) VALUES ($1, $2);`
	_, err := r.DB.Exec(query, userID, token)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create session association: %v", err)
	}
	return nil
}

// GetAssociationByUser returns the association for a user.
// domain.ErrNotFound when none exists, domain.ErrSessionConflict if more
// than one row matches.
func (r *SessionRepo) GetAssociationByUser(userID int64) (*domain.UserSession, error) {
	query := `SELECT id, user_id, session_token FROM user_sessions WHERE user_id = $1;`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session associations: %v", err)
	}
	defer rows.Close()

	var found []domain.UserSession
	for rows.Next() {
		var assoc domain.UserSession
		if err := rows.Scan(&assoc.ID, &assoc.UserID, &assoc.SessionToken); err != nil {
			return nil, fmt.Errorf("failed to scan session association: %v", err)
		}
		found = append(found, assoc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session associations: %v", err)
	}

	switch len(found) {
	case 0:
		return nil, domain.ErrNotFound
	case 1:
		return &found[0], nil
	default:
		return nil, domain.ErrSessionConflict
	}
}

// GetUserByToken resolves the user associated with a session token.
func (r *SessionRepo) GetUserByToken(token string) (*domain.User, error) {
	query := `
	SELECT u.id, u.username, COALESCE(u.email, '') as email, u.password_hash,
	       COALESCE(u.first_name, '') as first_name, COALESCE(u.last_name, '') as last_name,
	       u.last_login, u.date_joined
	FROM users u
	JOIN user_sessions us ON us.user_id = u.id
	WHERE us.session_token = $1;
	`
	var user domain.User
	err := r.DB.QueryRow(query, token).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.LastLogin,
		&user.DateJoined,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session user: %v", err)
	}
	return &user, nil
}

// DeleteExpiredSessions removes sessions that expired before the cutoff
// and returns how many were deleted.
func (r *SessionRepo) DeleteExpiredSessions(cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < $1;`
	result, err := r.DB.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %v", err)
	}

	return rowsAffected, nil
}
