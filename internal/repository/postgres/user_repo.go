package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/learnhub/backend/internal/domain"
)

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// isUniqueViolation reports whether err is a unique constraint violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const userSelectFields = `id, username, COALESCE(email, '') as email, password_hash, COALESCE(first_name, '') as first_name, COALESCE(last_name, '') as last_name, last_login, date_joined`

// scanUser is a helper that scans a row into a User struct
func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
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
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user. Returns domain.ErrDuplicate when the
// username is already taken.
func (r *UserRepo) CreateUser(username, email, passwordHash, firstName, lastName string) (int64, error) {
	query := `
	INSERT INTO users (username, email, password_hash, first_name, last_name, last_login, date_joined)
	VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	RETURNING id;
	`
	var userID int64
	err := r.DB.QueryRow(query, username, email, passwordHash, firstName, lastName).Scan(&userID)
	if isUniqueViolation(err) {
		return 0, domain.ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %v", err)
	}
	return userID, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepo) GetUserByUsername(username string) (*domain.User, error) {
	query := `SELECT ` + userSelectFields + ` FROM users WHERE username = $1;`
	user, err := scanUser(r.DB.QueryRow(query, username))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, err
}

// GetUserByID retrieves a user by ID
func (r *UserRepo) GetUserByID(userID int64) (*domain.User, error) {
	query := `SELECT ` + userSelectFields + ` FROM users WHERE id = $1;`
	user, err := scanUser(r.DB.QueryRow(query, userID))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, err
}

// UpdateLastLogin sets the user's last_login timestamp.
func (r *UserRepo) UpdateLastLogin(userID int64, t time.Time) error {
	query := `UPDATE users SET last_login = $2 WHERE id = $1;`
	_, err := r.DB.Exec(query, userID, t)
	if err != nil {
		return fmt.Errorf("failed to update last login: %v", err)
	}
	return nil
}

// MakeTeacher records the user in the teachers table.
func (r *UserRepo) MakeTeacher(userID int64) error {
	query := `INSERT INTO teachers (user_id) VALUES ($1);`
	_, err := r.DB.Exec(query, userID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create teacher record: %v", err)
	}
	return nil
}

// MakeStudent records the user in the students table.
func (r *UserRepo) MakeStudent(userID int64) error {
	query := `INSERT INTO students (user_id) VALUES ($1);`
	_, err := r.DB.Exec(query, userID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create student record: %v", err)
	}
	return nil
}

// IsTeacher reports whether the user has a teacher record.
func (r *UserRepo) IsTeacher(userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM teachers WHERE user_id = $1);`
	var isTeacher bool
	if err := r.DB.QueryRow(query, userID).Scan(&isTeacher); err != nil {
		return false, fmt.Errorf("failed to check teacher record: %v", err)
	}
	return isTeacher, nil
}
