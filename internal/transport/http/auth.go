package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/learnhub/backend/internal/domain"
	"github.com/learnhub/backend/internal/metrics"
	"github.com/learnhub/backend/pkg/auth"
	"github.com/learnhub/backend/pkg/httputil"
)

// StatusUsernameTaken is the custom status code the original web client
// expects when a signup collides on the username.
const StatusUsernameTaken = 599

type UserStore interface {
	CreateUser(username, email, passwordHash, firstName, lastName string) (int64, error)
	GetUserByUsername(username string) (*domain.User, error)
	UpdateLastLogin(userID int64, t time.Time) error
	MakeTeacher(userID int64) error
	MakeStudent(userID int64) error
	IsTeacher(userID int64) (bool, error)
}

type SessionMediator interface {
	ObtainSession(userID int64) (*domain.Session, error)
	RefreshExpiry(session *domain.Session) error
	Validate(token string) (*domain.User, *domain.Session, error)
	Terminate(token string) error
	UserByToken(token string) (*domain.User, error)
}

type AuthHandler struct {
	Users    UserStore
	Sessions SessionMediator
}

func NewAuthHandler(users UserStore, sessions SessionMediator) *AuthHandler {
	return &AuthHandler{
		Users:    users,
		Sessions: sessions,
	}
}

// loginResponse doubles as the signup response; the session ID is also
// set as a cookie, but the client stores it from the body as well.
type loginResponse struct {
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	LastLogin         time.Time `json:"lastLogin"`
	SessionID         string    `json:"sessionID"`
	SessionExpireDate string    `json:"sessionExpireDate"`
	IsTeacher         bool      `json:"isTeacher"`
}

type validateResponse struct {
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	LastLogin         time.Time `json:"lastLogin"`
	SessionID         string    `json:"sessionID"`
	SessionExpireDate string    `json:"sessionExpireDate"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBody(w, http.StatusBadRequest, "Invalid input.")
		return
	}

	user, err := h.Users.GetUserByUsername(req.Username)
	if err != nil || user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		writeBody(w, http.StatusUnauthorized, "Invalid user credentials.")
		return
	}

	isTeacher, err := h.Users.IsTeacher(user.ID)
	if err != nil {
		writeBody(w, http.StatusInternalServerError, "Could not resolve the user's role.")
		return
	}

	// Obtain a session for the user: an already existing session is
	// reused, otherwise a new one is created.
	session, err := h.Sessions.ObtainSession(user.ID)
	if err != nil {
		log.Printf("[AUTH] Failed to obtain session for user %d: %v", user.ID, err)
		writeBody(w, http.StatusInternalServerError, "Could not create a session for the user.")
		return
	}

	// Push the expiry out if the session is close to its deadline.
	if err := h.Sessions.RefreshExpiry(session); err != nil {
		log.Printf("[AUTH] Failed to refresh session expiry for user %d: %v", user.ID, err)
		writeBody(w, http.StatusInternalServerError, "Could not refresh the session.")
		return
	}

	// The response carries the last login BEFORE this one.
	resp := loginResponse{
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		LastLogin:         user.LastLogin,
		SessionID:         session.Token,
		SessionExpireDate: session.ExpiresAt.Format(time.RFC3339),
		IsTeacher:         isTeacher,
	}

	if err := h.Users.UpdateLastLogin(user.ID, time.Now()); err != nil {
		log.Printf("[AUTH] Failed to update last login for user %d: %v", user.ID, err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	httputil.SetSessionCookie(w, session.Token, session.ExpiresAt)
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	hadCookie := httputil.HasSessionCookie(r)

	// The session ID comes from the cookie, with the request body as a
	// fallback.
	token, err := httputil.GetSessionTokenFromCookie(r)
	if err != nil {
		var req struct {
			SessionID string `json:"sessionID"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr == nil && req.SessionID != "" {
			token = req.SessionID
		} else {
			writeBody(w, http.StatusBadRequest,
				"Could not obtain the session ID. Make sure that the session ID is either in the body or set as a cookie.")
			return
		}
	}

	switch err := h.Sessions.Terminate(token); {
	case err == nil:
		if hadCookie {
			httputil.ClearSessionCookie(w)
		}
		writeBody(w, http.StatusOK, "Successfully deleted session.")
	case err == domain.ErrNotFound:
		writeBody(w, http.StatusNotFound, "Could not find the requested session.")
	case err == domain.ErrTerminationFailed:
		if hadCookie {
			httputil.ClearSessionCookie(w)
		}
		writeBody(w, http.StatusInternalServerError, "Session was found but could not be terminated.")
	default:
		log.Printf("[AUTH] Failed to terminate session: %v", err)
		writeBody(w, http.StatusInternalServerError, "Could not delete the session.")
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		IsTeacher       bool   `json:"isTeacher"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBody(w, http.StatusBadRequest, "Invalid input.")
		return
	}

	// Client side validation also checks this; kept as a redundancy
	// step.
	if req.Password != req.ConfirmPassword {
		metrics.SignupsTotal.WithLabelValues("rejected").Inc()
		writeBody(w, http.StatusBadRequest, "The passwords don't match.")
		return
	}

	hashedPwd, err := auth.HashPassword(req.Password)
	if err != nil {
		writeBody(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	userID, err := h.Users.CreateUser(req.Username, req.Email, hashedPwd, req.FirstName, req.LastName)
	if err == domain.ErrDuplicate {
		metrics.SignupsTotal.WithLabelValues("taken").Inc()
		writeBody(w, StatusUsernameTaken, "Requested username is taken.")
		return
	}
	if err != nil {
		log.Printf("[AUTH] Failed to create user %q: %v", req.Username, err)
		writeBody(w, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	// Users are categorised into teachers and students.
	if req.IsTeacher {
		err = h.Users.MakeTeacher(userID)
	} else {
		err = h.Users.MakeStudent(userID)
	}
	if err != nil {
		log.Printf("[AUTH] Failed to record role for user %d: %v", userID, err)
		writeBody(w, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	session, err := h.Sessions.ObtainSession(userID)
	if err != nil {
		log.Printf("[AUTH] Failed to obtain session for user %d: %v", userID, err)
		writeBody(w, http.StatusInternalServerError, "Could not create a session for the user.")
		return
	}

	now := time.Now()
	resp := loginResponse{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		LastLogin:         now,
		SessionID:         session.Token,
		SessionExpireDate: session.ExpiresAt.Format(time.RFC3339),
		IsTeacher:         req.IsTeacher,
	}

	if err := h.Users.UpdateLastLogin(userID, now); err != nil {
		log.Printf("[AUTH] Failed to update last login for user %d: %v", userID, err)
	}

	metrics.SignupsTotal.WithLabelValues("ok").Inc()
	httputil.SetSessionCookie(w, session.Token, session.ExpiresAt)
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID         string `json:"sessionID"`
		SessionExpireDate string `json:"sessionExpireDate"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBody(w, http.StatusBadRequest, "Invalid input.")
		return
	}

	user, session, err := h.Sessions.Validate(req.SessionID)
	if err == domain.ErrUnauthorized {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Failed to validate session: %v", err)
		writeBody(w, http.StatusInternalServerError, "Could not validate the session.")
		return
	}

	resp := validateResponse{
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		LastLogin:         user.LastLogin,
		SessionID:         session.Token,
		SessionExpireDate: session.ExpiresAt.Format(time.RFC3339),
	}

	httputil.SetSessionCookie(w, session.Token, session.ExpiresAt)
	writeJSON(w, http.StatusOK, resp)
}
