package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/learnhub/backend/internal/domain"
	"github.com/learnhub/backend/internal/transport/http/middleware"
	"github.com/learnhub/backend/pkg/httputil"
)

type CourseStore interface {
	GetCourse(courseID int64) (*domain.Course, error)
	ListCoursesByTeacherUser(userID int64) ([]domain.Course, error)
	ListTeacherNames(courseID int64) ([]string, error)
	ListVideos(courseID int64) ([]domain.CourseVideo, error)
	ListComments(courseID int64) ([]domain.CourseComment, error)
	CreateComment(courseID, userID int64, body string) (int64, error)
	UpsertRating(courseID, userID int64, value int) error
	AverageRating(courseID int64) (float64, error)
}

// Shortener mirrors the shortener service surface the course views need.
type Shortener interface {
	Shorten(ctx context.Context, target string) (string, error)
}

type CourseHandler struct {
	Courses   CourseStore
	Users     UserStore
	Sessions  SessionMediator
	Shortener Shortener
}

func NewCourseHandler(courses CourseStore, users UserStore, sessions SessionMediator, shortener Shortener) *CourseHandler {
	return &CourseHandler{
		Courses:   courses,
		Users:     users,
		Sessions:  sessions,
		Shortener: shortener,
	}
}

type courseResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type courseVideoResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DateUploaded string `json:"dateUploaded"`
	URL          string `json:"url"`
}

type courseDetailResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Image       string                `json:"image"`
	Teachers    []string              `json:"teachers"`
	Videos      []courseVideoResponse `json:"videos"`
}

// shortMediaURL shortens an absolute media path and turns it into a
// fully qualified redirect URL on this host.
func (h *CourseHandler) shortMediaURL(r *http.Request, path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		// Stored paths are relative; the shortened target must be
		// absolute.
		path = "/" + path
	}
	token, err := h.Shortener.Shorten(r.Context(), path)
	if err != nil {
		return "", err
	}
	return "http://" + r.Host + "/short/" + token + "/", nil
}

// TeacherCourses lists the courses taught by the calling teacher.
func (h *CourseHandler) TeacherCourses(w http.ResponseWriter, r *http.Request) {
	token, err := httputil.GetSessionTokenFromCookie(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Sessions.UserByToken(token)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	isTeacher, err := h.Users.IsTeacher(user.ID)
	if err != nil {
		writeBody(w, http.StatusInternalServerError, "Could not resolve the user's role.")
		return
	}
	if !isTeacher {
		writeBody(w, http.StatusBadRequest, "This user is not a teacher.")
		return
	}

	courses, err := h.Courses.ListCoursesByTeacherUser(user.ID)
	if err != nil {
		log.Printf("[COURSE] Failed to list courses for teacher user %d: %v", user.ID, err)
		writeBody(w, http.StatusInternalServerError, "Could not fetch courses.")
		return
	}

	resp := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		image, err := h.shortMediaURL(r, course.ImagePath)
		if err != nil {
			log.Printf("[COURSE] Failed to shorten image URL for course %d: %v", course.ID, err)
			writeBody(w, http.StatusInternalServerError, "Could not fetch courses.")
			return
		}
		resp = append(resp, courseResponse{
			ID:          course.ID,
			Name:        course.Name,
			Description: course.Description,
			Image:       image,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// CourseDetail returns course info with teacher names and videos, all
// media paths shortened.
func (h *CourseHandler) CourseDetail(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBody(w, http.StatusNotFound, fmt.Sprintf("No course was found with ID %s.", r.PathValue("id")))
		return
	}

	course, err := h.Courses.GetCourse(courseID)
	if err == domain.ErrNotFound {
		writeBody(w, http.StatusNotFound, fmt.Sprintf("No course was found with ID %d.", courseID))
		return
	}
	if err != nil {
		log.Printf("[COURSE] Failed to get course %d: %v", courseID, err)
		writeBody(w, http.StatusInternalServerError, "Could not fetch the course.")
		return
	}

	teachers, err := h.Courses.ListTeacherNames(courseID)
	if err != nil {
		log.Printf("[COURSE] Failed to list teachers for course %d: %v", courseID, err)
		writeBody(w, http.StatusInternalServerError, "Could not fetch the course.")
		return
	}

	image, err := h.shortMediaURL(r, course.ImagePath)
	if err != nil {
		log.Printf("[COURSE] Failed to shorten image URL for course %d: %v", courseID, err)
		writeBody(w, http.StatusInternalServerError, "Could not fetch the course.")
		return
	}

	videos, err := h.Courses.ListVideos(courseID)
	if err != nil {
		log.Printf("[COURSE] Failed to list videos for course %d: %v", courseID, err)
		writeBody(w, http.StatusInternalServerError, "Could not fetch the course.")
		return
	}

	resp := courseDetailResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		Image:       image,
		Teachers:    teachers,
		Videos:      make([]courseVideoResponse, 0, len(videos)),
	}

	for _, video := range videos {
		url, err := h.shortMediaURL(r, video.VideoPath)
		if err != nil {
			log.Printf("[COURSE] Failed to shorten video URL for video %d: %v", video.ID, err)
			writeBody(w, http.StatusInternalServerError, "Could not fetch the course.")
			return
		}
		resp.Videos = append(resp.Videos, courseVideoResponse{
			ID:           video.ID,
			Title:        video.Title,
			Description:  video.Description,
			DateUploaded: video.DateAdded.Format(time.RFC3339),
			URL:          url,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Comments lists a course's comments with their replies.
func (h *CourseHandler) Comments(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseFromPath(w, r)
	if !ok {
		return
	}

	comments, err := h.Courses.ListComments(courseID)
	if err != nil {
		log.Printf("[COURSE] Failed to list comments for course %d: %v", courseID, err)
		writeBody(w, http.StatusInternalServerError, "Could not fetch comments.")
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// CreateComment posts a comment on a course for the calling user.
func (h *CourseHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseFromPath(w, r)
	if !ok {
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		writeBody(w, http.StatusBadRequest, "A comment body is required.")
		return
	}

	commentID, err := h.Courses.CreateComment(courseID, user.ID, strings.TrimSpace(req.Body))
	if err != nil {
		log.Printf("[COURSE] Failed to create comment on course %d: %v", courseID, err)
		writeBody(w, http.StatusInternalServerError, "Could not create the comment.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        commentID,
		"course_id": courseID,
		"author":    user.Username,
	})
}

// RateCourse stores the calling user's 1-5 rating and returns the new
// average.
func (h *CourseHandler) RateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseFromPath(w, r)
	if !ok {
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
		writeBody(w, http.StatusBadRequest, "Rating must be between 1 and 5.")
		return
	}

	if err := h.Courses.UpsertRating(courseID, user.ID, req.Rating); err != nil {
		log.Printf("[COURSE] Failed to rate course %d: %v", courseID, err)
		writeBody(w, http.StatusInternalServerError, "Could not store the rating.")
		return
	}

	average, err := h.Courses.AverageRating(courseID)
	if err != nil {
		log.Printf("[COURSE] Failed to compute average rating for course %d: %v", courseID, err)
		writeBody(w, http.StatusInternalServerError, "Could not store the rating.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rating":  req.Rating,
		"average": average,
	})
}

// courseFromPath parses the {id} path value and confirms the course
// exists.
func (h *CourseHandler) courseFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	courseID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBody(w, http.StatusNotFound, fmt.Sprintf("No course was found with ID %s.", r.PathValue("id")))
		return 0, false
	}

	if _, err := h.Courses.GetCourse(courseID); err != nil {
		if err == domain.ErrNotFound {
			writeBody(w, http.StatusNotFound, fmt.Sprintf("No course was found with ID %d.", courseID))
		} else {
			log.Printf("[COURSE] Failed to get course %d: %v", courseID, err)
			writeBody(w, http.StatusInternalServerError, "Could not fetch the course.")
		}
		return 0, false
	}

	return courseID, true
}
