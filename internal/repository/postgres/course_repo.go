package postgres

import (
	"database/sql"
	"fmt"

	"github.com/learnhub/backend/internal/domain"
)

type CourseRepo struct {
	DB *sql.DB
}

func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{DB: db}
}

// GetCourse retrieves a course by ID.
func (r *CourseRepo) GetCourse(courseID int64) (*domain.Course, error) {
	query := `SELECT id, name, COALESCE(description, '') as description, image_path FROM courses WHERE id = $1;`
	var course domain.Course
	err := r.DB.QueryRow(query, courseID).Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.ImagePath,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %v", err)
	}
	return &course, nil
}

// ListCoursesByTeacherUser returns the courses taught by the teacher
// record belonging to the given user.
func (r *CourseRepo) ListCoursesByTeacherUser(userID int64) ([]domain.Course, error) {
	query := `
	SELECT c.id, c.name, COALESCE(c.description, '') as description, c.image_path
	FROM courses c
	JOIN course_teachers ct ON ct.course_id = c.id
	JOIN teachers t ON t.id = ct.teacher_id
	WHERE t.user_id = $1
	ORDER BY c.id;
	`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query taught courses: %v", err)
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImagePath); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %v", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate course rows: %v", err)
	}

	return courses, nil
}

// ListTeacherNames returns the display names of the teachers of a course.
func (r *CourseRepo) ListTeacherNames(courseID int64) ([]string, error) {
	query := `
	SELECT COALESCE(u.first_name, '') || ' ' || COALESCE(u.last_name, '')
	FROM course_teachers ct
	JOIN teachers t ON t.id = ct.teacher_id
	JOIN users u ON u.id = t.user_id
	WHERE ct.course_id = $1
	ORDER BY ct.id;
	`
	rows, err := r.DB.Query(query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course teachers: %v", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan teacher name: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teacher names: %v", err)
	}

	return names, nil
}

// ListVideos returns the videos of a course, oldest first.
func (r *CourseRepo) ListVideos(courseID int64) ([]domain.CourseVideo, error) {
	query := `
	SELECT id, course_id, title, COALESCE(description, '') as description, video_path, date_added
	FROM course_videos
	WHERE course_id = $1
	ORDER BY date_added;
	`
	rows, err := r.DB.Query(query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course videos: %v", err)
	}
	defer rows.Close()

	videos := make([]domain.CourseVideo, 0)
	for rows.Next() {
		var v domain.CourseVideo
		if err := rows.Scan(&v.ID, &v.CourseID, &v.Title, &v.Description, &v.VideoPath, &v.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan video row: %v", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate video rows: %v", err)
	}

	return videos, nil
}

// ListComments returns the comments of a course with their replies,
// oldest first.
func (r *CourseRepo) ListComments(courseID int64) ([]domain.CourseComment, error) {
	query := `
	SELECT cc.id, cc.course_id, cc.user_id, u.username, cc.body, cc.created_at
	FROM course_comments cc
	JOIN users u ON u.id = cc.user_id
	WHERE cc.course_id = $1
	ORDER BY cc.created_at;
	`
	rows, err := r.DB.Query(query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course comments: %v", err)
	}
	defer rows.Close()

	comments := make([]domain.CourseComment, 0)
	for rows.Next() {
		var c domain.CourseComment
		if err := rows.Scan(&c.ID, &c.CourseID, &c.UserID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %v", err)
		}
		c.Replies = make([]domain.CourseReply, 0)
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comment rows: %v", err)
	}
	if len(comments) == 0 {
		return comments, nil
	}

	replyQuery := `
	SELECT cr.id, cr.comment_id, cr.user_id, u.username, cr.body, cr.created_at
	FROM course_replies cr
	JOIN users u ON u.id = cr.user_id
	JOIN course_comments cc ON cc.id = cr.comment_id
	WHERE cc.course_id = $1
	ORDER BY cr.created_at;
	`
	replyRows, err := r.DB.Query(replyQuery, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comment replies: %v", err)
	}
	defer replyRows.Close()

	byComment := make(map[int64]int, len(comments))
	for i, c := range comments {
		byComment[c.ID] = i
	}
	for replyRows.Next() {
		var reply domain.CourseReply
		if err := replyRows.Scan(&reply.ID, &reply.CommentID, &reply.UserID, &reply.Author, &reply.Body, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reply row: %v", err)
		}
		if i, ok := byComment[reply.CommentID]; ok {
			comments[i].Replies = append(comments[i].Replies, reply)
		}
	}
	if err := replyRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reply rows: %v", err)
	}

	return comments, nil
}

// CreateComment inserts a comment on a course.
func (r *CourseRepo) CreateComment(courseID, userID int64, body string) (int64, error) {
	query := `
	INSERT INTO course_comments (course_id, user_id, body, created_at)
	VALUES ($1, $2, $3, NOW())
	RETURNING id;
	`
	var commentID int64
	err := r.DB.QueryRow(query, courseID, userID, body).Scan(&commentID)
	if err != nil {
		return 0, fmt.Errorf("failed to create comment: %v", err)
	}
	return commentID, nil
}

// UpsertRating stores the caller's rating for a course, replacing any
// previous one.
func (r *CourseRepo) UpsertRating(courseID, userID int64, value int) error {
	query := `
	INSERT INTO course_ratings (course_id, user_id, value)
	VALUES ($1, $2, $3)
	ON CONFLICT (course_id, user_id) DO UPDATE SET value = EXCLUDED.value;
	`
	_, err := r.DB.Exec(query, courseID, userID, value)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %v", err)
	}
	return nil
}

// AverageRating returns the mean rating of a course, 0 when unrated.
func (r *CourseRepo) AverageRating(courseID int64) (float64, error) {
	query := `SELECT COALESCE(AVG(value), 0) FROM course_ratings WHERE course_id = $1;`
	var avg float64
	if err := r.DB.QueryRow(query, courseID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %v", err)
	}
	return avg, nil
}
